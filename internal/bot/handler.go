package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"primatebot/internal/plot"
	"primatebot/internal/responses"
	"primatebot/internal/storage"
)

// Command carries the invocation context of a chat command.
type Command struct {
	GuildID    int64
	ChannelID  int64
	UserID     int64
	Username   string
	TargetID   int64
	TargetName string
}

// HandlerConfig restricts where commands are answered. Empty lists
// mean no restriction.
type HandlerConfig struct {
	GuildWhitelist []int64
	BotChannels    []int64
}

// Handler implements the bot commands on top of the score store, the
// response tables, and the chart renderer.
type Handler struct {
	store    *storage.Store
	gateway  Gateway
	renderer *plot.Renderer
	logger   *slog.Logger

	guildWhitelist map[int64]bool
	botChannels    map[int64]bool
}

// NewHandler wires a command handler. renderer may be nil, which
// disables chart attachments.
func NewHandler(store *storage.Store, gateway Gateway, renderer *plot.Renderer,
	cfg HandlerConfig, logger *slog.Logger) *Handler {

	return &Handler{
		store:          store,
		gateway:        gateway,
		renderer:       renderer,
		logger:         logger,
		guildWhitelist: idSet(cfg.GuildWhitelist),
		botChannels:    idSet(cfg.BotChannels),
	}
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// allowed reports whether a command from this guild and channel should
// be answered at all. Disallowed commands are dropped silently, the
// bot must not advertise itself in foreign guilds.
func (h *Handler) allowed(cmd Command) bool {
	if h.guildWhitelist != nil && !h.guildWhitelist[cmd.GuildID] {
		h.logger.Debug("Ignoring command from non-whitelisted guild", "guildId", cmd.GuildID)
		return false
	}
	if h.botChannels != nil && !h.botChannels[cmd.ChannelID] {
		h.logger.Debug("Ignoring command outside bot channels", "channelId", cmd.ChannelID)
		return false
	}
	return true
}

// Analyze rolls a fresh IQ and purity score for the invoking user,
// persists the result, and replies with the matching flavor text.
func (h *Handler) Analyze(ctx context.Context, cmd Command) error {
	if !h.allowed(cmd) {
		return nil
	}

	iq := responses.WeightedIQ()
	purity := responses.RandomPurity()

	if err := h.store.RecordAnalysis(cmd.UserID, cmd.GuildID, iq, purity, cmd.Username); err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	h.logger.Info("Analysis recorded",
		"userId", cmd.UserID, "guildId", cmd.GuildID, "iq", iq, "purity", purity)

	return h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title:       fmt.Sprintf("🔬 Primate Analysis: %s", displayName(cmd.Username, cmd.UserID)),
		Description: responses.Analysis(iq, purity),
		Color:       colorAnalysis,
	})
}

// MonkeyOff runs a duel between the invoking user and the target.
// Both contestants roll a purity score; the higher roll wins and the
// outcome is persisted before the announcement goes out.
func (h *Handler) MonkeyOff(ctx context.Context, cmd Command) error {
	if !h.allowed(cmd) {
		return nil
	}
	if cmd.TargetID == 0 {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			"You need an opponent for a monkey-off. Mention someone!")
	}
	if cmd.TargetID == cmd.UserID {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			"You can't monkey-off against yourself. Find a worthy opponent!")
	}

	challengerScore := responses.RandomPurity()
	opponentScore := responses.RandomPurity()

	if err := h.store.RecordDuel(cmd.UserID, cmd.TargetID, cmd.GuildID,
		challengerScore, opponentScore); err != nil {
		return fmt.Errorf("failed to record duel: %w", err)
	}

	h.logger.Info("Duel recorded",
		"challengerId", cmd.UserID, "opponentId", cmd.TargetID, "guildId", cmd.GuildID,
		"challengerScore", challengerScore, "opponentScore", opponentScore)

	outcome := responses.Duel(
		displayName(cmd.Username, cmd.UserID),
		displayName(cmd.TargetName, cmd.TargetID),
		challengerScore, opponentScore)

	return h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title:       outcome.Title,
		Description: outcome.Description,
		Color:       colorDuel,
	})
}

// RankAnalysis posts the guild's average-score leaderboard, with a
// scatter chart of every user's averages when a renderer is wired.
func (h *Handler) RankAnalysis(ctx context.Context, cmd Command) error {
	if !h.allowed(cmd) {
		return nil
	}

	averages, err := h.store.AverageScores(cmd.GuildID)
	if err != nil {
		return fmt.Errorf("failed to load averages: %w", err)
	}
	if len(averages) == 0 {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			"Nobody here has been analyzed yet. Volunteers?")
	}

	var b strings.Builder
	for i, avg := range averages {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "%s **%s** — IQ %.1f, purity %.1f%%\n",
			rankPrefix(i+1), displayName(avg.Username, avg.UserID), avg.AvgIQ, avg.AvgPurity)
	}

	if err := h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title:       "🧠 Average Scores",
		Description: b.String(),
		Color:       colorRanking,
		Footer:      fmt.Sprintf("%s analyzed users", formatNumber(int64(len(averages)))),
	}); err != nil {
		return err
	}

	if h.renderer == nil {
		return nil
	}
	points := make([]plot.ScatterPoint, 0, len(averages))
	for _, avg := range averages {
		points = append(points, plot.ScatterPoint{
			UserID: avg.UserID,
			Label:  displayName(avg.Username, avg.UserID),
			IQ:     avg.AvgIQ,
			Purity: avg.AvgPurity,
		})
	}
	img, err := h.renderer.Scatter(points, cmd.UserID, "Average IQ vs Purity")
	if err != nil {
		h.logger.Warn("Failed to render scatter chart", "error", err.Error())
		return nil
	}
	return h.gateway.SendImage(ctx, cmd.ChannelID, "averages.png", img, "")
}

// RankRecords posts each user's single most extreme result for the
// given metric and direction.
func (h *Handler) RankRecords(ctx context.Context, cmd Command,
	metric storage.Metric, direction storage.Direction) error {
	if !h.allowed(cmd) {
		return nil
	}

	records, err := h.store.ExtremeSingleRecord(cmd.GuildID, metric, direction)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			"No records on the books yet. Get analyzing!")
	}

	var b strings.Builder
	for i, rec := range records {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "%s **%s** — IQ %d, purity %d%%\n",
			rankPrefix(i+1), displayName(rec.Username, rec.UserID), rec.IQ, rec.Purity)
	}

	var title string
	if direction == storage.Best {
		title = fmt.Sprintf("🏅 Personal Bests (%s)", metric)
	} else {
		title = fmt.Sprintf("🙈 Personal Worsts (%s)", metric)
	}
	return h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title:       title,
		Description: b.String(),
		Color:       colorRanking,
	})
}

// RankWins posts the duel-win leaderboard with a bar chart.
func (h *Handler) RankWins(ctx context.Context, cmd Command) error {
	if !h.allowed(cmd) {
		return nil
	}

	wins, err := h.store.TopByWins(cmd.GuildID, 0)
	if err != nil {
		return fmt.Errorf("failed to load win counts: %w", err)
	}
	if len(wins) == 0 {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			"Nobody has won a monkey-off yet. The throne sits empty.")
	}

	var b strings.Builder
	bars := make([]plot.Bar, 0, len(wins))
	for i, wc := range wins {
		name := displayName(wc.Username, wc.UserID)
		fmt.Fprintf(&b, "%s **%s** — %s wins\n", rankPrefix(i+1), name, formatNumber(wc.Wins))
		bars = append(bars, plot.Bar{UserID: wc.UserID, Label: name, Value: float64(wc.Wins)})
	}

	if err := h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title:       "🏆 Most Duel Wins",
		Description: b.String(),
		Color:       colorRanking,
	}); err != nil {
		return err
	}

	if h.renderer == nil {
		return nil
	}
	img, err := h.renderer.BarChart(bars, cmd.UserID, "Duel Wins", "")
	if err != nil {
		h.logger.Warn("Failed to render bar chart", "error", err.Error())
		return nil
	}
	return h.gateway.SendImage(ctx, cmd.ChannelID, "wins.png", img, "")
}

// RankWinRate posts the duel win-rate leaderboard. Users without any
// duels never appear here.
func (h *Handler) RankWinRate(ctx context.Context, cmd Command) error {
	if !h.allowed(cmd) {
		return nil
	}

	rates, err := h.store.TopByWinRate(cmd.GuildID, 0)
	if err != nil {
		return fmt.Errorf("failed to load win rates: %w", err)
	}
	if len(rates) == 0 {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			"No duels fought yet, so no rates to rank.")
	}

	var b strings.Builder
	bars := make([]plot.Bar, 0, len(rates))
	for i, wr := range rates {
		name := displayName(wr.Username, wr.UserID)
		fmt.Fprintf(&b, "%s **%s** — %s (%s of %s duels)\n",
			rankPrefix(i+1), name, formatRate(wr.Rate),
			formatNumber(wr.Wins), formatNumber(wr.Total))
		bars = append(bars, plot.Bar{UserID: wr.UserID, Label: name, Value: wr.Rate})
	}

	if err := h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title:       "📈 Best Win Rates",
		Description: b.String(),
		Color:       colorRanking,
	}); err != nil {
		return err
	}

	if h.renderer == nil {
		return nil
	}
	img, err := h.renderer.BarChart(bars, cmd.UserID, "Win Rate", "%")
	if err != nil {
		h.logger.Warn("Failed to render bar chart", "error", err.Error())
		return nil
	}
	return h.gateway.SendImage(ctx, cmd.ChannelID, "winrates.png", img, "")
}

// Profile posts one user's stored scores and duel record. Without a
// target the invoking user is shown.
func (h *Handler) Profile(ctx context.Context, cmd Command) error {
	if !h.allowed(cmd) {
		return nil
	}

	userID, username := cmd.UserID, cmd.Username
	if cmd.TargetID != 0 {
		userID, username = cmd.TargetID, cmd.TargetName
	}

	p, err := h.store.GetProfile(userID, cmd.GuildID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return h.gateway.SendMessage(ctx, cmd.ChannelID,
			fmt.Sprintf("No data for **%s** yet. Time for a first analysis!",
				displayName(username, userID)))
	}

	lastScores := "not analyzed yet"
	if p.LastIQ != nil && p.LastPurity != nil {
		lastScores = fmt.Sprintf("IQ %d, purity %d%%", *p.LastIQ, *p.LastPurity)
	}

	ties := p.DuelsTotal - p.DuelWins - p.DuelLosses
	duelRecord := fmt.Sprintf("%s W / %s L / %s T",
		formatNumber(p.DuelWins), formatNumber(p.DuelLosses), formatNumber(ties))

	winRate := "—"
	if p.DuelsTotal > 0 {
		winRate = formatRate(100.0 * float64(p.DuelWins) / float64(p.DuelsTotal))
	}

	return h.gateway.SendEmbed(ctx, cmd.ChannelID, Embed{
		Title: fmt.Sprintf("🐵 Profile: %s", displayName(p.Username, p.UserID)),
		Color: colorAnalysis,
		Fields: []EmbedField{
			{Name: "Latest Analysis", Value: lastScores, Inline: false},
			{Name: "Tests Taken", Value: formatNumber(p.TestsTaken), Inline: true},
			{Name: "Duel Record", Value: duelRecord, Inline: true},
			{Name: "Win Rate", Value: winRate, Inline: true},
		},
	})
}
