package storage

import (
	"fmt"
	"strings"
	"time"
)

// Profile is the denormalized current-state row for one (user, guild)
// pair. LastIQ and LastPurity are nil until the user's first analysis.
type Profile struct {
	UserID     int64  `json:"userId"`
	GuildID    int64  `json:"guildId"`
	Username   string `json:"username"`
	LastIQ     *int64 `json:"lastIq"`
	LastPurity *int64 `json:"lastPurity"`
	TestsTaken int64  `json:"testsTaken"`
	DuelWins   int64  `json:"duelWins"`
	DuelLosses int64  `json:"duelLosses"`
	DuelsTotal int64  `json:"duelsTotal"`
}

// AnalysisRecord is one immutable row of the analysis history log.
type AnalysisRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	GuildID   int64     `json:"guildId"`
	IQ        int64     `json:"iq"`
	Purity    int64     `json:"purity"`
	Timestamp time.Time `json:"timestamp"`
}

// DuelRecord is one immutable row of the duel history log.
// WinnerID is nil for a tie; otherwise it equals ChallengerID or
// OpponentID, derived from the two scores inside the write transaction.
type DuelRecord struct {
	ID              int64     `json:"id"`
	ChallengerID    int64     `json:"challengerId"`
	OpponentID      int64     `json:"opponentId"`
	GuildID         int64     `json:"guildId"`
	ChallengerScore int64     `json:"challengerScore"`
	OpponentScore   int64     `json:"opponentScore"`
	WinnerID        *int64    `json:"winnerId"`
	Timestamp       time.Time `json:"timestamp"`
}

// AverageScore is one user's mean scores across their analysis history.
type AverageScore struct {
	UserID    int64
	Username  string
	AvgIQ     float64
	AvgPurity float64
}

// ExtremeRecord is the single best or worst analysis row for one user.
type ExtremeRecord struct {
	UserID   int64
	Username string
	IQ       int64
	Purity   int64
}

// WinCount is one user's duel win total.
type WinCount struct {
	UserID   int64
	Username string
	Wins     int64
}

// WinRate is one user's duel win percentage.
type WinRate struct {
	UserID   int64
	Username string
	Wins     int64
	Total    int64
	Rate     float64
}

// Metric selects which analysis score an extreme-record query ranks by.
// The enum maps internally to a fixed SQL expression; caller input never
// reaches the query text directly.
type Metric int

const (
	// MetricIQ ranks by the IQ score.
	MetricIQ Metric = iota
	// MetricPurity ranks by the monkey purity percentage.
	MetricPurity
	// MetricCombined ranks by the sum of both scores.
	MetricCombined
)

// ParseMetric converts a string to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "iq":
		return MetricIQ, nil
	case "purity", "monkey":
		return MetricPurity, nil
	case "combined":
		return MetricCombined, nil
	default:
		return 0, fmt.Errorf("unknown metric %q (want iq, purity or combined)", s)
	}
}

// orderExpr returns the SQL expression this metric sorts by.
func (m Metric) orderExpr() (string, error) {
	switch m {
	case MetricIQ:
		return "iq_score", nil
	case MetricPurity:
		return "purity_score", nil
	case MetricCombined:
		return "(iq_score + purity_score)", nil
	default:
		return "", fmt.Errorf("invalid metric %d", int(m))
	}
}

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case MetricIQ:
		return "iq"
	case MetricPurity:
		return "purity"
	case MetricCombined:
		return "combined"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Direction selects whether an extreme-record query picks each user's
// highest or lowest row.
type Direction int

const (
	// Best picks each user's highest row by the metric.
	Best Direction = iota
	// Worst picks each user's lowest row by the metric.
	Worst
)

// ParseDirection converts a string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "best", "top", "desc":
		return Best, nil
	case "worst", "bottom", "asc":
		return Worst, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want best or worst)", s)
	}
}

// sqlOrder returns the SQL sort keyword for the direction.
func (d Direction) sqlOrder() (string, error) {
	switch d {
	case Best:
		return "DESC", nil
	case Worst:
		return "ASC", nil
	default:
		return "", fmt.Errorf("invalid direction %d", int(d))
	}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Best:
		return "best"
	case Worst:
		return "worst"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}
