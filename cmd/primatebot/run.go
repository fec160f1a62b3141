package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"primatebot/internal/bot"
	"primatebot/internal/storage"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot event loop",
	Long: `Start the bot with the console gateway: commands are read line by
line from stdin and handed to the dispatcher worker pool, mirroring how
a chat gateway feeds events.

Commands:
  analyze <guild> <user> [name]
  duel <guild> <user> <opponent> [name] [opponent-name]
  rank <guild> <analysis|records|wins|winrate> [metric] [best|worst]
  profile <guild> <user> [target]
  quit`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.cfg.Validate(); err != nil {
		return err
	}

	h, err := newHandler(e)
	if err != nil {
		return err
	}

	d := bot.NewDispatcher(bot.DispatcherConfig{
		QueueSize:   e.cfg.Dispatcher.QueueSize,
		WorkerCount: e.cfg.Dispatcher.Workers,
		OpTimeout:   time.Duration(e.cfg.Dispatcher.OpTimeoutSeconds) * time.Second,
	}, e.logger)
	d.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	e.logger.Info("Bot ready", "database", e.store.Path())
	fmt.Println("primatebot ready. Type commands, or 'quit' to exit.")

loop:
	for {
		select {
		case sig := <-shutdown:
			e.logger.Info("Received shutdown signal", "signal", sig.String())
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				break loop
			}
			if err := dispatchLine(d, h, line); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}

	if err := d.Stop(10 * time.Second); err != nil {
		return err
	}
	e.logger.Info("Bot stopped")
	return nil
}

// dispatchLine parses one console command and submits it to the
// dispatcher, like a gateway event handler would.
func dispatchLine(d *bot.Dispatcher, h *bot.Handler, line string) error {
	fields := strings.Fields(line)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "analyze":
		guild, user, err := parseGuildUser(args)
		if err != nil {
			return err
		}
		c := bot.Command{GuildID: guild, UserID: user}
		if len(args) > 2 {
			c.Username = args[2]
		}
		_, err = d.Submit(name, func(ctx context.Context) error {
			return h.Analyze(ctx, c)
		})
		return err

	case "duel":
		guild, user, err := parseGuildUser(args)
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("usage: duel <guild> <user> <opponent> [name] [opponent-name]")
		}
		opponent, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid opponent id %q", args[2])
		}
		c := bot.Command{GuildID: guild, UserID: user, TargetID: opponent}
		if len(args) > 3 {
			c.Username = args[3]
		}
		if len(args) > 4 {
			c.TargetName = args[4]
		}
		_, err = d.Submit(name, func(ctx context.Context) error {
			return h.MonkeyOff(ctx, c)
		})
		return err

	case "rank":
		if len(args) < 2 {
			return fmt.Errorf("usage: rank <guild> <analysis|records|wins|winrate> [metric] [best|worst]")
		}
		guild, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid guild id %q", args[0])
		}
		c := bot.Command{GuildID: guild}
		switch args[1] {
		case "analysis":
			_, err = d.Submit("rank-analysis", func(ctx context.Context) error {
				return h.RankAnalysis(ctx, c)
			})
		case "records":
			metric := storage.MetricIQ
			if len(args) > 2 {
				if metric, err = storage.ParseMetric(args[2]); err != nil {
					return err
				}
			}
			direction := storage.Best
			if len(args) > 3 {
				if direction, err = storage.ParseDirection(args[3]); err != nil {
					return err
				}
			}
			_, err = d.Submit("rank-records", func(ctx context.Context) error {
				return h.RankRecords(ctx, c, metric, direction)
			})
		case "wins":
			_, err = d.Submit("rank-wins", func(ctx context.Context) error {
				return h.RankWins(ctx, c)
			})
		case "winrate":
			_, err = d.Submit("rank-winrate", func(ctx context.Context) error {
				return h.RankWinRate(ctx, c)
			})
		default:
			return fmt.Errorf("unknown leaderboard: %s", args[1])
		}
		return err

	case "profile":
		guild, user, err := parseGuildUser(args)
		if err != nil {
			return err
		}
		c := bot.Command{GuildID: guild, UserID: user}
		if len(args) > 2 {
			target, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid target id %q", args[2])
			}
			c.TargetID = target
		}
		_, err = d.Submit(name, func(ctx context.Context) error {
			return h.Profile(ctx, c)
		})
		return err

	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

func parseGuildUser(args []string) (int64, int64, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("need at least <guild> <user>")
	}
	guild, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid guild id %q", args[0])
	}
	user, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user id %q", args[1])
	}
	return guild, user, nil
}
