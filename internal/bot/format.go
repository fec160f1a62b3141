package bot

import (
	"fmt"
	"strings"
)

// formatNumber renders n with thin spaces between thousand groups, so
// large scores stay readable in chat.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatRate renders a percentage with one decimal place.
func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// rankPrefix returns the medal for podium places and a plain ordinal
// otherwise. position is 1-based.
func rankPrefix(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", position)
	}
}

// displayName falls back to the raw user id when a username was never
// recorded.
func displayName(username string, userID int64) string {
	if username != "" {
		return username
	}
	return fmt.Sprintf("User %d", userID)
}
