package utils

import (
	"Entropass/constants"
	"fmt"
	"strconv"
	"time"
)

func BoolToEnabledDisabled(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

// number formatter
func FormatNumber(n float64) string {
	switch {
	case n >= 1_000_000: // millions
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case n >= 1_000: // thousands
		return fmt.Sprintf("%.1fk", n/1_000)
	}
	return strconv.FormatFloat(n, 'f', 0, 64)
}

func FormatWithCommas(n int) string {
	str := strconv.Itoa(n)
	start := 0
	if n < 0 {
		start = 1
	}
	for i := len(str) - 3; i > start; i -= 3 {
		str = str[:i] + "," + str[i:]
	}
	return str
}

// FormatCadence renders short durations the way the status lines expect,
// e.g. "20ms" or "1.5s".
func FormatCadence(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

// Helper function to split messages into multiple lines
func SplitMessage(message string, maxLen int, prefix string) []string {
	var lines []string
	if maxLen < 1 {
		maxLen = 1
	}

	// First line uses original prefix
	lines = append(lines, message[:min(len(message), constants.LineLength)])

	// If there's more content, add continuation lines
	if len(message) > constants.LineLength {
		remaining := message[constants.LineLength:]
		for len(remaining) > 0 {
			lineLen := min(len(remaining), maxLen)
			lines = append(lines, fmt.Sprintf("%s ... %s", prefix, remaining[:lineLen]))
			remaining = remaining[lineLen:]
		}
	}

	return lines
}
