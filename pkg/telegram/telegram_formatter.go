package telegram

import (
	"fmt"
	"strings"
	"time"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes the legacy Markdown control characters in s.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// FormatUpstreamAlert formats a reachability change of the service at target.
func FormatUpstreamAlert(target string, reachable bool, detail string, at time.Time) string {
	var sb strings.Builder
	if reachable {
		sb.WriteString("✅ *Market API recovered*\n\n")
	} else {
		sb.WriteString("🚨 *Market API unreachable*\n\n")
	}
	sb.WriteString(fmt.Sprintf("🌐 Target: `%s`\n", strings.ReplaceAll(target, "`", "'")))
	sb.WriteString(fmt.Sprintf("🕒 Checked: %s\n", at.Format("2006-01-02 15:04:05 MST")))
	if detail != "" {
		sb.WriteString(fmt.Sprintf("\n📝 %s\n", EscapeMarkdown(detail)))
	}
	return sb.String()
}
