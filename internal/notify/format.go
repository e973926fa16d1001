package notify

import (
	"fmt"
	"html"

	"github.com/shortenv/shortenv/internal/clicks"
)

// FormatClickMessage renders a click event as a Telegram HTML message.
// The user agent is escaped but kept at full length.
func FormatClickMessage(event *clicks.AttributedEvent) string {
	return fmt.Sprintf(
		"🔗 <b>Short redirect:</b> %s\n"+
			"→ %s\n\n"+
			"📍 <b>IP:</b> <code>%s</code>\n"+
			"🖥 <b>UA:</b> <code>%s</code>\n"+
			"⏰ <b>Time:</b> %s",
		event.Code,
		event.Target,
		event.IP,
		html.EscapeString(event.UserAgent),
		event.ClickedAt.UTC().Format("2006-01-02 15:04:05"),
	)
}
