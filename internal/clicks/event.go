package clicks

import "time"

// TopicAttributed carries AttributedEvent messages to the notifier.
const TopicAttributed = "clicks.attributed"

// AttributedEvent is emitted once per newly attributed click.
type AttributedEvent struct {
	EventID   string    `json:"eventId"`
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Referer   string    `json:"referer,omitempty"`
	ClickedAt time.Time `json:"clickedAt"`
}
