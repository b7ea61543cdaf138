package chat

import "time"

// Sender values for Message.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Category values carried by bot messages. User messages have none.
const (
	CategoryInitial = "initial"
	CategorySupport = "support"
	CategoryCrisis  = "crisis"
)

// Message is a single conversation turn. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Category  string    `json:"category,omitempty"`
	Text      string    `json:"text"`
	Citation  string    `json:"citation,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
