package types

import (
	"strings"
	"time"
)

// History is one chat message as stored in the transcript file.
type History struct {
	Message
	Timestamp time.Time `json:"timestamp,omitempty"`
}

func NewHistory(role, content string, ts time.Time) History {
	return History{Message: Message{Role: role, Content: content}, Timestamp: ts}
}

// Speaker is the label used when the transcript is fed back to the planner.
func (h History) Speaker() string {
	if h.Role == UserRole {
		return "User"
	}
	return "Assistant"
}

// Line renders the entry on a single line with whitespace collapsed.
func (h History) Line() string {
	return h.Speaker() + ": " + strings.Join(strings.Fields(h.Content), " ")
}
