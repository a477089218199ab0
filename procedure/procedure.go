// Package procedure stores learned desktop procedures and decides when a new
// goal is close enough to one of them to replay it.
package procedure

import (
	"fmt"
	"strings"
	"time"
)

// Procedure is a reusable recipe learned from a successful run or from the
// user's own explanation.
type Procedure struct {
	ID          string    `json:"id,omitempty"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	Steps       []Step    `json:"steps"`
	Site        string    `json:"site,omitempty"`
	TimesUsed   int       `json:"times_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// Step is the persisted form of one action. The action name is not checked
// here; the executor rejects names it does not know.
type Step struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// ActionManual marks a step the agent cannot perform itself. Replaying it
// hands the stored instruction back to the user.
const ActionManual = "manual"

func (s Step) String(key string) string {
	if s.Params == nil {
		return ""
	}
	switch v := s.Params[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Text concatenates every parameter value of the step.
func (s Step) Text() string {
	var parts []string
	for _, v := range s.Params {
		if v == nil {
			continue
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, " ")
}

const (
	ReasonComplaint     = "non-actionable description"
	ReasonFewKeywords   = "fewer than 2 specific keywords"
	ReasonNoSteps       = "no steps"
	ReasonNoDescription = "empty description"
)

// RejectedError reports a procedure that failed validation. The store is left
// untouched when it is returned.
type RejectedError struct {
	Description string
	Reason      string
}

func (e RejectedError) Error() string {
	return fmt.Sprintf("procedure %q rejected: %s", e.Description, e.Reason)
}
