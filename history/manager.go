// Package history records the chat transcript and hands its recent tail to
// the planner as conversation context.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/kardolus/deskpilot/types"
)

const (
	DefaultMaxEntries = 200

	assistantRole = types.AssistantRole
	systemRole    = types.SystemRole
	userRole      = types.UserRole
)

type Manager struct {
	store      Store
	maxEntries int
	now        func() time.Time
}

type Option func(*Manager)

// WithMaxEntries bounds the transcript; older entries are dropped on write.
func WithMaxEntries(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Record appends one exchange: the user's message and the agent's reply.
func (m *Manager) Record(user, assistant string) error {
	entries, err := m.store.Read()
	if err != nil {
		return err
	}

	ts := m.now()
	if strings.TrimSpace(user) != "" {
		entries = append(entries, types.NewHistory(userRole, user, ts))
	}
	if strings.TrimSpace(assistant) != "" {
		entries = append(entries, types.NewHistory(assistantRole, assistant, ts))
	}

	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}
	return m.store.Write(entries)
}

// Context renders the most recent part of the transcript that fits in
// maxChars, cut at a line boundary. A single newest line longer than maxChars
// keeps its tail. Zero or less means no context.
func (m *Manager) Context(maxChars int) (string, error) {
	if maxChars <= 0 {
		return "", nil
	}

	entries, err := m.store.Read()
	if err != nil {
		return "", err
	}

	var (
		lines []string
		used  int
	)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Role == systemRole {
			continue
		}
		line := e.Line()
		n := len([]rune(line))
		if len(lines) > 0 {
			n++
		}
		if used+n > maxChars {
			if len(lines) == 0 {
				r := []rune(line)
				lines = append(lines, string(r[len(r)-maxChars:]))
			}
			break
		}
		used += n
		lines = append(lines, line)
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n"), nil
}

func (m *Manager) Clear() error {
	return m.store.Delete()
}

func (m *Manager) Print() (string, error) {
	var result string

	historyEntries, err := m.store.Read()
	if err != nil {
		return "", err
	}

	var (
		lastRole            string
		concatenatedMessage string
		lastTimestamp       time.Time
	)

	for _, entry := range historyEntries {
		if entry.Role == userRole && lastRole == userRole {
			concatenatedMessage += "\n" + entry.Content
		} else {
			if lastRole == userRole && concatenatedMessage != "" {
				result += formatHistory(types.NewHistory(userRole, concatenatedMessage, lastTimestamp))
				concatenatedMessage = ""
			}

			if entry.Role == userRole {
				concatenatedMessage = entry.Content
				lastTimestamp = entry.Timestamp
			} else {
				result += formatHistory(entry)
			}
		}

		lastRole = entry.Role
	}

	// Handle the case where the last entry is a user entry and was concatenated
	if lastRole == userRole && concatenatedMessage != "" {
		result += formatHistory(types.NewHistory(userRole, concatenatedMessage, lastTimestamp))
	}

	return result, nil
}

func formatHistory(entry types.History) string {
	var (
		emoji     string
		prefix    string
		timestamp string
	)

	switch entry.Role {
	case systemRole:
		emoji = "💻"
		prefix = "\n"
	case userRole:
		emoji = "👤"
		prefix = "---\n"
		if !entry.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" [%s]", entry.Timestamp.Format("2006-01-02 15:04:05"))
		}
	case assistantRole:
		emoji = "🤖"
		prefix = "\n"
	}

	return fmt.Sprintf("%s**%s** %s%s:\n%s\n", prefix, strings.ToUpper(entry.Role), emoji, timestamp, entry.Content)
}
