package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kardolus/deskpilot/procedure"
)

const (
	minScreenChars    = 10
	minGoalEchoWords  = 3
	goalEchoRatio     = 0.6
	memoryEntryChars  = 800
	activeWindowLabel = "[Active window: %s]"
)

// chromeLines match the agent's own window and overlays, which must not be
// mistaken for the application being driven.
var chromeLines = []*regexp.Regexp{
	regexp.MustCompile(`(?i)deskpilot`),
	regexp.MustCompile(`(?i)^\s*(you|agent|assistant)\s*:`),
	regexp.MustCompile(`(?i)type (a|your) message`),
	regexp.MustCompile(`(?i)^\s*(cpu|ram|gpu)\s*:?\s*\d+(\.\d+)?\s*%`),
	regexp.MustCompile(`(?i)^\s*done\.\s`),
	regexp.MustCompile(`(?i)i could not (complete|read)`),
	regexp.MustCompile(`(?i)i need (to clarify|your help)`),
}

// FilterChrome removes lines that belong to the agent's own UI or that merely
// echo the goal. When filtering leaves almost nothing the input is returned
// unchanged.
func FilterChrome(text, goal string, lang procedure.Language) string {
	goalWords := wordSet(lang.SignificantWords(goal))

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if isChrome(line) || echoesGoal(line, goalWords, lang) {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.TrimSpace(strings.Join(kept, "\n"))
	if utf8.RuneCountInString(out) < minScreenChars {
		return text
	}
	return out
}

func isChrome(line string) bool {
	for _, re := range chromeLines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func echoesGoal(line string, goalWords map[string]bool, lang procedure.Language) bool {
	if len(goalWords) < minGoalEchoWords {
		return false
	}
	words := lang.SignificantWords(line)
	if len(words) == 0 {
		return false
	}

	common := 0
	for _, w := range words {
		if goalWords[w] {
			common++
		}
	}

	smaller := len(words)
	if len(goalWords) < smaller {
		smaller = len(goalWords)
	}
	return float64(common)/float64(smaller) > goalEchoRatio
}

// Overlap is the share of whitespace-separated words two captures have in
// common, relative to the larger of the two.
func Overlap(a, b string) float64 {
	wa := wordSet(strings.Fields(strings.ToLower(a)))
	wb := wordSet(strings.Fields(strings.ToLower(b)))

	larger := len(wa)
	if len(wb) > larger {
		larger = len(wb)
	}
	if larger == 0 {
		return 1
	}

	common := 0
	for w := range wa {
		if wb[w] {
			common++
		}
	}
	return float64(common) / float64(larger)
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func isEmptyCapture(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) <= minScreenChars
}

// observe captures the screen, retrying once after a pause and falling back
// to the active window title. An empty result means nothing could be read.
func (a *Agent) observe(ctx context.Context, run *goalRun) string {
	text := a.capture(ctx, run)
	if text != "" {
		return text
	}

	run.log.Debugf("observe: empty capture, retrying in %s", a.settings.ObserveRetry)
	if err := a.clock.Sleep(ctx, a.settings.ObserveRetry); err != nil {
		return ""
	}

	if text = a.capture(ctx, run); text != "" {
		return text
	}

	title, err := a.observer.ActiveWindowTitle(ctx)
	if err != nil || strings.TrimSpace(title) == "" {
		return ""
	}
	return fmt.Sprintf(activeWindowLabel, strings.TrimSpace(title))
}

// capture reads the screen once. Short captures count as empty.
func (a *Agent) capture(ctx context.Context, run *goalRun) string {
	text, err := a.observer.VisibleText(ctx)
	if err != nil {
		run.log.Debugf("observe: capture failed: %v", err)
		return ""
	}
	if isEmptyCapture(text) {
		return ""
	}
	return FilterChrome(text, run.goal, a.settings.Language)
}

// screenMemory keeps the most recent captures of a run, each truncated.
type screenMemory struct {
	size    int
	entries []string
}

func (m *screenMemory) add(text string) {
	if m.size <= 0 || text == "" {
		return
	}
	r := []rune(text)
	if len(r) > memoryEntryChars {
		text = string(r[:memoryEntryChars])
	}
	m.entries = append(m.entries, text)
	if len(m.entries) > m.size {
		m.entries = m.entries[len(m.entries)-m.size:]
	}
}

func (m *screenMemory) all() []string {
	return append([]string(nil), m.entries...)
}
