package procedure

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/internal/llmjson"
	"github.com/kardolus/deskpilot/types"
)

const (
	maxDescription      = 100
	maxFallbackKeywords = 5
)

//go:generate mockgen -destination=reasonermocks_test.go -package=procedure_test github.com/kardolus/deskpilot/procedure Reasoner
type Reasoner interface {
	Chat(ctx context.Context, messages []types.Message) (string, error)
}

// Learner turns a user's free-form explanation into a stored procedure.
type Learner struct {
	store    *Store
	reasoner Reasoner
	actions  string
	log      *zap.SugaredLogger
}

// NewLearner builds a learner. actions is the catalogue text shown to the
// reasoning service so extracted steps use known action names.
func NewLearner(store *Store, reasoner Reasoner, actions string, log *zap.SugaredLogger) *Learner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Learner{store: store, reasoner: reasoner, actions: actions, log: log}
}

type learnedJSON struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Site        string   `json:"site"`
	Steps       []Step   `json:"steps"`
}

// Learn never returns an error: every outcome is a message for the user.
func (l *Learner) Learn(ctx context.Context, explanation string) string {
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return "There was nothing to learn."
	}

	if p, ok := l.extract(ctx, explanation); ok {
		saved, err := l.store.Save(p)
		if err == nil {
			return fmt.Sprintf("Got it. I learned %q with %d step(s) and will reuse it next time.", saved.Description, len(saved.Steps))
		}
		l.log.Infof("learn: extracted procedure not stored: %v", err)
	}

	fallback := Procedure{
		Description: llmjson.Truncate(explanation, maxDescription),
		Keywords:    fallbackKeywords(explanation),
		Steps: []Step{{
			Action: ActionManual,
			Params: map[string]any{"instruction": explanation},
		}},
	}
	if _, err := l.store.Save(fallback); err != nil {
		l.log.Infof("learn: fallback not stored: %v", err)
		return "Thanks, I noted that, but it is too vague to store as a procedure."
	}
	return fmt.Sprintf("Got it. I saved your instructions for %q and will show them next time.", fallback.Description)
}

func (l *Learner) extract(ctx context.Context, explanation string) (Procedure, bool) {
	if l.reasoner == nil {
		return Procedure{}, false
	}

	raw, err := l.reasoner.Chat(ctx, []types.Message{
		{Role: types.SystemRole, Content: learnSystemPrompt},
		{Role: types.UserRole, Content: buildLearnPrompt(explanation, l.actions)},
	})
	if err != nil {
		l.log.Warnf("learn: reasoning call failed: %v", err)
		return Procedure{}, false
	}

	parsed, err := llmjson.Decode[learnedJSON](raw)
	if err != nil {
		l.log.Warnf("learn: %v", err)
		return Procedure{}, false
	}
	if len(parsed.Steps) == 0 || strings.TrimSpace(parsed.Description) == "" {
		return Procedure{}, false
	}

	return Procedure{
		Description: llmjson.Truncate(strings.TrimSpace(parsed.Description), maxDescription),
		Keywords:    parsed.Keywords,
		Site:        parsed.Site,
		Steps:       parsed.Steps,
	}, true
}

func fallbackKeywords(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range Tokenize(text) {
		if utf8.RuneCountInString(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == maxFallbackKeywords {
			break
		}
	}
	return out
}

const learnSystemPrompt = "You turn a user's explanation of a desktop task into a reusable procedure. " +
	"Reply with JSON only."

func buildLearnPrompt(explanation, actions string) string {
	return fmt.Sprintf(`The user is explaining how to do something on their computer.
Extract the procedure as JSON with this shape:
{
  "description": "short description of the task",
  "keywords": ["specific", "words", "that", "identify", "the", "task"],
  "site": "web app name if the task happens on one, else empty",
  "steps": [{"action": "ACTION", "params": {"param": "value"}}]
}

Keywords must be specific nouns (app names, document names, menu items), never generic verbs like open or search.

Available actions:
%s

Explanation:
%q`, actions, explanation)
}
