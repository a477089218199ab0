package procedure

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kardolus/deskpilot/internal/llmjson"
)

// Store is the in-memory procedure list backed by a Persister. It is loaded
// once at construction and rewritten in full after every mutation.
type Store struct {
	mu         sync.Mutex
	persister  Persister
	matcher    *Matcher
	now        func() time.Time
	log        *zap.SugaredLogger
	procedures []Procedure
}

type Option func(*Store)

func WithMatcher(m *Matcher) Option {
	return func(s *Store) {
		if m != nil {
			s.matcher = m
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithNow(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStore loads the persisted procedures. A read or decode failure is logged
// and leaves the store empty.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		matcher:   NewMatcher(English, 3, 0.4, 1.5),
		now:       time.Now,
		log:       zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	b, err := s.persister.Load()
	if err != nil {
		s.log.Warnf("procedures: failed to read store, starting empty: %v", err)
		return
	}
	if len(b) == 0 {
		return
	}

	var list []Procedure
	if err := llmjson.Unmarshal(b, &list); err != nil {
		s.log.Warnf("procedures: failed to decode store, starting empty: %v", err)
		return
	}
	s.procedures = list
	s.log.Debugf("procedures: loaded %d", len(list))
}

func (s *Store) persist() error {
	b, err := llmjson.MarshalIndent(s.procedures)
	if err != nil {
		return err
	}
	if err := s.persister.Store(b); err != nil {
		s.log.Errorf("procedures: failed to write store: %v", err)
		return fmt.Errorf("failed to persist procedures: %w", err)
	}
	return nil
}

func (s *Store) Matcher() *Matcher {
	return s.matcher
}

// Find returns the stored procedure that best matches goal.
func (s *Store) Find(goal string) (Procedure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, m := s.matcher.Best(goal, s.procedures)
	if i < 0 {
		return Procedure{}, false
	}
	p := s.procedures[i]
	s.log.Infof("procedures: matched %q score=%.1f ratio=%.2f", p.Description, m.Score, m.Ratio)
	return clone(p), true
}

// Validate returns the keywords that would be stored for p, or a
// RejectedError.
func (s *Store) Validate(p Procedure) ([]string, error) {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return nil, RejectedError{Description: p.Description, Reason: ReasonNoDescription}
	}
	if s.matcher.Lang.IsComplaint(desc) {
		return nil, RejectedError{Description: desc, Reason: ReasonComplaint}
	}
	if len(p.Steps) == 0 {
		return nil, RejectedError{Description: desc, Reason: ReasonNoSteps}
	}
	keywords := s.matcher.SpecificKeywords(p.Keywords)
	if len(keywords) < 2 {
		return nil, RejectedError{Description: desc, Reason: ReasonFewKeywords}
	}
	return keywords, nil
}

// Save validates p and upserts it by case-insensitive description. A
// rejected procedure leaves the store unchanged.
func (s *Store) Save(p Procedure) (Procedure, error) {
	keywords, err := s.Validate(p)
	if err != nil {
		s.log.Infof("procedures: %v", err)
		return Procedure{}, err
	}

	rec := Procedure{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(p.Description),
		Keywords:    keywords,
		Steps:       p.Steps,
		Site:        strings.ToLower(strings.TrimSpace(p.Site)),
		TimesUsed:   0,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(rec.Description); i >= 0 {
		rec.ID = s.procedures[i].ID
		s.procedures[i] = rec
		s.log.Infof("procedures: updated %q", rec.Description)
	} else {
		s.procedures = append(s.procedures, rec)
		s.log.Infof("procedures: saved %q", rec.Description)
	}

	return clone(rec), s.persist()
}

// MarkUsed increments the usage counter of the procedure with description.
func (s *Store) MarkUsed(description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(description)
	if i < 0 {
		return fmt.Errorf("procedure %q not found", description)
	}
	s.procedures[i].TimesUsed++
	return s.persist()
}

// Forget removes one procedure. An exact case-insensitive description match
// wins over the first procedure whose description contains the query.
func (s *Store) Forget(description string) (Procedure, bool, error) {
	q := strings.ToLower(strings.TrimSpace(description))
	if q == "" {
		return Procedure{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(q)
	if i < 0 {
		for j, p := range s.procedures {
			if strings.Contains(strings.ToLower(p.Description), q) {
				i = j
				break
			}
		}
	}
	if i < 0 {
		return Procedure{}, false, nil
	}

	removed := s.procedures[i]
	s.procedures = append(s.procedures[:i:i], s.procedures[i+1:]...)
	s.log.Infof("procedures: forgot %q", removed.Description)
	return removed, true, s.persist()
}

// List returns a copy of every stored procedure in insertion order.
func (s *Store) List() []Procedure {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Procedure, 0, len(s.procedures))
	for _, p := range s.procedures {
		out = append(out, clone(p))
	}
	return out
}

func (s *Store) indexOf(description string) int {
	d := strings.ToLower(strings.TrimSpace(description))
	for i, p := range s.procedures {
		if strings.ToLower(strings.TrimSpace(p.Description)) == d {
			return i
		}
	}
	return -1
}

func clone(p Procedure) Procedure {
	p.Keywords = append([]string(nil), p.Keywords...)
	steps := make([]Step, len(p.Steps))
	for i, st := range p.Steps {
		params := make(map[string]any, len(st.Params))
		for k, v := range st.Params {
			params[k] = v
		}
		steps[i] = Step{Action: st.Action, Params: params}
	}
	p.Steps = steps
	return p
}
