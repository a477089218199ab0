// Package websearch finds step-by-step instructions on the web for a goal the
// agent could not complete on its own.
package websearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kardolus/deskpilot/cache"
	"github.com/kardolus/deskpilot/http"
	"github.com/kardolus/deskpilot/types"
)

const (
	defaultPages    = 3
	maxSnippets     = 5
	queryPrefix     = "how to "
	errSearchFailed = "search %q: %w"
)

// Result is one organic search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

type Searcher struct {
	caller    http.Caller
	searchURL string
	pages     int
	limiter   *rate.Limiter
	cache     *cache.Cache
	logger    *zap.SugaredLogger
}

type Option func(*Searcher)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache reuses instructions found for the same goal earlier.
func WithCache(c *cache.Cache) Option {
	return func(s *Searcher) { s.cache = c }
}

func New(caller http.Caller, cfg types.ResearchConfig, opts ...Option) *Searcher {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	pages := cfg.Pages
	if pages <= 0 {
		pages = defaultPages
	}

	s := &Searcher{
		caller:    caller,
		searchURL: cfg.SearchURL,
		pages:     pages,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search queries the HTML search endpoint and returns its organic results in
// page order.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	u, err := url.Parse(s.searchURL)
	if err != nil {
		return nil, fmt.Errorf(errSearchFailed, query, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := s.caller.Get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf(errSearchFailed, query, err)
	}
	return ParseResults(body)
}

// Research searches for how to accomplish goal, fetches the top result pages
// concurrently and returns the first numbered instructions it finds. When no
// page has any, the result snippets are returned instead. An empty string
// with a nil error means nothing useful was found.
func (s *Searcher) Research(ctx context.Context, goal string) (string, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return "", nil
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(goal)
		if err != nil {
			s.logger.Debugf("research: cache: %v", err)
		}
		if ok {
			s.logger.Debugf("research: cached instructions for %q", goal)
			return cached, nil
		}
	}

	out, err := s.research(ctx, goal)
	if err != nil || out == "" {
		return out, err
	}

	if s.cache != nil {
		if err := s.cache.Set(goal, out); err != nil {
			s.logger.Debugf("research: cache: %v", err)
		}
	}
	return out, nil
}

func (s *Searcher) research(ctx context.Context, goal string) (string, error) {
	results, err := s.Search(ctx, queryPrefix+goal)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		s.logger.Debugf("research: no results for %q", goal)
		return "", nil
	}

	top := results
	if len(top) > s.pages {
		top = top[:s.pages]
	}

	found := make([][]string, len(top))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range top {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			body, err := s.caller.Get(gctx, r.URL)
			if err != nil {
				s.logger.Debugf("research: fetch %s: %v", r.URL, err)
				return nil
			}
			steps, err := ExtractInstructions(body)
			if err != nil {
				s.logger.Debugf("research: parse %s: %v", r.URL, err)
				return nil
			}
			found[i] = steps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for i, steps := range found {
		if len(steps) > 0 {
			s.logger.Debugf("research: using instructions from %s", top[i].URL)
			return formatSteps(top[i], steps), nil
		}
	}
	return formatSnippets(results), nil
}

func formatSteps(r Result, steps []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From %s (%s):", r.Title, r.URL)
	for i, s := range steps {
		fmt.Fprintf(&b, "\n%d. %s", i+1, s)
	}
	return b.String()
}

func formatSnippets(results []Result) string {
	var lines []string
	for _, r := range results {
		if r.Snippet == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
		if len(lines) == maxSnippets {
			break
		}
	}
	return strings.Join(lines, "\n")
}
