package websearch_test

import (
	"context"
	"fmt"
	gohttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/kardolus/deskpilot/cache"
	"github.com/kardolus/deskpilot/http"
	"github.com/kardolus/deskpilot/types"
	"github.com/kardolus/deskpilot/websearch"
	. "github.com/onsi/gomega"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
)

func TestUnitWebsearch(t *testing.T) {
	spec.Run(t, "Testing the websearch package", testWebsearch, spec.Report(report.Terminal{}))
}

const (
	stepsPage = `<html><body>
<nav><ol><li>Home page of the site</li><li>About this site</li></ol></nav>
<article><h1>Change the wallpaper</h1>
<ol>
  <li>Open the <b>Settings</b> app</li>
  <li>Choose the Personalization section</li>
  <li>ok</li>
</ol></article>
<script>var steps = ["ignored"];</script>
</body></html>`
	plainPage = `<html><body><p>Nothing numbered here.</p><ul><li>bullet one item</li><li>bullet two item</li></ul></body></html>`
)

func testWebsearch(t *testing.T, when spec.G, it spec.S) {
	var (
		server  *httptest.Server
		mu      sync.Mutex
		queries []string
		agents  []string
		hits    map[string]int
		pages   map[string]string
		results func(base string) string
		cfg     types.ResearchConfig
	)

	newSearcher := func() *websearch.Searcher {
		caller := http.New(types.Config{}).WithUserAgent("deskpilot-test")
		return websearch.New(caller, cfg)
	}

	it.Before(func() {
		RegisterTestingT(t)
		queries, agents = nil, nil
		hits = map[string]int{}
		pages = map[string]string{}
		results = func(string) string { return "<html><body></body></html>" }

		server = httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
			mu.Lock()
			hits[r.URL.Path]++
			agents = append(agents, r.UserAgent())
			if r.URL.Path == "/html/" {
				queries = append(queries, r.URL.Query().Get("q"))
			}
			body, known := pages[r.URL.Path]
			mu.Unlock()

			switch {
			case r.URL.Path == "/html/":
				_, _ = w.Write([]byte(results("http://" + r.Host)))
			case known:
				_, _ = w.Write([]byte(body))
			default:
				w.WriteHeader(gohttp.StatusInternalServerError)
			}
		}))

		cfg = types.ResearchConfig{
			SearchURL: server.URL + "/html/",
			Pages:     3,
		}
	})

	it.After(func() {
		server.Close()
	})

	resultsPage := func(links ...[2]string) func(string) string {
		return func(base string) string {
			s := `<html><body><div class="results">`
			for _, l := range links {
				href := base + l[0]
				s += fmt.Sprintf(`<div class="result"><h2><a class="result__a" href="//duckduckgo.com/l/?uddg=%s&rut=x">%s</a></h2>`+
					`<a class="result__snippet" href="#">%s snippet text</a></div>`, url.QueryEscape(href), l[1], l[1])
			}
			return s + `</div></body></html>`
		}
	}

	when("Research()", func() {
		it("returns the numbered steps of the first result page that has them", func() {
			pages["/plain"] = plainPage
			pages["/steps"] = stepsPage
			results = resultsPage([2]string{"/plain", "Plain"}, [2]string{"/steps", "Guide"})

			out, err := newSearcher().Research(context.Background(), "change the wallpaper")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("From Guide (" + server.URL + "/steps):\n" +
				"1. Open the Settings app\n" +
				"2. Choose the Personalization section"))

			Expect(queries).To(Equal([]string{"how to change the wallpaper"}))
			Expect(agents).To(HaveEach("deskpilot-test"))
			Expect(hits["/plain"]).To(Equal(1))
		})

		it("falls back to the snippets when no page has steps", func() {
			pages["/plain"] = plainPage
			results = resultsPage([2]string{"/plain", "Plain"}, [2]string{"/broken", "Broken"})

			out, err := newSearcher().Research(context.Background(), "change the wallpaper")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("- Plain: Plain snippet text\n- Broken: Broken snippet text"))
		})

		it("fetches no more than the configured number of pages", func() {
			cfg.Pages = 1
			pages["/plain"] = plainPage
			pages["/steps"] = stepsPage
			results = resultsPage([2]string{"/plain", "Plain"}, [2]string{"/steps", "Guide"})

			out, err := newSearcher().Research(context.Background(), "change the wallpaper")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HavePrefix("- Plain"))
			Expect(hits["/steps"]).To(BeZero())
		})

		it("returns an empty string when there are no results", func() {
			out, err := newSearcher().Research(context.Background(), "change the wallpaper")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())
		})

		it("does not search for an empty goal", func() {
			out, err := newSearcher().Research(context.Background(), "  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())
			Expect(queries).To(BeEmpty())
		})

		it("returns an error when the search itself fails", func() {
			cfg.SearchURL = server.URL + "/missing/"

			_, err := newSearcher().Research(context.Background(), "change the wallpaper")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`search "how to change the wallpaper"`))
		})

		it("answers from the cache and stores new instructions", func() {
			pages["/steps"] = stepsPage
			results = resultsPage([2]string{"/steps", "Guide"})

			c := cache.New(cache.NewFileStore(t.TempDir()))
			caller := http.New(types.Config{})
			subject := websearch.New(caller, cfg, websearch.WithCache(c))

			first, err := subject.Research(context.Background(), "change the wallpaper")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(HavePrefix("From Guide"))

			second, err := subject.Research(context.Background(), "Change the wallpaper")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(queries).To(HaveLen(1))
		})

		it("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := newSearcher().Research(ctx, "change the wallpaper")
			Expect(err).To(HaveOccurred())
		})
	})

	when("ParseResults()", func() {
		it("keeps only http targets and attaches snippets to their result", func() {
			body := `<html><body>
<a class="result__a" href="https://example.com/a">First <b>hit</b></a>
<div class="result__snippet">The first   snippet</div>
<a class="result__a" href="javascript:void(0)">Bad</a>
<a class="result__a large" href="//example.org/b">Second</a>
</body></html>`

			res, err := websearch.ParseResults([]byte(body))
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal([]websearch.Result{
				{Title: "First hit", URL: "https://example.com/a", Snippet: "The first snippet"},
				{Title: "Second", URL: "https://example.org/b"},
			}))
		})
	})

	when("ExtractInstructions()", func() {
		it("ignores lists in navigation and requires at least two steps", func() {
			steps, err := websearch.ExtractInstructions([]byte(`<nav><ol><li>First nav item</li><li>Second nav item</li></ol></nav>` +
				`<ol><li>Only one real step</li></ol>`))
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(BeEmpty())
		})
	})
}
