package websearch

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	classResultLink    = "result__a"
	classResultSnippet = "result__snippet"

	minSteps     = 2
	maxSteps     = 20
	minStepRunes = 8
	maxStepRunes = 300
)

// ParseResults extracts organic results from a DuckDuckGo HTML results page.
// Redirect links are unwrapped to their target; results without an http(s)
// target are dropped.
func ParseResults(body []byte) ([]Result, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var (
		results []Result
		current *Result
	)
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch {
		case hasClass(n, classResultLink):
			if current != nil {
				results = append(results, *current)
				current = nil
			}
			target := unwrapLink(attr(n, "href"))
			if target == "" {
				return false
			}
			current = &Result{Title: text(n), URL: target}
			return false
		case hasClass(n, classResultSnippet):
			if current != nil && current.Snippet == "" {
				current.Snippet = text(n)
			}
			return false
		}
		return true
	})
	if current != nil {
		results = append(results, *current)
	}
	return results, nil
}

// ExtractInstructions returns the items of the first ordered list in the page
// body that looks like a set of steps. Navigation chrome is ignored.
func ExtractInstructions(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var steps []string
	walk(doc, func(n *html.Node) bool {
		if steps != nil || n.Type != html.ElementNode {
			return steps == nil
		}
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Nav, atom.Header, atom.Footer, atom.Aside, atom.Noscript:
			return false
		case atom.Ol:
			if items := listItems(n); len(items) >= minSteps {
				steps = items
			}
			return false
		}
		return true
	})
	return steps, nil
}

func listItems(ol *html.Node) []string {
	var items []string
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		t := text(c)
		if len([]rune(t)) < minStepRunes {
			continue
		}
		if r := []rune(t); len(r) > maxStepRunes {
			t = string(r[:maxStepRunes]) + "…"
		}
		items = append(items, t)
		if len(items) == maxSteps {
			break
		}
	}
	return items
}

// walk visits n and its descendants depth first. Children are skipped when
// visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			return false
		}
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// unwrapLink resolves DuckDuckGo's /l/?uddg= redirect links and
// protocol-relative URLs.
func unwrapLink(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		if t, err := url.Parse(target); err == nil {
			u = t
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
