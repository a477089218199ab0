package procedure

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}]+`)

const (
	verbatimWeight = 1.0
	stemWeight     = 0.8
	descWeight     = 0.5
	minTokenLen    = 3
)

// Matcher scores goals against stored procedures. A candidate is accepted
// only when both its score and the share of matched keywords clear their
// thresholds.
type Matcher struct {
	Lang     Language
	MinScore float64
	MinRatio float64
	DescCap  float64
}

func NewMatcher(lang Language, minScore, minRatio, descCap float64) *Matcher {
	return &Matcher{Lang: lang, MinScore: minScore, MinRatio: minRatio, DescCap: descCap}
}

// Match is the outcome of scoring one procedure.
type Match struct {
	Score   float64
	Ratio   float64
	Matched int
}

func (m Match) accepted(minScore, minRatio float64) bool {
	return m.Score >= minScore && m.Ratio >= minRatio
}

// Tokenize lowercases text and splits it into words.
func Tokenize(text string) []string {
	return wordRegex.FindAllString(strings.ToLower(text), -1)
}

type goalIndex struct {
	padded string
	stems  map[string]bool
}

func (m *Matcher) index(goal string) goalIndex {
	tokens := Tokenize(goal)
	stems := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if utf8.RuneCountInString(t) < minTokenLen {
			continue
		}
		stems[m.Lang.Stem(t)] = true
	}
	return goalIndex{padded: " " + strings.Join(tokens, " ") + " ", stems: stems}
}

// SpecificKeywords drops generic and too-short keywords and lowercases the
// rest. Order is kept and duplicates removed.
func (m *Matcher) SpecificKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if utf8.RuneCountInString(k) < minTokenLen || m.Lang.Generic[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Score rates how well goal matches p. Procedures whose keywords are all
// generic never match.
func (m *Matcher) Score(goal string, p Procedure) Match {
	return m.score(m.index(goal), p)
}

func (m *Matcher) score(g goalIndex, p Procedure) Match {
	specific := m.SpecificKeywords(p.Keywords)
	if len(specific) == 0 {
		return Match{}
	}

	var result Match
	for _, kw := range specific {
		words := Tokenize(kw)
		if len(words) == 0 {
			continue
		}
		if strings.Contains(g.padded, " "+strings.Join(words, " ")+" ") {
			result.Score += verbatimWeight
			result.Matched++
			continue
		}
		if m.allStemsIn(words, g.stems) {
			result.Score += stemWeight
			result.Matched++
		}
	}

	common := 0
	seen := map[string]bool{}
	for _, w := range Tokenize(p.Description) {
		if utf8.RuneCountInString(w) < minTokenLen || m.Lang.Stop[w] || m.Lang.Generic[w] {
			continue
		}
		stem := m.Lang.Stem(w)
		if g.stems[stem] && !seen[stem] {
			seen[stem] = true
			common++
		}
	}
	bonus := float64(common) * descWeight
	if bonus > m.DescCap {
		bonus = m.DescCap
	}
	result.Score += bonus

	result.Ratio = float64(result.Matched) / float64(len(specific))
	return result
}

func (m *Matcher) allStemsIn(words []string, stems map[string]bool) bool {
	for _, w := range words {
		if !stems[m.Lang.Stem(w)] {
			return false
		}
	}
	return true
}

// Best returns the index of the highest scoring accepted procedure, or -1.
// On equal scores the earlier procedure wins.
func (m *Matcher) Best(goal string, procedures []Procedure) (int, Match) {
	g := m.index(goal)

	best := -1
	var bestMatch Match
	for i, p := range procedures {
		r := m.score(g, p)
		if !r.accepted(m.MinScore, m.MinRatio) {
			continue
		}
		if best == -1 || r.Score > bestMatch.Score {
			best = i
			bestMatch = r
		}
	}
	return best, bestMatch
}
