// Package llmjson decodes structured data out of free-form model replies.
package llmjson

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// \x60 is a backtick; raw strings cannot hold one.
var fencedRegex = regexp.MustCompile("(?s)^\x60\x60\x60[a-zA-Z/]*\\s*(.*?)\\s*\x60\x60\x60$")

var ErrEmpty = errors.New("empty response")

// Decode extracts the JSON object held in raw and unmarshals it into a T.
// Markdown fences and conversational text around the object are tolerated.
func Decode[T any](raw string) (T, error) {
	var result T

	body := Extract(raw)
	if body == "" {
		return result, ErrEmpty
	}

	if err := json.UnmarshalFromString(body, &result); err != nil {
		return result, fmt.Errorf("failed to decode structured response: %w (extracted: %s)", err, Truncate(body, 200))
	}
	return result, nil
}

// Extract returns the most likely JSON object inside raw, or the trimmed input
// when no braces are present.
func Extract(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := fencedRegex.FindStringSubmatch(s); len(m) > 1 {
		s = strings.TrimSpace(m[1])
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s
	}

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last > first {
		return s[first : last+1]
	}
	return s
}

// Marshal encodes v with the same jsoniter configuration used for decoding.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func Unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
