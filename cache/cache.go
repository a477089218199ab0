// Package cache remembers recent web research so the same goal is not looked
// up again while the answer is still fresh.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/kardolus/deskpilot/internal/llmjson"
)

const DefaultTTL = 7 * 24 * time.Hour

type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the cached instructions for query. Missing and expired entries
// are misses, not errors.
func (c *Cache) Get(query string) (string, bool, error) {
	raw, err := c.store.Get(key(query))
	if err != nil || raw == nil {
		return "", false, err
	}

	var entry Entry
	if err := llmjson.Unmarshal(raw, &entry); err != nil {
		return "", false, err
	}

	if c.now().Sub(entry.UpdatedAt) > c.ttl {
		return "", false, nil
	}
	return entry.Instructions, true, nil
}

func (c *Cache) Set(query, instructions string) error {
	entry := Entry{
		Query:        query,
		Instructions: instructions,
		UpdatedAt:    c.now(),
	}

	bytes, err := llmjson.Marshal(entry)
	if err != nil {
		return err
	}

	return c.store.Set(key(query), bytes)
}

func (c *Cache) Delete(query string) error {
	return c.store.Delete(key(query))
}

// key folds case and whitespace so trivially different phrasings of a goal
// share an entry.
func key(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
