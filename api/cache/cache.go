/* cache.go
 * Memoisation of parse results keyed by (format, input). Parsing is pure, so a cached result is always valid.
 * Results are looked up in the in-process LRU first, then in the optional Remote, which also refills the LRU
 */

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"scoreline-bot/api/parser"

	"github.com/rs/zerolog/log"
)

// Cache memoises parse results. Returned results are shared and must not be modified.
type Cache interface {
	Get(ctx context.Context, input, format string) (*parser.ParseResult, bool)
	Set(ctx context.Context, input, format string, result *parser.ParseResult)
}

// Remote is a shared byte store behind the in-process LRU
type Remote interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ResultCache is the Cache used by the API
type ResultCache struct {
	local  *LRU[string, *parser.ParseResult]
	remote Remote
	ttl    time.Duration
}

var _ Cache = (*ResultCache)(nil)

// NewResultCache creates a ResultCache.
// Preconditions: size is the LRU capacity (0 disables it); remote may be nil
// Postconditions: returns a ResultCache with the requested layers
func NewResultCache(size int, remote Remote, ttl time.Duration) *ResultCache {
	c := &ResultCache{remote: remote, ttl: ttl}
	if size > 0 {
		c.local = NewLRU[string, *parser.ParseResult](size)
	}
	return c
}

// Key returns the storage key of input parsed under format
func Key(input, format string) string {
	sum := sha256.Sum256([]byte(format + "\x00" + input))
	return hex.EncodeToString(sum[:])
}

// Get returns the memoised result. Remote failures are logged and treated as misses.
func (c *ResultCache) Get(ctx context.Context, input, format string) (*parser.ParseResult, bool) {
	key := Key(input, format)
	if c.local != nil {
		if result, ok := c.local.Get(key); ok {
			return result, true
		}
	}
	if c.remote == nil {
		return nil, false
	}

	raw, err := c.remote.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Str("format", format).Msg("remote cache read failed")
		}
		return nil, false
	}
	result, err := decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("format", format).Msg("discarding undecodable cached result")
		return nil, false
	}
	if c.local != nil {
		c.local.Add(key, result)
	}
	return result, true
}

// Set memoises result in every layer
func (c *ResultCache) Set(ctx context.Context, input, format string, result *parser.ParseResult) {
	if result == nil {
		return
	}
	key := Key(input, format)
	if c.local != nil {
		c.local.Add(key, result)
	}
	if c.remote == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Msg("could not encode parse result")
		return
	}
	if err := c.remote.Store(ctx, key, raw, c.ttl); err != nil {
		log.Warn().Err(err).Str("format", format).Msg("remote cache write failed")
	}
}

// Len returns the number of results held in process
func (c *ResultCache) Len() int {
	if c.local == nil {
		return 0
	}
	return c.local.Len()
}

// Stats returns the in-process hit and miss counts
func (c *ResultCache) Stats() (hits, misses uint64) {
	if c.local == nil {
		return 0, 0
	}
	return c.local.Stats()
}

func decode(raw []byte) (*parser.ParseResult, error) {
	var result parser.ParseResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
