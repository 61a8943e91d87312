/* api.go
 * This file contains the public methods for interacting with this package. Transports (bot, web, cli) should only
 * call the methods in this file, not the parser, cache or store packages directly
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scoreline-bot/api/cache"
	"scoreline-bot/api/format"
	"scoreline-bot/api/parser"
	"scoreline-bot/api/shared"
	"scoreline-bot/api/store"
	"scoreline-bot/config"

	"github.com/rs/zerolog/log"
)

// defaultUserScoresLimit bounds GetUserScores when no limit is given
const defaultUserScoresLimit = 10

// API provides methods for parsing, submitting and reading match scores
type API struct {
	Store         store.Interface // nil when running without a db, e.g. the parse command
	Cache         cache.Cache     // nil disables memoisation
	Parser        *parser.Parser
	DefaultFormat string
}

// New creates an API over already constructed dependencies.
// Preconditions: defaultFormat is a matchUpFormat code or preset name; s and c may be nil
// Postconditions: returns the API, or an error wrapping format.ErrInvalidFormat
func New(s store.Interface, c cache.Cache, defaultFormat string) (*API, error) {
	code := format.Resolve(defaultFormat)
	if _, err := format.Parse(code); err != nil {
		return nil, fmt.Errorf("default format: %w", err)
	}
	return &API{Store: s, Cache: c, Parser: parser.New(), DefaultFormat: code}, nil
}

// NewAPI connects the store and cache described by cfg.
// Preconditions: cfg came from config.Load
// Postconditions: returns the API, or an error if the db cannot be reached. An unreachable Redis only disables the
// shared cache layer
func NewAPI(ctx context.Context, cfg *config.Config) (*API, error) {
	s, err := store.NewStore(ctx, cfg.MongoDB, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	var remote cache.Remote
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-process cache only")
		} else {
			remote = cache.NewRedisRemote(client, "")
		}
	}

	a, err := New(s, cache.NewResultCache(cfg.CacheSize, remote, cfg.CacheTTL), cfg.DefaultFormat)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return a, nil
}

// ResolveFormat maps an empty value to the default format and a preset name to its code
func (a *API) ResolveFormat(matchUpFormat string) string {
	if strings.TrimSpace(matchUpFormat) == "" {
		return a.DefaultFormat
	}
	return format.Resolve(matchUpFormat)
}

// ParseScore parses input under matchUpFormat (a code, preset name, or empty for the default).
// Preconditions: receives raw user input
// Postconditions: returns the ParseResult, or an error wrapping format.ErrInvalidFormat. The result may be shared
// with the cache and must not be modified
func (a *API) ParseScore(ctx context.Context, input, matchUpFormat string) (*parser.ParseResult, error) {
	code := a.ResolveFormat(matchUpFormat)
	if a.Cache != nil {
		if result, ok := a.Cache.Get(ctx, input, code); ok {
			return result, nil
		}
	}

	p := a.Parser
	if p == nil {
		p = parser.New()
	}
	result, err := p.ParseScore(input, code)
	if err != nil {
		log.Debug().Err(err).Str("format", code).Msg("rejected matchUpFormat")
		return nil, err
	}
	if a.Cache != nil {
		a.Cache.Set(ctx, input, code, result)
	}
	return result, nil
}

// SubmitScore parses input and stores it as the latest score of matchID.
// Preconditions: receives the submitting user, a match id and raw score input
// Postconditions: returns the stored record, an error wrapping ErrInvalidScore when the input does not parse cleanly,
// or the store error
func (a *API) SubmitScore(ctx context.Context, user shared.User, matchID, input, matchUpFormat string) (*store.ScoreRecord, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, ErrMissingMatchID
	}

	code := a.ResolveFormat(matchUpFormat)
	result, err := a.ParseScore(ctx, input, code)
	if err != nil {
		return nil, err
	}
	if err := checkSubmittable(result); err != nil {
		log.Info().Str("match", matchID).Str("user", user.UserID).Str("input", input).Err(err).Msg("score rejected")
		return nil, err
	}

	record, err := a.Store.SaveScore(ctx, store.ScoreRecord{
		MatchID:        matchID,
		UserID:         user.UserID,
		Username:       user.Username,
		Format:         code,
		Input:          input,
		FormattedScore: result.FormattedScore,
		Sets:           result.Sets,
		MatchUpStatus:  result.MatchUpStatus,
		WinningSide:    result.WinningSide,
		Complete:       result.MatchComplete,
	})
	if err != nil {
		log.Error().Err(err).Str("match", matchID).Msg("failed to save score")
		return nil, err
	}
	log.Info().Str("match", matchID).Str("user", user.UserID).Str("score", record.Summary()).Msg("score submitted")
	return &record, nil
}

// checkSubmittable rejects results with errors and results that carry neither a set nor a status
func checkSubmittable(result *parser.ParseResult) error {
	if !result.Valid {
		messages := make([]string, len(result.Errors))
		for i, d := range result.Errors {
			messages[i] = d.Message
		}
		return fmt.Errorf("%w: %s", ErrInvalidScore, strings.Join(messages, "; "))
	}
	if len(result.Sets) == 0 && result.MatchUpStatus == "" {
		return fmt.Errorf("%w: no score entered", ErrInvalidScore)
	}
	return nil
}

// GetMatchScore returns the latest score submitted for matchID, or an error wrapping store.ErrNotFound
func (a *API) GetMatchScore(ctx context.Context, matchID string) (*store.ScoreRecord, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	record, err := a.Store.GetScore(ctx, strings.TrimSpace(matchID))
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetMatchHistory returns every score submitted for matchID, oldest first
func (a *API) GetMatchHistory(ctx context.Context, matchID string) ([]store.ScoreRecord, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	history, err := a.Store.GetScoreHistory(ctx, strings.TrimSpace(matchID))
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("match %s: %w", matchID, store.ErrNotFound)
	}
	return history, nil
}

// GetUserScores returns the latest scores submitted by user. A non-positive limit uses the default of 10.
func (a *API) GetUserScores(ctx context.Context, user shared.User, limit int64) ([]store.ScoreRecord, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	if limit <= 0 {
		limit = defaultUserScoresLimit
	}
	return a.Store.GetUserScores(ctx, user.UserID, limit)
}

// ListFormats returns the named formats accepted in place of a matchUpFormat code
func (a *API) ListFormats() []format.Preset {
	return format.Presets()
}

// Close releases the store connection
func (a *API) Close(ctx context.Context) error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close(ctx)
}

// IsUserError reports whether err was caused by the request rather than the server
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidScore) ||
		errors.Is(err, ErrMissingMatchID) ||
		errors.Is(err, format.ErrInvalidFormat) ||
		errors.Is(err, store.ErrNotFound)
}
