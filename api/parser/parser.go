/* parser.go
 * Entry point of the score parser. ParseScore reads free-form score input (e.g. "64 46 107", "6-7(5) 6-3",
 * "6-4 3-2 ret") into validated set results, using the matchUpFormat code to resolve ambiguous digit runs.
 * The parser holds no mutable state and is safe for concurrent use
 */

package parser

import (
	"fmt"
	"strings"

	"scoreline-bot/api/format"
	"scoreline-bot/api/shared"
)

// maxAlternatives bounds the alternate segmentations reported per result
const maxAlternatives = 5

// Parser parses scores with a configurable ranking of ambiguous segmentations
type Parser struct {
	ranker Ranker
}

// Option configures a Parser
type Option func(*Parser)

// WithRanker replaces the default plausibility ranking
func WithRanker(r Ranker) Option {
	return func(p *Parser) {
		if r != nil {
			p.ranker = r
		}
	}
}

// New creates a Parser
func New(opts ...Option) *Parser {
	p := &Parser{ranker: DefaultRanker}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// ParseScore parses input under matchUpFormat with the default ranking.
// Preconditions: receives raw user input and a matchUpFormat code
// Postconditions: returns the ParseResult, or an error wrapping format.ErrInvalidFormat if the code is malformed
func ParseScore(input, matchUpFormat string) (*ParseResult, error) {
	return defaultParser.ParseScore(input, matchUpFormat)
}

// ParseScore parses input under matchUpFormat. A malformed code aborts before any input is read.
func (p *Parser) ParseScore(input, matchUpFormat string) (*ParseResult, error) {
	spec, err := format.Parse(matchUpFormat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CodeFormatParseError, err)
	}
	return p.ParseWithSpec(input, spec), nil
}

// ParseWithSpec parses input under an already interpreted format.
// Preconditions: spec is non-nil and came from format.Parse
// Postconditions: returns a fully populated ParseResult; every problem with the input is reported as a diagnostic
func (p *Parser) ParseWithSpec(input string, spec *format.FormatSpec) *ParseResult {
	result := &ParseResult{
		Sets:        []shared.SetResult{},
		Warnings:    []Diagnostic{},
		Errors:      []Diagnostic{},
		Ambiguities: []AlternateSegmentation{},
		Suggestions: []string{},
	}

	tokens := Tokenize(input)
	items, trailing, noise, openGroup := buildItems(tokens)
	result.Warnings = append(result.Warnings, noiseWarnings(noise)...)

	status, statusWarning, statusHints := classifyStatus(trailing)
	if statusWarning != nil {
		result.Warnings = append(result.Warnings, *statusWarning)
		result.Suggestions = append(result.Suggestions, statusHints...)
	}
	result.MatchUpStatus = status

	seg := p.segment(spec, items)
	resolved, tbWarnings, tbErrors := resolveTiebreaks(spec, seg.sets)
	result.Errors = appendUnique(result.Errors, seg.errors...)
	result.Errors = appendUnique(result.Errors, tbErrors...)
	result.Warnings = append(result.Warnings, tbWarnings...)

	needFinal := false
	if spec.Aggregate {
		agg := decideAggregate(spec, resolved, status != "")
		resolved = agg.sets
		result.Errors = appendUnique(result.Errors, agg.errors...)
		result.MatchComplete = agg.decided
		result.WinningSide = agg.winner
		needFinal = agg.needFinal
	} else {
		outcome := decideMatch(spec, resolved)
		resolved = outcome.sets
		result.Errors = appendUnique(result.Errors, outcome.errors...)
		result.MatchComplete = outcome.complete
		result.WinningSide = outcome.winner
	}

	result.Sets = toSetResults(resolved)
	result.FormattedScore = FormatSets(result.Sets)
	result.Confidence = seg.confidence
	if len(items) == 0 && status == "" {
		result.Confidence = 0
	}

	p.addAmbiguities(spec, result, seg)

	if seg.partial != nil && result.MatchComplete {
		result.Errors = appendUnique(result.Errors, Diagnostic{
			Code:    CodeTooManySets,
			Message: "a further set was started after the match was decided",
			Offset:  seg.partial.offset,
		})
		seg.partial = nil
	}

	lastUndecided := len(resolved) > 0 && resolved[len(resolved)-1].WinningSide == 0 && !result.MatchComplete
	result.Incomplete = seg.partial != nil || openGroup || lastUndecided || len(items) == 0

	if seg.partial != nil {
		index := len(seg.sets) + 1
		result.Suggestions = append(result.Suggestions,
			completions(spec, result.FormattedScore, index, seg.partial.value)...)
	}
	if needFinal {
		result.Suggestions = append(result.Suggestions, aggregateHints(spec, result.FormattedScore)...)
	}

	if status != "" {
		applyStatus(result, status)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// addAmbiguities records the lower ranked segmentations and warns that the top one was chosen
func (p *Parser) addAmbiguities(spec *format.FormatSpec, result *ParseResult, seg segmentation) {
	best := result.FormattedScore
	if seg.partial != nil {
		best = joinScore(best, fmt.Sprint(seg.partial.value))
	}
	seen := map[string]bool{best: true}
	for _, alt := range seg.alternatives {
		resolved, _, _ := resolveTiebreaks(spec, alt.Sets)
		sets := toSetResults(resolved)
		formatted := FormatSets(sets)
		if alt.Partial {
			formatted = joinScore(formatted, fmt.Sprint(alt.PartialScore))
		}
		if seen[formatted] {
			continue
		}
		seen[formatted] = true
		result.Ambiguities = append(result.Ambiguities, AlternateSegmentation{
			Sets:           sets,
			FormattedScore: formatted,
			Plausibility:   plausibility(alt.penalty),
		})
		if len(result.Ambiguities) == maxAlternatives {
			break
		}
	}
	if len(result.Ambiguities) == 0 {
		return
	}

	readings := make([]string, len(result.Ambiguities))
	for i, alt := range result.Ambiguities {
		readings[i] = alt.FormattedScore
	}
	result.Warnings = append(result.Warnings, Diagnostic{
		Code: CodeAmbiguousSegmentation,
		Message: fmt.Sprintf("read as %q; could also be %s", result.FormattedScore,
			strings.Join(quoteAll(readings), ", ")),
		Offset: 0,
	})
	result.Suggestions = append(result.Suggestions, fmt.Sprintf("did you mean %q?", readings[0]))
}

// applyStatus applies the score retention policy of a recognised status
func applyStatus(result *ParseResult, status shared.MatchUpStatus) {
	result.MatchComplete = false
	result.WinningSide = 0
	if status.RetainsScore() {
		result.Incomplete = true
		return
	}
	result.Sets = []shared.SetResult{}
	result.FormattedScore = ""
	result.Incomplete = false
	result.Confidence = 1
	result.Ambiguities = []AlternateSegmentation{}
	result.Errors = []Diagnostic{}
	result.Warnings = discardDiagnostics(result.Warnings)
	result.Suggestions = []string{}
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
