/* status.go
 * The status classifier. Matches the trailing words of the input against a fixed lexicon of irregular match
 * endings by case-insensitive prefix
 */

package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"scoreline-bot/api/shared"
)

type statusKeyword struct {
	prefix string
	status shared.MatchUpStatus
	// whole keywords must be the entire first word rather than its prefix
	whole bool
}

// statusLexicon is checked in order; the first prefix the trailing text starts with wins
var statusLexicon = []statusKeyword{
	{"ret", shared.StatusRetired, false},
	{"w/o", shared.StatusWalkover, false},
	{"wo", shared.StatusWalkover, true},
	{"walk", shared.StatusWalkover, false},
	{"def", shared.StatusDefaulted, false},
	{"susp", shared.StatusSuspended, false},
	{"canc", shared.StatusCancelled, false},
	{"inc", shared.StatusIncomplete, false},
	{"dead", shared.StatusDeadRubber, false},
	{"in prog", shared.StatusInProgress, false},
	{"await", shared.StatusAwaitingResult, false},
}

// statusSpellings are the full words offered when trailing text is not recognised
var statusSpellings = []string{
	"retired", "walkover", "w/o", "defaulted", "suspended", "cancelled", "incomplete", "dead rubber",
	"in progress", "awaiting result",
}

// classifyStatus matches trailing words against the lexicon.
// Preconditions: receives the word tokens that follow the last score token
// Postconditions: returns the status, or "" with an UnrecognizedTrailingToken warning and suggestions when no
// keyword matches
func classifyStatus(trailing []Token) (shared.MatchUpStatus, *Diagnostic, []string) {
	if len(trailing) == 0 {
		return "", nil, nil
	}
	words := make([]string, len(trailing))
	for i, tok := range trailing {
		words[i] = strings.ToLower(tok.Text)
	}
	text := strings.Join(words, " ")

	first := strings.TrimRight(words[0], ".")
	for _, kw := range statusLexicon {
		if kw.whole {
			if first == kw.prefix {
				return kw.status, nil, nil
			}
			continue
		}
		if strings.HasPrefix(text, kw.prefix) {
			return kw.status, nil, nil
		}
	}

	warning := &Diagnostic{
		Code:    CodeUnrecognizedTrailingToken,
		Message: fmt.Sprintf("%q is not a known match status", text),
		Offset:  trailing[0].Offset,
	}
	return "", warning, statusSuggestions(words[0])
}

// statusSuggestions ranks the status spellings that contain the typed characters in order
func statusSuggestions(typed string) []string {
	matches := fuzzy.RankFindFold(typed, statusSpellings)
	sort.Sort(matches)
	var out []string
	for _, m := range matches {
		out = append(out, fmt.Sprintf("did you mean %q?", m.Target))
		if len(out) == 2 {
			break
		}
	}
	return out
}

// noiseWarnings reports words and groups that sat between scores and were ignored
func noiseWarnings(noise []Token) []Diagnostic {
	var out []Diagnostic
	for _, tok := range noise {
		text := tok.Text
		switch tok.Kind {
		case TokenParen:
			text = "(" + text + ")"
		case TokenBracket:
			text = "[" + text + "]"
		}
		out = append(out, Diagnostic{
			Code:    CodeUnrecognizedTrailingToken,
			Message: fmt.Sprintf("ignored %q", text),
			Offset:  tok.Offset,
		})
	}
	return out
}
