/* result.go
 * The result assembler: decides whether the match is over, renders the canonical score and collects the hints shown
 * to the user while they type
 */

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"scoreline-bot/api/format"
	"scoreline-bot/api/shared"
)

const maxSuggestions = 3

// FormatSets renders sets in canonical notation: "6-4", "7-6(5)" with the loser's tiebreak points, "[10-7]" for a
// match tiebreak
func FormatSets(sets []shared.SetResult) string {
	parts := make([]string, 0, len(sets))
	for _, set := range sets {
		parts = append(parts, FormatSet(set))
	}
	return strings.Join(parts, " ")
}

// FormatSet renders a single set in canonical notation
func FormatSet(set shared.SetResult) string {
	if set.IsTiebreakOnly() {
		return "[" + strconv.Itoa(score(set.Side1TiebreakScore)) + "-" + strconv.Itoa(score(set.Side2TiebreakScore)) + "]"
	}
	out := strconv.Itoa(score(set.Side1Score)) + "-" + strconv.Itoa(score(set.Side2Score))
	if set.Side1TiebreakScore != nil && set.Side2TiebreakScore != nil {
		_, lo := order(*set.Side1TiebreakScore, *set.Side2TiebreakScore)
		out += "(" + strconv.Itoa(lo) + ")"
	}
	return out
}

// matchOutcome is the clinch decision for a regular (non aggregate) format
type matchOutcome struct {
	sets     []resolvedSet
	complete bool
	winner   int
	errors   []Diagnostic
}

// decideMatch counts sets won. Sets typed after one side has clinched are TooManySets and dropped. A set with no
// winner followed by another set is UnfinishedSet, and the match is not over while one remains. Exact formats are
// only over once every set has been played.
func decideMatch(spec *format.FormatSpec, sets []resolvedSet) matchOutcome {
	var out matchOutcome
	wins := [3]int{}
	unfinished := false
	for i, set := range sets {
		if out.complete {
			out.errors = append(out.errors, Diagnostic{
				Code:    CodeTooManySets,
				Message: fmt.Sprintf("set %d was typed after the match was decided", set.SetNumber),
				Offset:  set.offset,
			})
			continue
		}
		out.sets = append(out.sets, set)
		if set.WinningSide == 0 && i < len(sets)-1 {
			unfinished = true
			out.errors = append(out.errors, Diagnostic{
				Code:    CodeUnfinishedSet,
				Message: fmt.Sprintf("set %d has no winner but another set follows it", set.SetNumber),
				Offset:  set.offset,
			})
		}
		wins[set.WinningSide]++
		if !spec.Exact && set.WinningSide != 0 && wins[set.WinningSide] >= spec.SetsToWin() {
			out.complete = true
			out.winner = set.WinningSide
		}
	}

	if spec.Exact && len(out.sets) == spec.BestOf && wins[0] == 0 {
		out.complete = true
		out.winner = winner(wins[1], wins[2])
	}
	if unfinished {
		out.complete = false
		out.winner = 0
	}
	return out
}

// completions suggests finished scores for a set the user has started typing
func completions(spec *format.FormatSpec, prefix string, index, first int) []string {
	if index > spec.BestOf {
		return nil
	}
	sf := spec.SetFormatFor(index)
	var out []string
	for second := 0; second <= sf.MaxGames() && len(out) < maxSuggestions; second++ {
		var set string
		if sf.IsTiebreakOnly() {
			if !sf.TiebreakOnly.Complete(first, second) {
				continue
			}
			set = fmt.Sprintf("[%d-%d]", first, second)
		} else {
			if !setAllowed(sf, first, second, false, true) || !setDecided(sf, false, first, second) {
				continue
			}
			set = fmt.Sprintf("%d-%d", first, second)
		}
		out = append(out, joinScore(prefix, set))
	}
	return out
}

// aggregateHints suggests the two possible deciding tiebreaks after a tied aggregate
func aggregateHints(spec *format.FormatSpec, prefix string) []string {
	tb := tiebreakFor(spec.SetFormatFor(spec.BestOf))
	to := tb.WinnerScore(0)
	return []string{
		joinScore(prefix, fmt.Sprintf("[%d-0]", to)),
		joinScore(prefix, fmt.Sprintf("[0-%d]", to)),
	}
}

func joinScore(prefix, set string) string {
	if prefix == "" {
		return set
	}
	return prefix + " " + set
}

func toSetResults(sets []resolvedSet) []shared.SetResult {
	out := make([]shared.SetResult, len(sets))
	for i, set := range sets {
		out[i] = set.SetResult
	}
	return out
}

// discardDiagnostics drops everything that concerned the discarded score, keeping only notes about ignored text
func discardDiagnostics(diags []Diagnostic) []Diagnostic {
	out := []Diagnostic{}
	for _, d := range diags {
		if d.Code == CodeUnrecognizedTrailingToken {
			out = append(out, d)
		}
	}
	return out
}

// appendUnique adds diagnostics that are not already recorded at the same offset with the same code
func appendUnique(list []Diagnostic, diags ...Diagnostic) []Diagnostic {
	for _, d := range diags {
		duplicate := false
		for _, existing := range list {
			if existing.Code == d.Code && existing.Offset == d.Offset {
				duplicate = true
				break
			}
		}
		if !duplicate {
			list = append(list, d)
		}
	}
	return list
}
