/* tiebreak.go
 * The tiebreak resolver. Turns the chosen candidate sets into SetResults, reading paren annotations as embedded
 * tiebreak points and bracket groups or tiebreak-only sets as match tiebreaks, and validates both against the race
 * that governs the set
 */

package parser

import (
	"fmt"

	"scoreline-bot/api/format"
	"scoreline-bot/api/shared"
)

// resolvedSet is a SetResult with the input offset it was read from
type resolvedSet struct {
	shared.SetResult
	offset int
}

// resolveTiebreaks builds the set results for a segmentation.
// Preconditions: receives sets accepted by the segmentation engine, in order
// Postconditions: returns one resolved set per candidate set plus the warnings and errors found on the way
func resolveTiebreaks(spec *format.FormatSpec, sets []CandidateSet) ([]resolvedSet, []Diagnostic, []Diagnostic) {
	var warnings, errs []Diagnostic
	resolved := make([]resolvedSet, 0, len(sets))

	for _, set := range sets {
		sf := spec.SetFormatFor(set.Index)
		out := resolvedSet{SetResult: shared.SetResult{SetNumber: set.Index}, offset: set.Offset}

		if set.Bracketed || sf.IsTiebreakOnly() {
			tb := tiebreakFor(sf)
			if set.Bracketed && !sf.IsTiebreakOnly() {
				warnings = append(warnings, Diagnostic{
					Code:    CodeInvalidTiebreakScore,
					Message: fmt.Sprintf("set %d is not a match tiebreak under %s", set.Index, spec.Code),
					Offset:  set.Offset,
				})
			}
			out.Side1TiebreakScore = shared.IntPtr(set.Side1)
			out.Side2TiebreakScore = shared.IntPtr(set.Side2)
			switch {
			case tb.Complete(set.Side1, set.Side2):
				out.WinningSide = winner(set.Side1, set.Side2)
			case !tb.Reachable(set.Side1, set.Side2):
				errs = append(errs, Diagnostic{
					Code:    CodeInvalidTiebreakScore,
					Message: fmt.Sprintf("%d-%d cannot occur in a tiebreak to %d", set.Side1, set.Side2, tb.To),
					Offset:  set.Offset,
				})
			}
			if set.note != nil {
				warnings = append(warnings, strayAnnotation(set))
			}
			resolved = append(resolved, out)
			continue
		}

		out.Side1Score = shared.IntPtr(set.Side1)
		out.Side2Score = shared.IntPtr(set.Side2)
		if set.note != nil {
			if w := annotateTiebreak(sf, set, &out); w != nil {
				warnings = append(warnings, *w)
			}
		}
		if out.WinningSide == 0 && setDecided(sf, false, *out.Side1Score, *out.Side2Score) {
			out.WinningSide = winner(*out.Side1Score, *out.Side2Score)
		}
		resolved = append(resolved, out)
	}
	return resolved, warnings, errs
}

// annotateTiebreak applies a paren annotation to a game set. A problem with the annotation is a warning and the
// annotation is dropped.
func annotateTiebreak(sf format.SetFormat, set CandidateSet, out *resolvedSet) *Diagnostic {
	hi, lo := order(set.Side1, set.Side2)
	numbers := set.note.numbers
	if !tiebreakReached(sf, hi, lo) {
		d := strayAnnotation(set)
		return &d
	}
	if len(numbers) == 0 {
		return nil
	}
	tb := *sf.Tiebreak
	k := sf.TiebreakAt

	invalid := func(msg string, args ...any) *Diagnostic {
		return &Diagnostic{Code: CodeInvalidTiebreakScore, Message: fmt.Sprintf(msg, args...), Offset: set.note.offset}
	}

	// k-k with both tiebreak scores: the tiebreak winner takes the set
	if hi == lo {
		if len(numbers) < 2 {
			return invalid("tiebreak at %d-%d needs both scores to decide the set", k, k)
		}
		a, b := numbers[0], numbers[1]
		if !tb.Complete(a, b) {
			return invalid("%d-%d is not a finished tiebreak to %d", a, b, tb.To)
		}
		if a > b {
			out.Side1Score = shared.IntPtr(k + 1)
		} else {
			out.Side2Score = shared.IntPtr(k + 1)
		}
		out.Side1TiebreakScore = shared.IntPtr(a)
		out.Side2TiebreakScore = shared.IntPtr(b)
		out.WinningSide = winner(a, b)
		return nil
	}

	var winnerPoints, loserPoints int
	if len(numbers) == 1 {
		loserPoints = numbers[0]
		winnerPoints = tb.WinnerScore(loserPoints)
	} else {
		winnerPoints, loserPoints = order(numbers[0], numbers[1])
	}
	if !tb.Complete(winnerPoints, loserPoints) {
		if len(numbers) == 1 {
			return invalid("a tiebreak to %d cannot be lost with %d points", tb.To, loserPoints)
		}
		return invalid("%d-%d is not a finished tiebreak to %d", winnerPoints, loserPoints, tb.To)
	}
	if set.Side1 > set.Side2 {
		out.Side1TiebreakScore, out.Side2TiebreakScore = shared.IntPtr(winnerPoints), shared.IntPtr(loserPoints)
	} else {
		out.Side1TiebreakScore, out.Side2TiebreakScore = shared.IntPtr(loserPoints), shared.IntPtr(winnerPoints)
	}
	return nil
}

func strayAnnotation(set CandidateSet) Diagnostic {
	return Diagnostic{
		Code:    CodeInvalidTiebreakScore,
		Message: fmt.Sprintf("tiebreak score on set %d, which was not decided by a tiebreak", set.Index),
		Offset:  set.note.offset,
	}
}

func winner(a, b int) int {
	switch {
	case a > b:
		return 1
	case b > a:
		return 2
	}
	return 0
}
