/* aggregate.go
 * The aggregate decider for formats where the deciding tiebreak is only played when the game totals of the earlier
 * sets are level (e.g. SET3X-S:T10A-F:TB1)
 */

package parser

import (
	"fmt"

	"scoreline-bot/api/format"
)

// aggregateOutcome is the aggregate decider's verdict on a set sequence
type aggregateOutcome struct {
	sets      []resolvedSet
	decided   bool
	winner    int
	tied      bool
	errors    []Diagnostic
	needFinal bool
}

// decideAggregate applies the aggregate rule once every provided set has been resolved.
// Preconditions: spec.Aggregate is true
// Postconditions: returns the sets to keep (a forbidden deciding set is dropped) and whether the match is decided
func decideAggregate(spec *format.FormatSpec, sets []resolvedSet, status bool) aggregateOutcome {
	out := aggregateOutcome{sets: sets}
	regular := spec.BestOf - 1
	if len(sets) < regular {
		return out
	}

	total1, total2 := 0, 0
	for _, set := range sets[:regular] {
		total1 += score(set.Side1Score)
		total2 += score(set.Side2Score)
	}

	if total1 != total2 {
		for _, extra := range sets[regular:] {
			out.errors = append(out.errors, Diagnostic{
				Code: CodeAggregateNotTiedTiebreakNotAllowed,
				Message: fmt.Sprintf("aggregate is %d-%d, so no deciding tiebreak is played",
					total1, total2),
				Offset: extra.offset,
			})
		}
		out.sets = sets[:regular]
		out.decided = true
		out.winner = winner(total1, total2)
		return out
	}

	out.tied = true
	if len(sets) == regular {
		if !status {
			out.needFinal = true
			out.errors = append(out.errors, Diagnostic{
				Code:    CodeAggregateTiedTiebreakRequired,
				Message: fmt.Sprintf("aggregate is tied %d-%d, a deciding tiebreak is required", total1, total2),
				Offset:  lastOffset(sets),
			})
		}
		return out
	}

	final := sets[regular]
	tb := tiebreakFor(spec.SetFormatFor(final.SetNumber))
	a, b := tiebreakPoints(final)
	if !tb.Complete(a, b) {
		out.errors = append(out.errors, Diagnostic{
			Code:    CodeInvalidTiebreakScore,
			Message: fmt.Sprintf("deciding tiebreak must be a finished race to %d, got %d-%d", tb.To, a, b),
			Offset:  final.offset,
		})
		return out
	}
	out.decided = true
	out.winner = winner(a, b)
	return out
}

// tiebreakPoints reads a deciding set as a tiebreak whichever way it was typed
func tiebreakPoints(set resolvedSet) (int, int) {
	if set.Side1TiebreakScore != nil && set.Side1Score == nil {
		return *set.Side1TiebreakScore, score(set.Side2TiebreakScore)
	}
	return score(set.Side1Score), score(set.Side2Score)
}

func score(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func lastOffset(sets []resolvedSet) int {
	if len(sets) == 0 {
		return 0
	}
	return sets[len(sets)-1].offset
}
