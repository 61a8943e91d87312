/* ranker.go
 * Plausibility scoring for candidate segmentations. Lower penalties rank first; a candidate's plausibility is
 * 1/(1+penalty)
 */

package parser

import "scoreline-bot/api/format"

// Ranker scores a candidate segmentation under a format. It is called for partial candidates during the search
// as well as for finished ones, and must not modify the candidate.
type Ranker interface {
	Penalty(spec *format.FormatSpec, c Candidate) float64
}

// RankerFunc adapts a plain function to the Ranker interface
type RankerFunc func(spec *format.FormatSpec, c Candidate) float64

func (f RankerFunc) Penalty(spec *format.FormatSpec, c Candidate) float64 {
	return f(spec, c)
}

// Penalty weights used by DefaultRanker
const (
	PenaltyPartial             = 0.5
	PenaltyAboveSetTo          = 0.1
	PenaltyUnreachableTiebreak = 1.0
	PenaltyUnfinishedTiebreak  = 0.2
	PenaltyStrayAnnotation     = 0.5
	PenaltyAnnotationOnFirst   = 0.3
	PenaltyLongAdvantageSet    = 0.2
	PenaltyUndecidedSet        = 0.4
	PenaltySplitRun            = 0.05
	PenaltyDigitWidth          = 0.3
)

// DefaultRanker prefers segmentations whose sets are finished, within the untied range and shaped the way the set
// kind is usually typed
var DefaultRanker Ranker = RankerFunc(defaultPenalty)

func defaultPenalty(spec *format.FormatSpec, c Candidate) float64 {
	penalty := 0.0
	if c.Partial {
		penalty += PenaltyPartial
	}

	for i, set := range c.Sets {
		sf := spec.SetFormatFor(set.Index)
		last := i == len(c.Sets)-1 && !c.Partial
		hi, lo := order(set.Side1, set.Side2)

		switch {
		case set.Bracketed || sf.IsTiebreakOnly():
			tb := tiebreakFor(sf)
			if !tb.Reachable(set.Side1, set.Side2) {
				penalty += PenaltyUnreachableTiebreak
			} else if !tb.Complete(set.Side1, set.Side2) && !last {
				penalty += PenaltyUnfinishedTiebreak
			}
		case sf.Timed():
			if !last && set.Side1 == set.Side2 {
				penalty += PenaltyUndecidedSet
			}
			penalty += PenaltyDigitWidth * float64(narrow(set.Side1)+narrow(set.Side2))
		default:
			if hi > sf.SetTo {
				penalty += PenaltyAboveSetTo
			}
			if sf.Tiebreak == nil && hi >= 10 {
				penalty += PenaltyLongAdvantageSet
			}
			if !last && !setDecided(sf, false, set.Side1, set.Side2) {
				penalty += PenaltyUndecidedSet
			}
			if sf.SetTo < 10 {
				penalty += PenaltyDigitWidth * float64(wide(set.Side1)+wide(set.Side2))
			}
		}

		if set.Annotated && !tiebreakReached(sf, hi, lo) {
			penalty += PenaltyStrayAnnotation
		}
		if set.AnnotationOnFirst {
			penalty += PenaltyAnnotationOnFirst
		}
		if set.Split {
			penalty += PenaltySplitRun
		}
	}
	return penalty
}

// narrow counts a one digit score, atypical for a timed set
func narrow(score int) int {
	if score < 10 {
		return 1
	}
	return 0
}

// wide counts a two digit score, atypical for a game set to fewer than 10
func wide(score int) int {
	if score >= 10 {
		return 1
	}
	return 0
}

// tiebreakReached reports whether a game score is one a set tiebreak produces or is about to produce
func tiebreakReached(sf format.SetFormat, hi, lo int) bool {
	if sf.Tiebreak == nil || sf.Timed() || sf.IsTiebreakOnly() {
		return false
	}
	k := sf.TiebreakAt
	return lo == k && (hi == k || hi == k+1)
}
