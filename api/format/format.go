/* format.go
 * Interprets matchUpFormat codes (e.g. SET3-S:6/TB7-F:TB10) into the constraints that the score parser uses to
 * disambiguate free-form input. Codes follow the TODS layout: SET<bestOf>[X]-S:<set>[-F:<final set>]
 */

package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat is wrapped by every ParseError so callers can use errors.Is
var ErrInvalidFormat = errors.New("invalid matchUpFormat")

// ParseError is returned when a matchUpFormat code is structurally invalid
type ParseError struct {
	Code   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid matchUpFormat %q: %s", e.Code, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidFormat
}

var (
	setCountRe    = regexp.MustCompile(`^SET(\d+)(X?)$`)
	gameSetRe     = regexp.MustCompile(`^(\d+)(NOAD)?(?:/TB(\d+)(NOAD)?(?:@(\d+))?)?$`)
	tiebreakSetRe = regexp.MustCompile(`^TB(\d+)(NOAD)?$`)
	timedSetRe    = regexp.MustCompile(`^T(\d+)([AGP])?$`)
)

// maxScore caps any single typed score at two digits
const maxScore = 99

// TiebreakFormat describes a tiebreak race: first to To points
type TiebreakFormat struct {
	To   int  `json:"tiebreakTo" yaml:"tiebreakTo"`
	NoAD bool `json:"noAd,omitempty" yaml:"noAd,omitempty"`
}

// margin is the winning margin of the race. No-ad and race-to-1 tiebreaks end on the first point past the target.
func (t TiebreakFormat) margin() int {
	if t.NoAD || t.To <= 1 {
		return 1
	}
	return 2
}

// Complete reports whether a,b is a finished tiebreak under this race
func (t TiebreakFormat) Complete(a, b int) bool {
	hi, lo := order(a, b)
	if t.margin() == 1 {
		return hi == t.To && lo < t.To
	}
	if hi < t.To || hi-lo < 2 {
		return false
	}
	return hi == t.To || hi-lo == 2
}

// Reachable reports whether a,b can occur in this race, finished or still being played
func (t TiebreakFormat) Reachable(a, b int) bool {
	if t.Complete(a, b) {
		return true
	}
	hi, lo := order(a, b)
	if hi < t.To {
		return true
	}
	if t.margin() == 1 {
		return false
	}
	return lo >= t.To-1 && hi-lo <= 1
}

// WinnerScore infers the winning side's points from the losing side's points
func (t TiebreakFormat) WinnerScore(loser int) int {
	if t.margin() == 1 {
		return t.To
	}
	return max(t.To, loser+2)
}

func (t TiebreakFormat) code() string {
	code := "TB" + strconv.Itoa(t.To)
	if t.NoAD {
		code += "NOAD"
	}
	return code
}

// SetFormat holds the constraints for a single set. Exactly one of the three kinds applies:
// a game set (SetTo > 0), a tiebreak-only set (TiebreakOnly != nil) or a timed set (Minutes > 0)
type SetFormat struct {
	SetTo        int             `json:"setTo,omitempty"`
	NoAD         bool            `json:"noAd,omitempty"`
	TiebreakAt   int             `json:"tiebreakAt,omitempty"`
	Tiebreak     *TiebreakFormat `json:"tiebreakFormat,omitempty"`
	TiebreakOnly *TiebreakFormat `json:"tiebreakSet,omitempty"`
	Minutes      int             `json:"minutes,omitempty"`
	Modifier     string          `json:"modifier,omitempty"`
	Aggregate    bool            `json:"aggregate,omitempty"`
}

// Timed reports whether the set is played against the clock
func (s SetFormat) Timed() bool {
	return s.Minutes > 0
}

// IsTiebreakOnly reports whether the whole set is a single tiebreak
func (s SetFormat) IsTiebreakOnly() bool {
	return s.TiebreakOnly != nil
}

// MaxGames is the highest score either side can hold in this set
func (s SetFormat) MaxGames() int {
	if s.Tiebreak != nil && s.TiebreakOnly == nil && !s.Timed() {
		return max(s.SetTo, s.TiebreakAt+1)
	}
	return maxScore
}

func (s SetFormat) code() string {
	switch {
	case s.TiebreakOnly != nil:
		return s.TiebreakOnly.code()
	case s.Timed():
		return "T" + strconv.Itoa(s.Minutes) + s.Modifier
	}
	code := strconv.Itoa(s.SetTo)
	if s.NoAD {
		code += "NOAD"
	}
	if s.Tiebreak != nil {
		code += "/" + s.Tiebreak.code()
		if s.TiebreakAt != s.SetTo {
			code += "@" + strconv.Itoa(s.TiebreakAt)
		}
	}
	return code
}

// FormatSpec is the interpreted form of a matchUpFormat code
type FormatSpec struct {
	Code           string     `json:"code"`
	BestOf         int        `json:"bestOf"`
	Exact          bool       `json:"exact,omitempty"`
	SetFormat      SetFormat  `json:"setFormat"`
	FinalSetFormat *SetFormat `json:"finalSetFormat,omitempty"`
	Aggregate      bool       `json:"aggregate,omitempty"`
}

// IsDecidingSet reports whether the 1-based set index is the last set the format can reach
func (f *FormatSpec) IsDecidingSet(i int) bool {
	return i == f.BestOf
}

// SetFormatFor returns the constraints governing the 1-based set index
func (f *FormatSpec) SetFormatFor(i int) SetFormat {
	if f.IsDecidingSet(i) && f.FinalSetFormat != nil {
		return *f.FinalSetFormat
	}
	return f.SetFormat
}

// SetsToWin is the number of sets that clinches the match. Exact formats still play every set.
func (f *FormatSpec) SetsToWin() int {
	return (f.BestOf + 1) / 2
}

// String renders the canonical matchUpFormat code
func (f *FormatSpec) String() string {
	var b strings.Builder
	b.WriteString("SET" + strconv.Itoa(f.BestOf))
	if f.Exact {
		b.WriteString("X")
	}
	b.WriteString("-S:" + f.SetFormat.code())
	if f.FinalSetFormat != nil {
		b.WriteString("-F:" + f.FinalSetFormat.code())
	}
	return b.String()
}

// Parse interprets a matchUpFormat code.
// Preconditions: receives a code such as "SET3-S:6/TB7" or "SET3X-S:T10A-F:TB1" (case insensitive)
// Postconditions: returns the FormatSpec, or a *ParseError wrapping ErrInvalidFormat if the code is malformed
func Parse(code string) (*FormatSpec, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	fail := func(reason string, args ...any) (*FormatSpec, error) {
		return nil, &ParseError{Code: code, Reason: fmt.Sprintf(reason, args...)}
	}
	if normalized == "" {
		return fail("empty code")
	}

	parts := strings.Split(normalized, "-")
	if len(parts) < 2 || len(parts) > 3 {
		return fail("expected SET<n>-S:<set>[-F:<final set>], got %d sections", len(parts))
	}

	m := setCountRe.FindStringSubmatch(parts[0])
	if m == nil {
		return fail("unknown token %q", parts[0])
	}
	bestOf, _ := strconv.Atoi(m[1])
	if bestOf < 1 {
		return fail("bestOf must be at least 1")
	}

	spec := &FormatSpec{BestOf: bestOf, Exact: m[2] == "X"}

	if !strings.HasPrefix(parts[1], "S:") {
		return fail("unknown token %q", parts[1])
	}
	setFormat, err := parseSetFormat(strings.TrimPrefix(parts[1], "S:"))
	if err != nil {
		return fail("%v", err)
	}
	spec.SetFormat = setFormat
	spec.Aggregate = setFormat.Aggregate

	if len(parts) == 3 {
		if !strings.HasPrefix(parts[2], "F:") {
			return fail("unknown token %q", parts[2])
		}
		finalFormat, err := parseSetFormat(strings.TrimPrefix(parts[2], "F:"))
		if err != nil {
			return fail("%v", err)
		}
		spec.FinalSetFormat = &finalFormat
	}

	spec.Code = spec.String()
	return spec, nil
}

// parseSetFormat interprets one set section, trying tiebreak-only, timed and game sets in turn
func parseSetFormat(section string) (SetFormat, error) {
	if m := tiebreakSetRe.FindStringSubmatch(section); m != nil {
		to, _ := strconv.Atoi(m[1])
		if to < 1 {
			return SetFormat{}, fmt.Errorf("tiebreak target must be at least 1 in %q", section)
		}
		return SetFormat{TiebreakOnly: &TiebreakFormat{To: to, NoAD: m[2] != ""}}, nil
	}

	if m := timedSetRe.FindStringSubmatch(section); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		if minutes < 1 {
			return SetFormat{}, fmt.Errorf("timed set must last at least 1 minute in %q", section)
		}
		return SetFormat{Minutes: minutes, Modifier: m[2], Aggregate: m[2] == "A"}, nil
	}

	m := gameSetRe.FindStringSubmatch(section)
	if m == nil {
		return SetFormat{}, fmt.Errorf("unknown set format %q", section)
	}
	setTo, _ := strconv.Atoi(m[1])
	if setTo < 1 {
		return SetFormat{}, fmt.Errorf("setTo must be at least 1 in %q", section)
	}
	set := SetFormat{SetTo: setTo, NoAD: m[2] != "", TiebreakAt: setTo}
	if m[3] != "" {
		to, _ := strconv.Atoi(m[3])
		if to < 1 {
			return SetFormat{}, fmt.Errorf("tiebreak target must be at least 1 in %q", section)
		}
		set.Tiebreak = &TiebreakFormat{To: to, NoAD: m[4] != ""}
		if m[5] != "" {
			at, _ := strconv.Atoi(m[5])
			if at < 1 || at > setTo {
				return SetFormat{}, fmt.Errorf("tiebreakAt %d outside 1..%d in %q", at, setTo, section)
			}
			set.TiebreakAt = at
		}
	}
	return set, nil
}

func order(a, b int) (int, int) {
	if a >= b {
		return a, b
	}
	return b, a
}
