/* models.go
 * This file contains the result types returned by the score parser and the diagnostic codes it reports
 */

package parser

import "scoreline-bot/api/shared"

// Code identifies a diagnostic
type Code string

const (
	CodeFormatParseError                   Code = "FormatParseError"
	CodeExceedsFormatLimit                 Code = "ExceedsFormatLimit"
	CodeInvalidTiebreakScore               Code = "InvalidTiebreakScore"
	CodeTooManySets                        Code = "TooManySets"
	CodeUnfinishedSet                      Code = "UnfinishedSet"
	CodeAggregateNotTiedTiebreakNotAllowed Code = "AggregateNotTiedTiebreakNotAllowed"
	CodeAggregateTiedTiebreakRequired      Code = "AggregateTiedTiebreakRequired"
	CodeAmbiguousSegmentation              Code = "AmbiguousSegmentation"
	CodeUnrecognizedTrailingToken          Code = "UnrecognizedTrailingToken"
)

// Diagnostic is a warning or error tied to a byte offset of the input
type Diagnostic struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Offset  int    `json:"offset"`
}

// AlternateSegmentation is a lower ranked reading of the input
type AlternateSegmentation struct {
	Sets           []shared.SetResult `json:"sets"`
	FormattedScore string             `json:"formattedScore"`
	Plausibility   float64            `json:"plausibility"`
}

// ParseResult is the structured reading of a free-form score
type ParseResult struct {
	Valid          bool                    `json:"valid"`
	Sets           []shared.SetResult      `json:"sets"`
	FormattedScore string                  `json:"formattedScore"`
	MatchComplete  bool                    `json:"matchComplete"`
	Incomplete     bool                    `json:"incomplete"`
	MatchUpStatus  shared.MatchUpStatus    `json:"matchUpStatus,omitempty"`
	WinningSide    int                     `json:"winningSide,omitempty"`
	Confidence     float64                 `json:"confidence"`
	Warnings       []Diagnostic            `json:"warnings"`
	Errors         []Diagnostic            `json:"errors"`
	Ambiguities    []AlternateSegmentation `json:"ambiguities"`
	Suggestions    []string                `json:"suggestions"`
}

// HasError reports whether an error with the given code was recorded
func (r *ParseResult) HasError(code Code) bool {
	for _, d := range r.Errors {
		if d.Code == code {
			return true
		}
	}
	return false
}

// HasWarning reports whether a warning with the given code was recorded
func (r *ParseResult) HasWarning(code Code) bool {
	for _, d := range r.Warnings {
		if d.Code == code {
			return true
		}
	}
	return false
}
