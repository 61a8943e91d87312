/* tokenizer.go
 * Splits raw score input into classified tokens. Every character falls into exactly one class of the table below,
 * so nothing the user types is ever rejected at this stage
 */

package parser

import (
	"unicode"
	"unicode/utf8"
)

// CharClass is the lexical class of a single input character
type CharClass int

const (
	ClassSoft CharClass = iota
	ClassDigit
	ClassLetter
	ClassSetSeparator
	ClassScoreSeparator
	ClassParenOpen
	ClassParenClose
	ClassBracketOpen
	ClassBracketClose
)

// charClasses lists every character with a fixed class. Digits and letters are matched by range, anything else
// not listed here is ClassSoft.
var charClasses = map[rune]CharClass{
	' ':  ClassSetSeparator,
	'\t': ClassSetSeparator,
	'\n': ClassSetSeparator,
	'\r': ClassSetSeparator,
	',':  ClassSetSeparator,
	';':  ClassSetSeparator,
	'-':  ClassScoreSeparator,
	'–':  ClassScoreSeparator,
	'—':  ClassScoreSeparator,
	':':  ClassScoreSeparator,
	'/':  ClassScoreSeparator,
	'(':  ClassParenOpen,
	')':  ClassParenClose,
	'[':  ClassBracketOpen,
	']':  ClassBracketClose,
}

// wordJoiners continue a word once it has started, so "w/o" and "ret." stay whole
var wordJoiners = map[rune]bool{'/': true, '.': true, '\'': true}

// Classify returns the class of r
func Classify(r rune) CharClass {
	if r >= '0' && r <= '9' {
		return ClassDigit
	}
	if c, ok := charClasses[r]; ok {
		return c
	}
	if unicode.IsLetter(r) {
		return ClassLetter
	}
	return ClassSoft
}

// TokenKind is the kind of a Token
type TokenKind int

const (
	TokenDigits TokenKind = iota
	TokenSetSeparator
	TokenScoreSeparator
	TokenSoft
	TokenParen
	TokenBracket
	TokenWord
)

func (k TokenKind) String() string {
	switch k {
	case TokenDigits:
		return "digits"
	case TokenSetSeparator:
		return "set separator"
	case TokenScoreSeparator:
		return "score separator"
	case TokenSoft:
		return "soft"
	case TokenParen:
		return "paren"
	case TokenBracket:
		return "bracket"
	case TokenWord:
		return "word"
	}
	return "unknown"
}

// Token is a classified slice of the input. For paren and bracket groups Text is the inner text, Runs holds the
// digit runs inside the group and Open is set when the closing character has not been typed yet.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
	Runs   []Token
	Open   bool
}

// Tokenize classifies the input into tokens, keeping the byte offset of each one.
// Preconditions: receives any string
// Postconditions: returns the tokens in input order; concatenated they cover every character of the input
func Tokenize(input string) []Token {
	var tokens []Token
	pos := 0
	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		class := Classify(r)
		start := pos

		switch class {
		case ClassLetter:
			pos += size
			for pos < len(input) {
				next, n := utf8.DecodeRuneInString(input[pos:])
				if Classify(next) != ClassLetter && !wordJoiners[next] {
					break
				}
				pos += n
			}
			tokens = append(tokens, Token{Kind: TokenWord, Text: input[start:pos], Offset: start})

		case ClassParenOpen, ClassBracketOpen:
			closing, kind := ClassParenClose, TokenParen
			if class == ClassBracketOpen {
				closing, kind = ClassBracketClose, TokenBracket
			}
			pos += size
			end := pos
			open := true
			for end < len(input) {
				next, n := utf8.DecodeRuneInString(input[end:])
				if Classify(next) == closing {
					open = false
					break
				}
				end += n
			}
			tokens = append(tokens, Token{
				Kind:   kind,
				Text:   input[pos:end],
				Offset: start,
				Runs:   digitRuns(input[pos:end], pos),
				Open:   open,
			})
			pos = end
			if !open {
				pos++
			}

		default:
			kind := tokenKindFor(class)
			pos += size
			for pos < len(input) {
				next, n := utf8.DecodeRuneInString(input[pos:])
				if tokenKindFor(Classify(next)) != kind || isGroupClass(Classify(next)) || Classify(next) == ClassLetter {
					break
				}
				pos += n
			}
			tokens = append(tokens, Token{Kind: kind, Text: input[start:pos], Offset: start})
		}
	}
	return tokens
}

// tokenKindFor maps a character class to the token it builds. A stray closing group character is soft.
func tokenKindFor(class CharClass) TokenKind {
	switch class {
	case ClassDigit:
		return TokenDigits
	case ClassSetSeparator:
		return TokenSetSeparator
	case ClassScoreSeparator:
		return TokenScoreSeparator
	}
	return TokenSoft
}

func isGroupClass(class CharClass) bool {
	return class == ClassParenOpen || class == ClassBracketOpen
}

// digitRuns extracts the digit runs inside a group, with offsets relative to the whole input
func digitRuns(text string, base int) []Token {
	var runs []Token
	start := -1
	for i := 0; i < len(text); i++ {
		isDigit := text[i] >= '0' && text[i] <= '9'
		if isDigit && start < 0 {
			start = i
		}
		if !isDigit && start >= 0 {
			runs = append(runs, Token{Kind: TokenDigits, Text: text[start:i], Offset: base + start})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Token{Kind: TokenDigits, Text: text[start:], Offset: base + start})
	}
	return runs
}
