/* segment.go
 * The segmentation engine. Digit runs are cut into 1 or 2 digit numbers and paired into sets with a breadth-first
 * enumerate-and-score search, one number per step, bounded by the best-of count and a fixed beam. Surviving
 * segmentations are ranked by the parser's Ranker
 */

package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"scoreline-bot/api/format"
)

const (
	// beamWidth bounds the number of live search states per step
	beamWidth = 256
	// maxCandidates bounds the finished segmentations kept for ranking
	maxCandidates = 64
)

type itemKind int

const (
	itemRun itemKind = iota
	itemBracket
)

// group is a parsed paren or bracket group
type group struct {
	numbers []int
	offset  int
	open    bool
}

// item is one unit the search consumes: a digit run or a bracketed match tiebreak
type item struct {
	kind    itemKind
	digits  string
	offset  int
	word    int
	atomic  bool
	whole   bool
	single  bool
	note    *group
	options [][2]int
}

// number is a score cut from a digit run
type number struct {
	value  int
	offset int
	item   int
	word   int
	whole  bool
	note   *group
}

// CandidateSet is one set of a candidate segmentation, as seen by a Ranker
type CandidateSet struct {
	Index             int
	Side1             int
	Side2             int
	Offset            int
	Bracketed         bool
	Annotated         bool
	AnnotationOnFirst bool
	Split             bool

	note *group
}

// Candidate is a full or partial segmentation of the input
type Candidate struct {
	Sets         []CandidateSet
	Partial      bool
	PartialScore int
}

type state struct {
	pos     int
	off     int
	sets    []CandidateSet
	pending *number
	penalty float64
}

// ranked is a finished segmentation with its penalty
type ranked struct {
	Candidate
	penalty float64
	offset  int
}

type searchResult struct {
	candidates []ranked
	furthest   state
}

// segmentation is the engine's output: the chosen sets, alternatives and recovery diagnostics
type segmentation struct {
	sets         []CandidateSet
	partial      *number
	alternatives []ranked
	confidence   float64
	errors       []Diagnostic
}

// buildItems turns the token stream into search items, the trailing words reserved for status matching and the
// tokens that were ignored as noise
func buildItems(tokens []Token) (items []item, trailing []Token, noise []Token, openGroup bool) {
	lastScoreToken := -1
	for i, tok := range tokens {
		if tok.Kind == TokenDigits || tok.Kind == TokenParen || tok.Kind == TokenBracket {
			lastScoreToken = i
		}
	}

	word := 0
	for i, tok := range tokens {
		switch tok.Kind {
		case TokenDigits:
			items = append(items, item{kind: itemRun, digits: tok.Text, offset: tok.Offset, word: word})
		case TokenScoreSeparator:
		case TokenSetSeparator, TokenSoft:
			word++
		case TokenWord:
			if i > lastScoreToken {
				trailing = append(trailing, tok)
			} else {
				noise = append(noise, tok)
			}
			word++
		case TokenParen:
			openGroup = openGroup || tok.Open
			last := len(items) - 1
			if last < 0 || items[last].kind != itemRun || items[last].note != nil {
				noise = append(noise, tok)
			} else {
				items[last].note = &group{numbers: parenNumbers(tok.Runs), offset: tok.Offset, open: tok.Open}
			}
			word++
		case TokenBracket:
			openGroup = openGroup || tok.Open
			word++
			if tok.Open && len(tok.Runs) < 2 {
				continue
			}
			options := bracketOptions(tok.Runs)
			if len(options) == 0 {
				if !tok.Open {
					noise = append(noise, tok)
				}
				continue
			}
			items = append(items, item{kind: itemBracket, offset: tok.Offset, word: word, options: options})
			word++
		}
	}

	runsPerWord := make(map[int]int)
	words := make(map[int]bool)
	for _, it := range items {
		words[it.word] = true
		if it.kind == itemRun {
			runsPerWord[it.word]++
		}
	}
	separated := len(words) > 1
	for i := range items {
		if items[i].kind != itemRun {
			continue
		}
		joined := runsPerWord[items[i].word] > 1
		items[i].atomic = joined && len(items[i].digits) <= 2
		items[i].whole = !joined
		items[i].single = separated && !joined && len(items[i].digits) >= 3 && len(items[i].digits) <= 4
	}
	return items, trailing, noise, openGroup
}

// parenNumbers reads the numbers inside a paren group. A single run of three or four digits holds two scores.
func parenNumbers(runs []Token) []int {
	switch {
	case len(runs) == 0:
		return nil
	case len(runs) >= 2:
		a, _ := strconv.Atoi(runs[0].Text)
		b, _ := strconv.Atoi(runs[1].Text)
		return []int{a, b}
	case len(runs[0].Text) <= 2:
		v, _ := strconv.Atoi(runs[0].Text)
		return []int{v}
	}
	text := runs[0].Text
	if len(text) > 4 {
		text = text[:4]
	}
	a, _ := strconv.Atoi(text[:2])
	b, _ := strconv.Atoi(text[2:])
	return []int{a, b}
}

// bracketOptions lists the possible score pairs of a bracket group. Two runs are read directly, a single run is cut
// every way that yields two 1 or 2 digit scores.
func bracketOptions(runs []Token) [][2]int {
	if len(runs) >= 2 {
		a, _ := strconv.Atoi(runs[0].Text)
		b, _ := strconv.Atoi(runs[1].Text)
		return [][2]int{{a, b}}
	}
	if len(runs) == 0 || len(runs[0].Text) < 2 {
		return nil
	}
	text := runs[0].Text
	var options [][2]int
	for cut := 1; cut < len(text); cut++ {
		left, right := text[:cut], text[cut:]
		if !validChunk(left) || !validChunk(right) {
			continue
		}
		a, _ := strconv.Atoi(left)
		b, _ := strconv.Atoi(right)
		options = append(options, [2]int{a, b})
	}
	return options
}

// validChunk reports whether a digit string can be a single score
func validChunk(s string) bool {
	return len(s) == 1 || (len(s) == 2 && s[0] != '0')
}

// setAllowed applies the hard filters to a candidate set: the maximum score, the deuce rule and the tiebreak point
func setAllowed(sf format.SetFormat, a, b int, annotated, atEnd bool) bool {
	hi, lo := order(a, b)
	switch {
	case sf.Timed(), sf.IsTiebreakOnly():
		return hi <= sf.MaxGames()
	case sf.Tiebreak != nil:
		k := sf.TiebreakAt
		if hi > sf.MaxGames() {
			return false
		}
		if hi == lo && hi > k {
			return false
		}
		if hi == lo && hi == k && !annotated && !atEnd {
			return false
		}
		if hi > sf.SetTo && lo < sf.SetTo-1 {
			return false
		}
		return true
	default:
		if hi > sf.MaxGames() {
			return false
		}
		if hi > sf.SetTo && (lo < sf.SetTo-1 || hi-lo > 2) {
			return false
		}
		return true
	}
}

// setDecided reports whether a set score has a winner under its set format
func setDecided(sf format.SetFormat, bracketed bool, a, b int) bool {
	hi, lo := order(a, b)
	switch {
	case bracketed || sf.IsTiebreakOnly():
		return tiebreakFor(sf).Complete(a, b)
	case sf.Timed():
		return a != b
	case sf.Tiebreak != nil && hi == sf.TiebreakAt+1 && lo == sf.TiebreakAt:
		return true
	}
	return hi >= sf.SetTo && hi-lo >= 2
}

// tiebreakFor is the race governing a tiebreak-only set. Brackets typed where the format has no match tiebreak
// are read as a 10 point race.
func tiebreakFor(sf format.SetFormat) format.TiebreakFormat {
	if sf.TiebreakOnly != nil {
		return *sf.TiebreakOnly
	}
	return format.TiebreakFormat{To: 10}
}

// takes lists how many digits can be cut from the run at the given offset. A single group is cut exactly once.
func takes(it item, off int) []int {
	rest := it.digits[off:]
	if it.single {
		if off > 0 {
			if validChunk(rest) {
				return []int{len(rest)}
			}
			return nil
		}
		var cuts []int
		for cut := 1; cut < len(rest); cut++ {
			if validChunk(rest[:cut]) && validChunk(rest[cut:]) {
				cuts = append(cuts, cut)
			}
		}
		return cuts
	}
	if it.atomic {
		return []int{len(rest)}
	}
	if len(rest) >= 2 && rest[0] != '0' {
		return []int{1, 2}
	}
	return []int{1}
}

func wordStart(items []item, pos int) bool {
	return pos == 0 || pos == len(items) || items[pos].word != items[pos-1].word
}

func (s state) candidate(partial bool) Candidate {
	c := Candidate{Sets: s.sets}
	if partial && s.pending != nil {
		c.Partial = true
		c.PartialScore = s.pending.value
	}
	return c
}

// withSet returns a copy of the state with the set appended. The set slice is copied so sibling states never share
// a backing array.
func (s state) withSet(set CandidateSet, pos, off int) state {
	sets := make([]CandidateSet, len(s.sets), len(s.sets)+1)
	copy(sets, s.sets)
	return state{pos: pos, off: off, sets: append(sets, set)}
}

// search segments items[start:] with base sets already committed
func (p *Parser) search(spec *format.FormatSpec, items []item, start, base int) searchResult {
	frontier := []state{{pos: start}}
	furthest := frontier[0]
	var done []ranked

	for len(frontier) > 0 {
		var next []state
		for _, st := range frontier {
			if st.pos == len(items) {
				if c, ok := p.finish(spec, base, st); ok {
					done = append(done, c)
				}
				continue
			}
			for _, n := range p.expand(spec, items, base, st) {
				n.penalty = p.ranker.Penalty(spec, n.candidate(false))
				next = append(next, n)
			}
		}

		for _, n := range next {
			if n.pending != nil || n.off != 0 || !wordStart(items, n.pos) {
				continue
			}
			if n.pos > furthest.pos || (n.pos == furthest.pos && n.penalty < furthest.penalty) {
				furthest = n
			}
		}

		sort.SliceStable(next, func(i, j int) bool { return next[i].penalty < next[j].penalty })
		if len(next) > beamWidth {
			next = next[:beamWidth]
		}
		frontier = next
	}

	sort.SliceStable(done, func(i, j int) bool { return done[i].penalty < done[j].penalty })
	seen := make(map[string]bool)
	unique := done[:0]
	for _, c := range done {
		key := c.key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
		if len(unique) == maxCandidates {
			break
		}
	}
	return searchResult{candidates: unique, furthest: furthest}
}

// key identifies the scores a candidate reads, regardless of how the digits were cut
func (c Candidate) key() string {
	var b strings.Builder
	for _, set := range c.Sets {
		fmt.Fprintf(&b, "%d:%d-%d:%t ", set.Index, set.Side1, set.Side2, set.Bracketed)
	}
	if c.Partial {
		fmt.Fprintf(&b, "+%d", c.PartialScore)
	}
	return b.String()
}

// finish accepts a state that consumed every item. A pending number is a set still being typed.
func (p *Parser) finish(spec *format.FormatSpec, base int, st state) (ranked, bool) {
	c := st.candidate(true)
	if st.pending != nil {
		index := base + len(st.sets) + 1
		if index > spec.BestOf || st.pending.value > spec.SetFormatFor(index).MaxGames() {
			return ranked{}, false
		}
	}
	r := ranked{Candidate: c, penalty: p.ranker.Penalty(spec, c)}
	if st.pending != nil {
		r.offset = st.pending.offset
	}
	return r, true
}

// expand produces every state reachable from st by consuming one number or one bracket group
func (p *Parser) expand(spec *format.FormatSpec, items []item, base int, st state) []state {
	it := items[st.pos]
	index := base + len(st.sets) + 1

	if it.kind == itemBracket {
		if st.pending != nil || index > spec.BestOf {
			return nil
		}
		out := make([]state, 0, len(it.options))
		for _, option := range it.options {
			set := CandidateSet{
				Index:     index,
				Side1:     option[0],
				Side2:     option[1],
				Offset:    it.offset,
				Bracketed: true,
			}
			out = append(out, st.withSet(set, st.pos+1, 0))
		}
		return out
	}

	if it.single && st.off == 0 && st.pending != nil {
		return nil
	}

	var out []state
	for _, take := range takes(it, st.off) {
		value, _ := strconv.Atoi(it.digits[st.off : st.off+take])
		end := st.off+take == len(it.digits)
		n := number{
			value:  value,
			offset: it.offset + st.off,
			item:   st.pos,
			word:   it.word,
			whole:  it.whole && st.off == 0 && end,
		}
		if end {
			n.note = it.note
		}
		pos, off := st.pos, st.off+take
		if end {
			pos, off = pos+1, 0
		}

		if index > spec.BestOf {
			continue
		}
		sf := spec.SetFormatFor(index)

		if st.pending == nil {
			if value > sf.MaxGames() {
				continue
			}
			out = append(out, state{pos: pos, off: off, sets: st.sets, pending: &n})
			continue
		}

		first := *st.pending
		if first.word != n.word && !(first.whole && n.whole) {
			continue
		}
		annotated := first.note != nil || n.note != nil
		if !setAllowed(sf, first.value, n.value, annotated, pos == len(items)) {
			continue
		}
		note := n.note
		if note == nil {
			note = first.note
		}
		set := CandidateSet{
			Index:             index,
			Side1:             first.value,
			Side2:             n.value,
			Offset:            first.offset,
			Annotated:         annotated,
			AnnotationOnFirst: first.note != nil && n.note == nil,
			Split:             first.item == n.item,
			note:              note,
		}
		out = append(out, st.withSet(set, pos, off))
	}
	return out
}

// segment reads every separated group of three or four digits as exactly one set. When that leaves more of the
// input unreadable than a free search over the digits, the free reading is used instead.
func (p *Parser) segment(spec *format.FormatSpec, items []item) segmentation {
	seg := p.segmentItems(spec, items)
	if len(seg.errors) == 0 || !hasSingle(items) {
		return seg
	}
	loose := p.segmentItems(spec, releaseGroups(items))
	if len(loose.errors) < len(seg.errors) {
		return loose
	}
	return seg
}

func hasSingle(items []item) bool {
	for _, it := range items {
		if it.single {
			return true
		}
	}
	return false
}

// releaseGroups returns a copy of items with no group held to a single set
func releaseGroups(items []item) []item {
	out := make([]item, len(items))
	copy(out, items)
	for i := range out {
		out[i].single = false
	}
	return out
}

// segmentItems runs the search over all items. When no segmentation survives, the longest clean prefix is kept,
// the offending word is reported and skipped, and the search resumes after it.
func (p *Parser) segmentItems(spec *format.FormatSpec, items []item) segmentation {
	seg := segmentation{confidence: 1}
	var committed []CandidateSet
	start := 0

	for {
		result := p.search(spec, items, start, len(committed))
		if len(result.candidates) > 0 {
			best := result.candidates[0]
			seg.sets = append(committed, best.Sets...)
			if best.Partial {
				seg.partial = &number{value: best.PartialScore, offset: best.offset}
			}
			seg.confidence *= confidence(result.candidates)
			for _, alt := range result.candidates[1:] {
				sets := make([]CandidateSet, 0, len(committed)+len(alt.Sets))
				sets = append(append(sets, committed...), alt.Sets...)
				alt.Sets = sets
				seg.alternatives = append(seg.alternatives, alt)
			}
			return seg
		}

		committed = append(committed, result.furthest.sets...)
		bad := result.furthest.pos
		if len(committed) >= spec.BestOf {
			seg.errors = append(seg.errors, Diagnostic{
				Code:    CodeTooManySets,
				Message: "score has more sets than the format allows (best of " + strconv.Itoa(spec.BestOf) + ")",
				Offset:  items[bad].offset,
			})
			seg.sets = committed
			return seg
		}
		seg.errors = append(seg.errors, Diagnostic{
			Code:    CodeExceedsFormatLimit,
			Message: "cannot read a valid set score here under " + spec.Code,
			Offset:  items[bad].offset,
		})
		seg.confidence *= 0.5

		word := items[bad].word
		start = bad
		for start < len(items) && items[start].word == word {
			start++
		}
		if start == len(items) {
			seg.sets = committed
			return seg
		}
	}
}

// confidence converts ranked penalties into the certainty of the top candidate
func confidence(candidates []ranked) float64 {
	if len(candidates) == 1 {
		if candidates[0].Partial {
			return 0.9
		}
		return 1
	}
	total := 0.0
	for _, c := range candidates {
		total += plausibility(c.penalty)
	}
	return plausibility(candidates[0].penalty) / total
}

func plausibility(penalty float64) float64 {
	return 1 / (1 + penalty)
}

func order(a, b int) (int, int) {
	if a >= b {
		return a, b
	}
	return b, a
}
