// Package matcher decides whether a guess counts as one of a puzzle's synonyms.
package matcher

import (
	"golang.org/x/text/cases"
)

// Kind classifies a guess against a synonym set
type Kind int

const (
	NoMatch Kind = iota
	Exact
	CloseMatch
	// TargetWord is a NoMatch for the puzzle's own target word, kept distinct
	// so callers can explain the rejection.
	TargetWord
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case CloseMatch:
		return "close_match"
	case TargetWord:
		return "target_word"
	default:
		return "no_match"
	}
}

// Result is the outcome of matching one candidate.
// Synonym and Index identify the matched canonical synonym; Index is -1 otherwise.
type Result struct {
	Kind     Kind
	Synonym  string
	Index    int
	Distance int
}

// Matched reports whether the candidate should be accepted as a synonym
func (r Result) Matched() bool {
	return r.Kind == Exact || r.Kind == CloseMatch
}

// Tolerance is the length-scaled number of edits a misspelling may contain.
// Synonyms up to ShortWordMax runes allow ShortEdits, longer ones allow LongEdits.
type Tolerance struct {
	ShortWordMax int
	ShortEdits   int
	LongEdits    int
}

// DefaultTolerance allows one typo in short words and two in longer ones
var DefaultTolerance = Tolerance{ShortWordMax: 5, ShortEdits: 1, LongEdits: 2}

// Allowed returns the maximum edit distance for a synonym of the given length
func (t Tolerance) Allowed(length int) int {
	if length <= t.ShortWordMax {
		return t.ShortEdits
	}
	return t.LongEdits
}

// Matcher compares guesses against canonical synonyms. It holds no mutable
// state, so the same inputs always produce the same Result.
type Matcher struct {
	tolerance Tolerance
}

// New creates a matcher with the given tolerance policy
func New(tolerance Tolerance) *Matcher {
	return &Matcher{tolerance: tolerance}
}

// Match classifies candidate against target and its ordered synonyms.
// Among close matches the smallest distance wins, then the lowest index.
func (m *Matcher) Match(candidate, target string, synonyms []string) Result {
	folded := fold(candidate)
	none := Result{Kind: NoMatch, Index: -1}

	if folded == "" {
		return none
	}

	if folded == fold(target) {
		return Result{Kind: TargetWord, Index: -1}
	}

	foldedSyns := make([]string, len(synonyms))
	for i, syn := range synonyms {
		foldedSyns[i] = fold(syn)
		if folded == foldedSyns[i] {
			return Result{Kind: Exact, Synonym: syn, Index: i}
		}
	}

	best := none
	candRunes := []rune(folded)
	for i, syn := range foldedSyns {
		synRunes := []rune(syn)
		allowed := m.tolerance.Allowed(len(synRunes))
		if abs(len(candRunes)-len(synRunes)) > allowed {
			continue
		}
		d := levenshtein(candRunes, synRunes)
		if d > allowed {
			continue
		}
		if best.Kind == NoMatch || d < best.Distance {
			best = Result{Kind: CloseMatch, Synonym: synonyms[i], Index: i, Distance: d}
		}
	}

	return best
}

// Distance returns the Levenshtein distance between a and b after case folding
func Distance(a, b string) int {
	return levenshtein([]rune(fold(a)), []rune(fold(b)))
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// levenshtein computes unit-cost insert/delete/substitute distance with two rows
func levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ra := range a {
		curr[0] = i + 1
		for j, rb := range b {
			cost := 1
			if ra == rb {
				cost = 0
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
