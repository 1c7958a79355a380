package models

import "time"

// WordSet is a stored target word with its four curated synonyms
type WordSet struct {
	ID         int64     `json:"id" yaml:"-"`
	TargetWord string    `json:"targetWord" yaml:"target_word"`
	Synonyms   []string  `json:"synonyms" yaml:"synonyms"`
	CreatedAt  time.Time `json:"createdAt" yaml:"-"`
}

// WordSetFile is the YAML document used for seeding, import and export
type WordSetFile struct {
	WordSets []WordSet `yaml:"word_sets"`
}

// Puzzle converts the set into a puzzle. Callers validate the synonym count first.
func (w WordSet) Puzzle() Puzzle {
	p := Puzzle{TargetWord: w.TargetWord}
	copy(p.Synonyms[:], w.Synonyms)
	return p
}
