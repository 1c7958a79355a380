package models

import (
	"strings"
	"time"
)

// SlotCount is the number of synonyms every puzzle carries
const SlotCount = 4

// GameStatus is the lifecycle state of a puzzle session
type GameStatus string

const (
	StatusActive    GameStatus = "active"
	StatusCompleted GameStatus = "completed"
	StatusGivenUp   GameStatus = "given-up"
)

// IsTerminal reports whether no further guesses are accepted
func (s GameStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusGivenUp
}

// Puzzle is a target word with its four synonyms, as produced by a word source
type Puzzle struct {
	TargetWord string
	Synonyms   [SlotCount]string
}

// SynonymSlot is one of the four placeholders shown to the player.
// Word stays empty until Found is set.
type SynonymSlot struct {
	Word        string `json:"word,omitempty"`
	LetterCount int    `json:"letterCount"`
	Found       bool   `json:"found"`
}

// PuzzleSession represents one in-progress game.
// CanonicalSynonyms backs the slots and never leaves the service layer.
type PuzzleSession struct {
	ID                string                 `json:"id"`
	TargetWord        string                 `json:"targetWord"`
	Slots             [SlotCount]SynonymSlot `json:"slots"`
	CanonicalSynonyms [SlotCount]string      `json:"canonicalSynonyms"`
	GuessCount        int                    `json:"guessCount"`
	GuessedWords      []string               `json:"guessedWords"`
	Status            GameStatus             `json:"status"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

// NewPuzzleSession builds an active session for the puzzle with all slots hidden
func NewPuzzleSession(id string, puzzle Puzzle, now time.Time) *PuzzleSession {
	session := &PuzzleSession{
		ID:                id,
		TargetWord:        puzzle.TargetWord,
		CanonicalSynonyms: puzzle.Synonyms,
		GuessedWords:      []string{},
		Status:            StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for i, syn := range puzzle.Synonyms {
		session.Slots[i] = SynonymSlot{LetterCount: len([]rune(syn))}
	}
	return session
}

// Clone returns a deep copy safe to mutate independently
func (s *PuzzleSession) Clone() *PuzzleSession {
	if s == nil {
		return nil
	}
	c := *s
	c.GuessedWords = append([]string(nil), s.GuessedWords...)
	if c.GuessedWords == nil {
		c.GuessedWords = []string{}
	}
	return &c
}

// FoundCount returns how many slots have been filled
func (s *PuzzleSession) FoundCount() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Found {
			n++
		}
	}
	return n
}

// HasGuessed reports whether word was already submitted or already fills a slot
func (s *PuzzleSession) HasGuessed(word string) bool {
	for _, g := range s.GuessedWords {
		if g == word {
			return true
		}
	}
	for _, slot := range s.Slots {
		if slot.Found && strings.EqualFold(slot.Word, word) {
			return true
		}
	}
	return false
}

// RecordGuess adds word to the guessed set if it is not already present
func (s *PuzzleSession) RecordGuess(word string) {
	for _, g := range s.GuessedWords {
		if g == word {
			return
		}
	}
	s.GuessedWords = append(s.GuessedWords, word)
}

// FillSlot marks slot i found with its canonical word and updates the status
func (s *PuzzleSession) FillSlot(i int) {
	s.Slots[i].Word = s.CanonicalSynonyms[i]
	s.Slots[i].Found = true
	if s.FoundCount() == SlotCount {
		s.Status = StatusCompleted
	}
}

// RevealAll fills every remaining slot and ends the game
func (s *PuzzleSession) RevealAll() {
	for i := range s.Slots {
		if !s.Slots[i].Found {
			s.Slots[i].Word = s.CanonicalSynonyms[i]
			s.Slots[i].Found = true
		}
	}
	s.Status = StatusGivenUp
}

// View projects the session into its caller-facing shape
func (s *PuzzleSession) View() SessionView {
	view := SessionView{
		TargetWord:   s.TargetWord,
		Synonyms:     make([]SlotView, 0, SlotCount),
		GuessCount:   s.GuessCount,
		Status:       s.Status,
		GuessedWords: append([]string{}, s.GuessedWords...),
	}
	for _, slot := range s.Slots {
		sv := SlotView{LetterCount: slot.LetterCount, Found: slot.Found}
		if slot.Found {
			word := slot.Word
			sv.Word = &word
		}
		view.Synonyms = append(view.Synonyms, sv)
	}
	return view
}

// SlotView exposes a slot with a null word until it is found
type SlotView struct {
	Word        *string `json:"word"`
	LetterCount int     `json:"letterCount"`
	Found       bool    `json:"found"`
}

// SessionView is the game state returned to callers
type SessionView struct {
	TargetWord   string     `json:"targetWord"`
	Synonyms     []SlotView `json:"synonyms"`
	GuessCount   int        `json:"guessCount"`
	Status       GameStatus `json:"status"`
	GuessedWords []string   `json:"guessedWords"`
}
