package models

// SlotHint exposes only the length of a hidden synonym
type SlotHint struct {
	LetterCount int `json:"letterCount"`
}

// StartGameResponse is returned when a new puzzle session begins
type StartGameResponse struct {
	SessionID    string     `json:"sessionId"`
	TargetWord   string     `json:"targetWord"`
	SynonymSlots []SlotHint `json:"synonymSlots"`
	Status       GameStatus `json:"status"`
}

// GuessRequest is the body of a guess submission
type GuessRequest struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess"`
}

// GuessOutcome classifies what a submitted guess did to the session
type GuessOutcome string

const (
	OutcomeCorrect    GuessOutcome = "correct"
	OutcomeCompleted  GuessOutcome = "completed"
	OutcomeDuplicate  GuessOutcome = "duplicate"
	OutcomeTargetWord GuessOutcome = "target_word"
	OutcomeIncorrect  GuessOutcome = "incorrect"
)

// GuessResponse reports the result of one guess
type GuessResponse struct {
	Success bool         `json:"success"`
	Outcome GuessOutcome `json:"outcome"`
	Message string       `json:"message"`
	Hint    *string      `json:"hint"`
	Session SessionView  `json:"session"`
}

// GiveUpRequest is the body of a give-up request
type GiveUpRequest struct {
	SessionID string `json:"sessionId"`
}

// GiveUpResponse reveals every synonym of an abandoned puzzle
type GiveUpResponse struct {
	Message string      `json:"message"`
	Session SessionView `json:"session"`
}
