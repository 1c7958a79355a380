package models

// AnalysisType names the relationship between an incorrect guess and the target word
type AnalysisType string

const (
	AnalysisTargetWord  AnalysisType = "target_word"
	AnalysisMisspelling AnalysisType = "misspelling"
	AnalysisRelated     AnalysisType = "related"
	AnalysisWrongForm   AnalysisType = "wrong_form"
	AnalysisUnrelated   AnalysisType = "unrelated"
)

// HintRequest is what the game sends to the hint analyzer
type HintRequest struct {
	Guess           string   `json:"guess"`
	TargetWord      string   `json:"target_word"`
	PreviousGuesses []string `json:"previous_guesses"`
}

// HintResponse is the analyzer's answer
type HintResponse struct {
	HintText     string       `json:"hintText"`
	AnalysisType AnalysisType `json:"analysisType"`
	Confidence   float64      `json:"confidence"`
}
