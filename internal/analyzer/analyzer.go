// Package analyzer classifies an incorrect guess against the target word and
// writes an educational hint about it.
package analyzer

import (
	"fmt"
	"slices"
	"strings"

	"synonymseeker/internal/matcher"
	"synonymseeker/internal/models"
)

const (
	confidenceTarget      = 1.0
	confidenceMisspelling = 0.9
	confidenceRelated     = 0.7
	confidenceWrongForm   = 0.6
	confidenceUnrelated   = 0.8
)

// formSuffixes are stripped when comparing word forms
var formSuffixes = []string{"ly", "ness", "ing", "ed"}

// Analyzer explains incorrect guesses using a catalog
type Analyzer struct {
	catalog *Catalog
}

// New creates an analyzer over the catalog
func New(catalog *Catalog) *Analyzer {
	return &Analyzer{catalog: catalog}
}

// Analyze classifies the guess and builds the hint.
// Checks run in order: target word, misspelling, related, wrong form.
func (a *Analyzer) Analyze(req models.HintRequest) models.HintResponse {
	guess := strings.ToLower(strings.TrimSpace(req.Guess))
	target := strings.ToLower(strings.TrimSpace(req.TargetWord))

	if guess == target {
		return models.HintResponse{
			HintText:     fmt.Sprintf("You can't use the target word '%s' as a guess! Try finding words that mean the same thing.", req.TargetWord),
			AnalysisType: models.AnalysisTargetWord,
			Confidence:   confidenceTarget,
		}
	}

	if intended, ok := a.closestSynonym(guess, target); ok {
		return models.HintResponse{
			HintText:     fmt.Sprintf("Close! Did you mean '%s'? That would be a great synonym for '%s'.", intended, req.TargetWord),
			AnalysisType: models.AnalysisMisspelling,
			Confidence:   confidenceMisspelling,
		}
	}

	if a.related(guess, target) {
		return models.HintResponse{
			HintText:     fmt.Sprintf("'%s' is related to '%s' but not quite a synonym. Think of words that mean exactly the same thing.", req.Guess, req.TargetWord),
			AnalysisType: models.AnalysisRelated,
			Confidence:   confidenceRelated,
		}
	}

	if wrongForm(guess, target) {
		return models.HintResponse{
			HintText:     fmt.Sprintf("'%s' is in the right area but try a different form of the word. What's another way to say '%s'?", req.Guess, req.TargetWord),
			AnalysisType: models.AnalysisWrongForm,
			Confidence:   confidenceWrongForm,
		}
	}

	return models.HintResponse{
		HintText:     fmt.Sprintf("'%s' isn't related to '%s'. %s", req.Guess, req.TargetWord, a.vocabularyHint(target, req.TargetWord)),
		AnalysisType: models.AnalysisUnrelated,
		Confidence:   confidenceUnrelated,
	}
}

// closestSynonym finds a known synonym within max(1, len/3) edits of guess
func (a *Analyzer) closestSynonym(guess, target string) (string, bool) {
	entry, ok := a.catalog.Targets[target]
	if !ok {
		return "", false
	}

	best, bestDistance := "", -1
	for _, syn := range entry.Synonyms {
		n := len([]rune(syn))
		if abs(len([]rune(guess))-n) > 2 {
			continue
		}
		d := matcher.Distance(guess, syn)
		if d <= max(1, n/3) && (bestDistance < 0 || d < bestDistance) {
			best, bestDistance = syn, d
		}
	}
	return best, bestDistance >= 0
}

func (a *Analyzer) related(guess, target string) bool {
	for _, words := range a.catalog.Categories {
		if slices.Contains(words, target) && slices.Contains(words, guess) {
			return true
		}
	}
	return false
}

func wrongForm(guess, target string) bool {
	for _, suffix := range formSuffixes {
		guessRoot := strings.TrimSuffix(guess, suffix)
		targetRoot := strings.TrimSuffix(target, suffix)
		if guessRoot == targetRoot || guess == targetRoot || guessRoot == target {
			return true
		}
	}
	return false
}

func (a *Analyzer) vocabularyHint(target, display string) string {
	if entry, ok := a.catalog.Targets[target]; ok && entry.VocabularyHint != "" {
		return entry.VocabularyHint
	}
	return fmt.Sprintf("Think of words that have a similar meaning to '%s'.", display)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
