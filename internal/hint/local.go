package hint

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"synonymseeker/internal/models"
	"synonymseeker/internal/validation"
)

const minGuessLength = 3

// LocalStage builds a hint without any network call
type LocalStage struct{}

func (LocalStage) Name() string { return "local" }

// Hint implements Stage and never fails
func (l LocalStage) Hint(_ context.Context, req models.HintRequest) (string, error) {
	return l.Text(req.Guess, req.TargetWord), nil
}

// Text returns a generic hint for guess against target
func (LocalStage) Text(guess, target string) string {
	g := validation.ForDisplay(guess)
	t := validation.ForDisplay(target)
	if t == "" {
		t = "the target word"
	}

	switch {
	case utf8.RuneCountInString(g) < minGuessLength:
		return fmt.Sprintf("'%s' is too short. Try thinking of longer words that mean the same as '%s'.", g, t)
	case strings.EqualFold(g, t):
		return fmt.Sprintf("You can't use the target word '%s' as a guess! Try finding words that mean the same thing.", t)
	default:
		return fmt.Sprintf("'%s' is not a synonym of '%s'. Think of words that have a similar meaning to '%s'.", g, t, t)
	}
}
