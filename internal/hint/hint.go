// Package hint obtains an explanation for an incorrect guess by trying
// remote analyzers in order and falling back to a local heuristic.
package hint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"synonymseeker/internal/logging"
	"synonymseeker/internal/models"
	"synonymseeker/internal/validation"
)

// MaxHintLength caps remote hint text in runes
const MaxHintLength = 500

// DefaultTimeout applies to a stage configured without one
const DefaultTimeout = 30 * time.Second

var errEmptyHint = errors.New("stage returned an empty hint")

// Stage is one source of hint text
type Stage interface {
	Name() string
	Hint(ctx context.Context, req models.HintRequest) (string, error)
}

// StageConfig pairs a remote stage with its deadline
type StageConfig struct {
	Stage   Stage
	Timeout time.Duration
}

// Orchestrator runs remote stages in order and always produces a hint
type Orchestrator struct {
	stages []StageConfig
	local  *LocalStage
}

// NewOrchestrator creates an orchestrator over the given remote stages.
// Stages with a nil Stage are skipped.
func NewOrchestrator(stages ...StageConfig) *Orchestrator {
	o := &Orchestrator{local: &LocalStage{}}
	for _, sc := range stages {
		if sc.Stage == nil {
			continue
		}
		if sc.Timeout <= 0 {
			sc.Timeout = DefaultTimeout
		}
		o.stages = append(o.stages, sc)
	}
	return o
}

// ObtainHint returns hint text for guess. It never fails.
func (o *Orchestrator) ObtainHint(ctx context.Context, guess, target string, previous []string) string {
	req := models.HintRequest{
		Guess:           validation.ForAnalysis(guess),
		TargetWord:      validation.ForAnalysis(target),
		PreviousGuesses: cleanPrevious(previous),
	}

	if req.Guess != "" && req.TargetWord != "" {
		for _, sc := range o.stages {
			text, err := o.run(ctx, sc, req)
			if err == nil {
				return text
			}
			slog.Warn("hint stage failed", "stage", sc.Stage.Name(), logging.KeyError, err)
		}
	} else if len(o.stages) > 0 {
		slog.Warn("hint input empty after sanitization, skipping remote stages")
	}

	return o.local.Text(guess, target)
}

type stageResult struct {
	text string
	err  error
}

func (o *Orchestrator) run(ctx context.Context, sc StageConfig, req models.HintRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, sc.Timeout)
	defer cancel()

	// Buffered so a stage finishing after the deadline never blocks.
	results := make(chan stageResult, 1)
	go func() {
		text, err := sc.Stage.Hint(ctx, req)
		results <- stageResult{text: text, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", errEmptyHint
		}
		return truncate(text, MaxHintLength), nil
	case <-ctx.Done():
		return "", fmt.Errorf("timed out after %s: %w", sc.Timeout, ctx.Err())
	}
}

func cleanPrevious(previous []string) []string {
	out := make([]string, 0, len(previous))
	for _, p := range previous {
		if clean := validation.ForAnalysis(p); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
