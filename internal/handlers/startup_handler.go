package handlers

import (
	"net/http"
	"sync"
)

// Startup step names reported by /readyz
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepSeeding    = "Seeding word sets"
	StepServices   = "Initializing services"
)

// StartupStatus tracks the initialization progress
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	progress int
	steps    []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewStartupStatus creates a tracker with every step pending
func NewStartupStatus(names ...string) *StartupStatus {
	s := &StartupStatus{current: "Initializing..."}
	for _, name := range names {
		s.steps = append(s.steps, StartupStep{Name: name})
	}
	return s
}

// SetCurrentStep updates the current initialization step
func (s *StartupStatus) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed and updates progress
func (s *StartupStatus) CompleteStep(stepName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.steps {
		if s.steps[i].Name == stepName {
			s.steps[i].Completed = true
			break
		}
	}

	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	if len(s.steps) > 0 {
		s.progress = (completed * 100) / len(s.steps)
	}
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
	s.progress = 100
}

// IsReady returns whether the server is fully initialized
func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

type readinessResponse struct {
	Ready    bool          `json:"ready"`
	Current  string        `json:"current"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps"`
}

// Readyz reports 200 once startup has finished and 503 before that
func (s *StartupStatus) Readyz(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	resp := readinessResponse{
		Ready:    s.ready,
		Current:  s.current,
		Progress: s.progress,
		Steps:    append([]StartupStep{}, s.steps...),
	}
	s.mu.RUnlock()

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Healthz reports that the process is serving
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
