package pipeline

import (
	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/lib/payload"
	"sync"
	"sync/atomic"
)

// Params are the operator's inputs for an invocation
type Params struct {
	Template string `json:"template"`
	Count    int    `json:"count"`
}

// Session holds the operator's inputs and the result of the last invocation.
// It replaces ambient UI state: the pipeline reads the parameters from it and
// writes the result back. At most one invocation runs per session at a time.
type Session struct {
	mu     sync.RWMutex
	params Params
	last   *measure.MeasurementResult

	inFlight atomic.Bool
}

// NewSession creates a session with the default template and count
func NewSession() *Session {
	return &Session{
		params: Params{
			Template: payload.DefaultTemplate,
			Count:    payload.DefaultCount,
		},
	}
}

// NewSessionWith creates a session with the given inputs
func NewSessionWith(template string, count int) (*Session, error) {
	s := NewSession()
	s.SetTemplate(template)
	if err := s.SetCount(count); err != nil {
		return nil, err
	}
	return s, nil
}

// SetTemplate replaces the template text. It is validated when an invocation starts.
func (s *Session) SetTemplate(template string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Template = template
}

// SetCount replaces the replication count; counts outside the enumeration are rejected
func (s *Session) SetCount(count int) error {
	if err := payload.ValidateCount(count); err != nil {
		return &InputParseError{Field: "count", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Count = count
	return nil
}

// Params returns a copy of the current inputs
func (s *Session) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Last returns the result of the last invocation that produced measurements
func (s *Session) Last() (measure.MeasurementResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return measure.MeasurementResult{}, false
	}
	return *s.last, true
}

// InFlight reports whether an invocation is currently running
func (s *Session) InFlight() bool {
	return s.inFlight.Load()
}

// --------------------------------------------------------------------------
// Helper (used by the Runner)
// --------------------------------------------------------------------------

// acquire marks the session busy; false if it already was
func (s *Session) acquire() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

func (s *Session) release() {
	s.inFlight.Store(false)
}

// setLast replaces (never merges) the last result; nil clears it
func (s *Session) setLast(r *measure.MeasurementResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = r
}
