// Package trace captures bench signals and renders timing diagrams.
package trace

import (
	"sync"

	"github.com/robotalks/uart.go/pkg/sim"
)

// DefaultDepth is the capture depth used when Depth is zero.
const DefaultDepth = 4096

// Recorder is a Probe keeping the most recent cycles.
type Recorder struct {
	// Depth bounds the number of samples kept.
	Depth int
	// StrobesOnly skips cycles without a strobe.
	StrobesOnly bool

	lock    sync.Mutex
	samples []sim.Signals
	next    int
	full    bool
	paused  bool
}

// NewRecorder creates a Recorder.
func NewRecorder(depth int, strobesOnly bool) *Recorder {
	return &Recorder{Depth: depth, StrobesOnly: strobesOnly}
}

// Probe implements sim.Probe.
func (r *Recorder) Probe(s *sim.Signals) {
	if r.StrobesOnly && !s.Strobe {
		return
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.paused {
		return
	}
	depth := r.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	if len(r.samples) < depth {
		r.samples = append(r.samples, *s)
		return
	}
	r.samples[r.next] = *s
	r.next = (r.next + 1) % len(r.samples)
	r.full = true
}

// Samples returns the captured cycles, oldest first.
func (r *Recorder) Samples() []sim.Signals {
	r.lock.Lock()
	defer r.lock.Unlock()
	result := make([]sim.Signals, 0, len(r.samples))
	if r.full {
		result = append(result, r.samples[r.next:]...)
		return append(result, r.samples[:r.next]...)
	}
	return append(result, r.samples...)
}

// Pause stops or resumes capturing.
func (r *Recorder) Pause(paused bool) {
	r.lock.Lock()
	r.paused = paused
	r.lock.Unlock()
}

// Clear drops all samples.
func (r *Recorder) Clear() {
	r.lock.Lock()
	r.samples, r.next, r.full = nil, 0, false
	r.lock.Unlock()
}
