package sim

import (
	"sync"

	"github.com/robotalks/uart.go/pkg/uart/rx"
)

// Stats is a snapshot of bench counters.
type Stats struct {
	Cycles        uint64 `json:"cycles"`
	Strobes       uint64 `json:"strobes"`
	Frames        uint64 `json:"frames"`
	FramingErrors uint64 `json:"framing_errors"`
	// Glitches counts start bits rejected on confirmation.
	Glitches    uint64 `json:"glitches"`
	ResetCycles uint64 `json:"reset_cycles"`
	LastByte    byte   `json:"last_byte"`
	LastFrame   uint64 `json:"last_frame_cycle"`
	Phase       string `json:"phase"`
}

// Monitor keeps the bookkeeping the receiver itself does not.
type Monitor struct {
	lock  sync.RWMutex
	stats Stats
	prev  rx.Phase
}

// NewMonitor creates a Monitor.
func NewMonitor() *Monitor {
	return &Monitor{stats: Stats{Phase: rx.PhaseIdle.String()}}
}

// Probe implements Probe.
func (m *Monitor) Probe(s *Signals) {
	m.lock.Lock()
	defer m.lock.Unlock()
	st := &m.stats
	st.Cycles++
	if s.Strobe {
		st.Strobes++
	}
	if s.Reset {
		st.ResetCycles++
	} else if m.prev == rx.PhaseStart && s.State.Phase == rx.PhaseIdle {
		st.Glitches++
	}
	switch {
	case s.Result.Ready:
		st.Frames++
		st.LastByte, st.LastFrame = s.Result.Data, s.Cycle
	case s.Result.FramingError:
		st.FramingErrors++
		st.LastFrame = s.Cycle
	}
	m.prev = s.State.Phase
	st.Phase = m.prev.String()
}

// Stats gets a snapshot. It is safe to call from any goroutine.
func (m *Monitor) Stats() Stats {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.stats
}

// Reset clears all counters.
func (m *Monitor) Reset() {
	m.lock.Lock()
	m.stats = Stats{Phase: rx.PhaseIdle.String()}
	m.prev = rx.PhaseIdle
	m.lock.Unlock()
}
