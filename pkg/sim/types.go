package sim

import (
	"github.com/robotalks/uart.go/pkg/msgs"
	"github.com/robotalks/uart.go/pkg/uart/rx"
)

// Signals is everything observable on the bench during one clock cycle.
type Signals struct {
	Cycle  uint64
	Strobe bool
	Tick   bool
	// Reset is true while the receiver is held in reset.
	Reset bool
	// TxLine is the transmitter output before fault injection.
	TxLine  bool
	TxPhase rx.Phase
	// Raw is the level presented to the receiver input.
	Raw bool
	// Line is the synchronized level the decoder acted on.
	Line bool
	// State is the decoder state after the cycle.
	State  rx.State
	Result rx.Result
}

// Probe observes per-cycle signals. The Signals value is reused across
// cycles and must be copied to be retained.
type Probe interface {
	Probe(*Signals)
}

// ProbeFunc is the func form of Probe.
type ProbeFunc func(*Signals)

// Probe implements Probe.
func (f ProbeFunc) Probe(s *Signals) {
	f(s)
}

// FrameListener receives frame events from the loop goroutine.
type FrameListener interface {
	FrameReceived(*msgs.FrameEvent)
}

// FrameListenerFunc is the func form of FrameListener.
type FrameListenerFunc func(*msgs.FrameEvent)

// FrameReceived implements FrameListener.
func (f FrameListenerFunc) FrameReceived(e *msgs.FrameEvent) {
	f(e)
}

// FrameSubscriber accepts FrameListeners.
type FrameSubscriber interface {
	SubscribeFrames(FrameListener)
}

// ProbeSubscriber accepts Probes.
type ProbeSubscriber interface {
	SubscribeProbe(Probe)
}
