package sim

import (
	"github.com/robotalks/uart.go/pkg/msgs"
)

// FrameCaster provides a subscriber and implements
// listener to cast frame events.
type FrameCaster struct {
	listeners []FrameListener
}

// SubscribeFrames implements FrameSubscriber.
func (c *FrameCaster) SubscribeFrames(ln FrameListener) {
	c.listeners = append(c.listeners, ln)
}

// FrameReceived implements FrameListener.
func (c *FrameCaster) FrameReceived(e *msgs.FrameEvent) {
	for _, ln := range c.listeners {
		ln.FrameReceived(e)
	}
}

// ProbeCaster fans per-cycle signals out to probes.
type ProbeCaster struct {
	probes []Probe
}

// SubscribeProbe implements ProbeSubscriber.
func (c *ProbeCaster) SubscribeProbe(p Probe) {
	c.probes = append(c.probes, p)
}

// Probe implements Probe.
func (c *ProbeCaster) Probe(s *Signals) {
	for _, p := range c.probes {
		p.Probe(s)
	}
}
