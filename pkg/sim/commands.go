package sim

import (
	"github.com/robotalks/uart.go/pkg/uart/tx"
)

// Commands accepted by a Bench through its loop.

// SendMsg queues bytes for transmission.
type SendMsg struct {
	Data []byte
}

// GlitchMsg forces the line low for a number of strobe periods,
// starting at the next period boundary. Zero means one period.
type GlitchMsg struct {
	Strobes int
}

// BreakMsg holds the line low. Zero means two frame lengths.
type BreakMsg struct {
	Strobes int
}

// CorruptStopMsg forces the stop bit of the next frame low.
type CorruptStopMsg struct{}

// ResetMsg holds the receiver in reset for a number of cycles.
// Zero means one cycle.
type ResetMsg struct {
	Cycles int
}

// DivisorMsg changes the strobe divisor.
type DivisorMsg struct {
	Divisor uint32
}

// TimingMsg changes the transmitter frame layout. It takes effect
// between frames.
type TimingMsg struct {
	Timing tx.Timing
}
