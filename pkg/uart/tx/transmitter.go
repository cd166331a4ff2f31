// Package tx serializes bytes into framed line levels.
package tx

import (
	"errors"
	"fmt"

	"github.com/robotalks/uart.go/pkg/uart/rx"
)

// ErrBusy indicates a byte is already waiting to be sent.
var ErrBusy = errors.New("transmitter busy")

// Timing defines the width of each part of a frame in oversample strobes.
type Timing struct {
	StartStrobes int `toml:"start"`
	BitStrobes   int `toml:"bit"`
	StopStrobes  int `toml:"stop"`
}

// DecoderTiming lays out frames so that every sample taken by rx.Decoder
// falls in the middle of a bit window: the decoder confirms the start bit
// one slot after the edge, so the start bit is one and a half slots wide.
var DecoderTiming = Timing{
	StartStrobes: rx.SlotStrobes + rx.SlotStrobes/2,
	BitStrobes:   rx.SlotStrobes,
	StopStrobes:  rx.SlotStrobes,
}

// StandardTiming is a conventional sender with n strobes per bit.
func StandardTiming(n int) Timing {
	return Timing{StartStrobes: n, BitStrobes: n, StopStrobes: n}
}

// FrameStrobes is the length of one frame in strobes.
func (t Timing) FrameStrobes() int {
	return t.StartStrobes + rx.DataBits*t.BitStrobes + t.StopStrobes
}

// Validate checks every part has a positive width.
func (t Timing) Validate() error {
	if t.StartStrobes <= 0 || t.BitStrobes <= 0 || t.StopStrobes <= 0 {
		return fmt.Errorf("invalid timing %d/%d/%d: widths must be positive",
			t.StartStrobes, t.BitStrobes, t.StopStrobes)
	}
	return nil
}

// Output is the transmitter output for one clock cycle.
type Output struct {
	// Line is the level driven onto the line.
	Line bool
	// Done pulses on the cycle the stop bit of a frame completes.
	Done bool
}

// Transmitter is a strobe-driven shift-and-count sequencer.
type Transmitter struct {
	Timing Timing

	phase   rx.Phase
	count   int
	bit     int
	shift   byte
	pending byte
	loaded  bool
}

// New creates a Transmitter.
func New(timing Timing) *Transmitter {
	return &Transmitter{Timing: timing}
}

// Load queues a byte for transmission on the next strobe the line is free.
func (t *Transmitter) Load(b byte) error {
	if t.loaded {
		return ErrBusy
	}
	t.pending, t.loaded = b, true
	return nil
}

// Busy reports a frame in flight or waiting.
func (t *Transmitter) Busy() bool {
	return t.loaded || t.phase != rx.PhaseIdle
}

// Phase gets the part of the frame currently on the line.
func (t *Transmitter) Phase() rx.Phase {
	return t.phase
}

// Step advances by one clock cycle.
func (t *Transmitter) Step(strobe bool) (out Output) {
	if strobe {
		switch t.phase {
		case rx.PhaseStart:
			if t.count++; t.count >= t.Timing.StartStrobes {
				t.phase, t.count, t.bit = rx.PhaseData, 0, 0
			}
		case rx.PhaseData:
			if t.count++; t.count >= t.Timing.BitStrobes {
				t.count = 0
				t.shift >>= 1
				if t.bit == rx.DataBits-1 {
					t.phase = rx.PhaseStop
				} else {
					t.bit++
				}
			}
		case rx.PhaseStop:
			if t.count++; t.count >= t.Timing.StopStrobes {
				t.phase, t.count = rx.PhaseIdle, 0
				out.Done = true
			}
		}
		if t.phase == rx.PhaseIdle && t.loaded {
			t.phase, t.count = rx.PhaseStart, 0
			t.shift, t.loaded = t.pending, false
		}
	}
	out.Line = t.Line()
	return
}

// Line gets the level currently driven.
func (t *Transmitter) Line() bool {
	switch t.phase {
	case rx.PhaseStart:
		return false
	case rx.PhaseData:
		return t.shift&1 != 0
	}
	return true
}

// Reset abandons any frame in flight and drops the pending byte.
func (t *Transmitter) Reset() {
	*t = Transmitter{Timing: t.Timing}
}

// Waveform returns the line level for every strobe of one frame.
func Waveform(b byte, timing Timing) []bool {
	levels := make([]bool, 0, timing.FrameStrobes())
	for i := 0; i < timing.StartStrobes; i++ {
		levels = append(levels, false)
	}
	for n := uint(0); n < rx.DataBits; n++ {
		for i := 0; i < timing.BitStrobes; i++ {
			levels = append(levels, b&(1<<n) != 0)
		}
	}
	for i := 0; i < timing.StopStrobes; i++ {
		levels = append(levels, true)
	}
	return levels
}
