// Package strobe derives the oversample strobe and the bit-rate tick from
// the system clock.
package strobe

import (
	"errors"

	"github.com/robotalks/uart.go/pkg/uart/rx"
)

// ErrInvalidDivisor indicates a divisor of zero.
var ErrInvalidDivisor = errors.New("divisor must be at least 1")

// Pulse is the output of the generator for one clock cycle.
type Pulse struct {
	// Strobe is the oversample strobe.
	Strobe bool
	// Tick is the bit-rate tick, coincident with every Ratio-th strobe.
	Tick bool
}

// Generator counts clock cycles against a divisor.
type Generator struct {
	divisor uint32
	ratio   uint32
	count   uint32
	strobes uint32
}

// New creates a Generator. ratio 0 selects rx.SlotStrobes.
func New(divisor, ratio uint32) (*Generator, error) {
	if divisor == 0 {
		return nil, ErrInvalidDivisor
	}
	if ratio == 0 {
		ratio = uint32(rx.SlotStrobes)
	}
	return &Generator{divisor: divisor, ratio: ratio}, nil
}

// Divisor gets the current divisor.
func (g *Generator) Divisor() uint32 {
	return g.divisor
}

// Ratio gets the number of strobes per tick.
func (g *Generator) Ratio() uint32 {
	return g.ratio
}

// SetDivisor changes the strobe period at runtime.
func (g *Generator) SetDivisor(divisor uint32) error {
	if divisor == 0 {
		return ErrInvalidDivisor
	}
	g.divisor = divisor
	if g.count >= divisor {
		g.count = 0
	}
	return nil
}

// Clock advances by one clock cycle.
func (g *Generator) Clock() (p Pulse) {
	if g.count+1 < g.divisor {
		g.count++
		return
	}
	g.count = 0
	p.Strobe = true
	if g.strobes+1 < g.ratio {
		g.strobes++
		return
	}
	g.strobes = 0
	p.Tick = true
	return
}

// Reset restarts the count, keeping divisor and ratio.
func (g *Generator) Reset() {
	g.count, g.strobes = 0, 0
}
