package rx

// Phase is the protocol state of the decoder.
type Phase uint8

// Phases, in frame order.
const (
	PhaseIdle  Phase = iota // waiting for a falling edge
	PhaseStart              // edge seen, confirming the start bit
	PhaseData               // sampling data bits
	PhaseStop               // sampling the stop bit
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStart:
		return "start"
	case PhaseData:
		return "data"
	case PhaseStop:
		return "stop"
	}
	return "invalid"
}

// Timing constants of the decoder.
const (
	// SampleThreshold is the sub-bit count at which the line is sampled.
	SampleThreshold uint8 = 7
	// SlotStrobes is the effective width of one bit slot in strobes. The
	// sub-bit counter clears when it hits the threshold, so a slot is
	// SampleThreshold+1 strobes wide.
	SlotStrobes = int(SampleThreshold) + 1
	// DataBits is the number of payload bits in a frame.
	DataBits = 8

	counterMask uint8 = 7
	lastBit     uint8 = DataBits - 1
)

// State is the complete register state of the decoder.
type State struct {
	Phase Phase
	// Sub counts strobes within the current bit slot.
	Sub uint8
	// Bit counts data bits already sampled.
	Bit uint8
	// Shift accumulates data bits, newest at the most significant end.
	Shift byte
	// Data is the last successfully framed byte.
	Data byte
}

// Result is what the decoder presents after one clock cycle.
type Result struct {
	// Ready is true only on the cycle a frame completes with a valid stop bit.
	Ready bool
	// FramingError is true only on the cycle a stop bit is sampled low.
	FramingError bool
	// Data is the last successfully framed byte.
	Data byte
}

// Err returns ErrFraming if the result carries a framing error.
func (r Result) Err() error {
	if r.FramingError {
		return ErrFraming
	}
	return nil
}

// Next computes the state and outputs after one clock cycle, given the
// synchronized line level and whether the oversample strobe is asserted.
func Next(s State, line, strobe bool) (State, Result) {
	r := Result{Data: s.Data}
	if !strobe {
		return s, r
	}
	switch s.Phase {
	case PhaseStart:
		if s.Sub != SampleThreshold {
			s.Sub = (s.Sub + 1) & counterMask
			break
		}
		s.Sub, s.Bit = 0, 0
		if line {
			s.Phase = PhaseIdle
		} else {
			s.Phase = PhaseData
		}
	case PhaseData:
		if s.Sub != SampleThreshold {
			s.Sub = (s.Sub + 1) & counterMask
			break
		}
		s.Sub = 0
		s.Shift >>= 1
		if line {
			s.Shift |= 0x80
		}
		if s.Bit == lastBit {
			s.Bit = 0
			s.Phase = PhaseStop
		} else {
			s.Bit = (s.Bit + 1) & counterMask
		}
	case PhaseStop:
		if s.Sub != SampleThreshold {
			s.Sub = (s.Sub + 1) & counterMask
			break
		}
		if line {
			s.Data = s.Shift
			r.Data, r.Ready = s.Data, true
		} else {
			r.FramingError = true
		}
		s.Sub = 0
		s.Phase = PhaseIdle
	default:
		// PhaseIdle, and any value outside the known phases.
		s.Sub, s.Bit = 0, 0
		if line {
			s.Phase = PhaseIdle
		} else {
			s.Phase = PhaseStart
		}
	}
	return s, r
}

// Decoder is the strobe-gated frame decoder.
type Decoder struct {
	state State
}

// State gets the current register state.
func (d *Decoder) State() State {
	return d.state
}

// Step advances the decoder by one clock cycle.
func (d *Decoder) Step(line, strobe bool) (r Result) {
	d.state, r = Next(d.state, line, strobe)
	return
}

// Reset returns the decoder to Idle with all registers cleared.
func (d *Decoder) Reset() {
	d.state = State{}
}
