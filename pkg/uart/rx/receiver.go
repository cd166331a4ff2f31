package rx

// Receiver is the complete receive path: a Synchronizer feeding a Decoder.
// The zero value is a receiver fresh out of reset.
type Receiver struct {
	sync    Synchronizer
	decoder Decoder
}

// Step advances the receiver by one clock cycle. raw is the asynchronous
// line level for this cycle and strobe the oversample strobe.
func (r *Receiver) Step(raw, strobe bool) Result {
	res := r.decoder.Step(r.sync.Level(), strobe)
	r.sync.Clock(raw)
	return res
}

// Reset forces the receiver into its reset state: Idle, counters and output
// byte cleared, synchronizer at the idle level.
func (r *Receiver) Reset() {
	r.decoder.Reset()
	r.sync.Reset()
}

// State gets the decoder register state.
func (r *Receiver) State() State {
	return r.decoder.State()
}

// Data gets the last successfully framed byte.
func (r *Receiver) Data() byte {
	return r.decoder.State().Data
}

// Line gets the synchronized line level the decoder currently sees.
func (r *Receiver) Line() bool {
	return r.sync.Level()
}
