// Package rx provides the receive side of an oversampled serial line.
package rx

// A frame is one start bit (low), eight data bits sent least-significant
// bit first and one stop bit (high). The line idles high.
//
// The receiver has no bit clock from the sender. It re-derives bit
// boundaries by counting oversample strobes from the falling edge of the
// start bit and samples the line once per bit slot. The raw line is first
// passed through a two-stage Synchronizer so the decoding logic only ever
// sees a level registered in the local clock domain.
//
// Everything is modeled as one deterministic step per clock cycle:
// Receiver.Step consumes the raw line level and the strobe for that cycle
// and returns the Result visible after the clock edge.
