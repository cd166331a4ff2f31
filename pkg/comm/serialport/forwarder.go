// Package serialport forwards received bytes to a real serial line.
package serialport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"github.com/robotalks/uart.go/pkg/msgs"
)

// DefaultBuffer is the number of bytes queued before dropping.
const DefaultBuffer = 4096

// Open opens a link: "tcp://host:port" for a serial server on the
// network, otherwise a local device path such as /dev/ttyUSB0 or
// serial:///dev/ttyUSB0. Local ports use 8 data bits, no parity and one
// stop bit, the frame format of the bench.
func Open(link string, baud int) (io.ReadWriteCloser, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid link %q: %w", link, err)
	}
	switch u.Scheme {
	case "tcp":
		return net.Dial("tcp", u.Host)
	case "serial", "":
		return serial.OpenPort(&serial.Config{
			Name:     u.Path,
			Baud:     baud,
			Size:     8,
			Parity:   serial.ParityNone,
			StopBits: serial.Stop1,
		})
	}
	return nil, fmt.Errorf("unsupported link scheme %q", u.Scheme)
}

// Forwarder writes the byte of every correctly framed event to a port.
// Writes happen in Run so the bench loop never waits for the port.
type Forwarder struct {
	Port io.WriteCloser

	ch      chan byte
	dropped uint64
	written uint64
}

// NewForwarder creates a Forwarder.
func NewForwarder(port io.WriteCloser, buffer int) *Forwarder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Forwarder{Port: port, ch: make(chan byte, buffer)}
}

// FrameReceived implements sim.FrameListener.
func (f *Forwarder) FrameReceived(e *msgs.FrameEvent) {
	if e.Err() != nil {
		return
	}
	select {
	case f.ch <- e.Byte():
	default:
		atomic.AddUint64(&f.dropped, 1)
	}
}

// Dropped gets the number of bytes dropped because the port was too slow.
func (f *Forwarder) Dropped() uint64 {
	return atomic.LoadUint64(&f.dropped)
}

// Written gets the number of bytes written to the port.
func (f *Forwarder) Written() uint64 {
	return atomic.LoadUint64(&f.written)
}

// Run implements Runnable. Bytes already queued are written before the
// port is closed when ctx is done.
func (f *Forwarder) Run(ctx context.Context) error {
	defer f.Port.Close()
	buf := make([]byte, 0, cap(f.ch))
	for {
		select {
		case <-ctx.Done():
			if err := f.write(f.drain(buf[:0])); err != nil {
				return err
			}
			return ctx.Err()
		case b := <-f.ch:
			if err := f.write(f.drain(append(buf[:0], b))); err != nil {
				return err
			}
		}
	}
}

func (f *Forwarder) drain(buf []byte) []byte {
	for len(buf) < cap(buf) {
		select {
		case b := <-f.ch:
			buf = append(buf, b)
		default:
			return buf
		}
	}
	return buf
}

func (f *Forwarder) write(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := f.Port.Write(buf)
	atomic.AddUint64(&f.written, uint64(n))
	if err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	glog.V(3).Infof("forwarded %d bytes", n)
	return nil
}
