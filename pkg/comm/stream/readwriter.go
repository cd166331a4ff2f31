// Package stream frames packets on a byte stream.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxPacketSize bounds the length accepted by ReadPacket.
const MaxPacketSize = 1 << 20

var (
	errNotReadable = errors.New("stream not readable")
	errNotWritable = errors.New("stream not writable")
)

// ReadWriter implements comm.PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	r io.Reader
	w io.Writer
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{r: s, w: s}
}

// NewReader creates a read-only ReadWriter.
func NewReader(r io.Reader) *ReadWriter {
	return &ReadWriter{r: r}
}

// NewWriter creates a write-only ReadWriter.
func NewWriter(w io.Writer) *ReadWriter {
	return &ReadWriter{w: w}
}

// ReadPacket implements comm.PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	if p.r == nil {
		return nil, errNotReadable
	}
	var hdr [4]byte
	if _, err := io.ReadFull(p.r, hdr[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(hdr[:])
	if size > MaxPacketSize {
		return nil, fmt.Errorf("packet too large: %d bytes", size)
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p.r, pkt); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements comm.PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if p.w == nil {
		return errNotWritable
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.w.Write(buf)
	return err
}
