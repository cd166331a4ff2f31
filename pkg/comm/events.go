package comm

import (
	"encoding/json"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/msgs"
)

// EncodeEvent serializes an event.
func EncodeEvent(e *msgs.FrameEvent, enc Encoding) ([]byte, error) {
	if enc == EncodingJSON {
		return json.Marshal(e)
	}
	return e.Encode()
}

// DecodeEvent parses an event.
func DecodeEvent(data []byte, enc Encoding) (*msgs.FrameEvent, error) {
	if enc == EncodingJSON {
		e := &msgs.FrameEvent{}
		if err := json.Unmarshal(data, e); err != nil {
			return nil, err
		}
		return e, nil
	}
	return msgs.DecodeFrameEvent(data)
}

// ReadEvent reads one event packet.
func ReadEvent(r PacketReader, enc Encoding) (*msgs.FrameEvent, error) {
	pkt, err := r.ReadPacket()
	if err != nil {
		return nil, err
	}
	return DecodeEvent(pkt, enc)
}

// EventWriter is a frame listener writing every event as one packet.
// Write errors are kept and reported by Err; events after the first
// error are dropped.
type EventWriter struct {
	Writer   PacketWriter
	Encoding Encoding

	lock sync.Mutex
	err  error
}

// NewEventWriter creates an EventWriter.
func NewEventWriter(w PacketWriter, enc Encoding) *EventWriter {
	return &EventWriter{Writer: w, Encoding: enc}
}

// FrameReceived implements sim.FrameListener.
func (w *EventWriter) FrameReceived(e *msgs.FrameEvent) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.err != nil {
		return
	}
	pkt, err := EncodeEvent(e, w.Encoding)
	if err == nil {
		err = w.Writer.WritePacket(pkt)
	}
	if err != nil {
		glog.Errorf("write event: %v", err)
		w.err = err
	}
}

// Err gets the first write error.
func (w *EventWriter) Err() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.err
}
