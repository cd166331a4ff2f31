package msgs

import (
	"encoding/json"
	"fmt"

	"github.com/golang/protobuf/proto"

	pb "github.com/robotalks/uart.go/pkg/proto/uart/v1"
	"github.com/robotalks/uart.go/pkg/uart/rx"
)

// Event kinds.
const (
	KindReady        = pb.FrameEvent_READY
	KindFramingError = pb.FrameEvent_FRAMING_ERROR
)

// FrameEvent reports one stop bit sampled by the receiver.
type FrameEvent struct {
	pb.FrameEvent
}

// NewFrameEvent creates a FrameEvent from a decoder result. It returns nil
// if the result carries no pulse.
func NewFrameEvent(cycle uint64, r rx.Result) *FrameEvent {
	switch {
	case r.Ready:
		return NewReady(cycle, r.Data)
	case r.FramingError:
		return NewFramingError(cycle, r.Data)
	}
	return nil
}

// NewReady creates an event for a correctly framed byte.
func NewReady(cycle uint64, data byte) *FrameEvent {
	return &FrameEvent{FrameEvent: pb.FrameEvent{
		Cycle: cycle,
		Kind:  KindReady,
		Data:  uint32(data),
	}}
}

// NewFramingError creates an event for a stop bit sampled low. last is the
// last good byte, which the receiver keeps presenting.
func NewFramingError(cycle uint64, last byte) *FrameEvent {
	return &FrameEvent{FrameEvent: pb.FrameEvent{
		Cycle: cycle,
		Kind:  KindFramingError,
		Data:  uint32(last),
	}}
}

// Byte gets the data byte.
func (e *FrameEvent) Byte() byte {
	return byte(e.Data)
}

// Err returns rx.ErrFraming for framing errors.
func (e *FrameEvent) Err() error {
	if e.Kind == KindFramingError {
		return rx.ErrFraming
	}
	return nil
}

// Serializable gets the wire message.
func (e *FrameEvent) Serializable() proto.Message {
	return &e.FrameEvent
}

// Encode serializes the event.
func (e *FrameEvent) Encode() ([]byte, error) {
	return proto.Marshal(&e.FrameEvent)
}

// DecodeFrameEvent parses an encoded event.
func DecodeFrameEvent(data []byte) (*FrameEvent, error) {
	e := &FrameEvent{}
	if err := proto.Unmarshal(data, &e.FrameEvent); err != nil {
		return nil, fmt.Errorf("decode frame event: %w", err)
	}
	if e.Data > 0xff {
		return nil, fmt.Errorf("decode frame event: data %#x out of range", e.Data)
	}
	return e, nil
}

// String formats the event for logs and terminals.
func (e *FrameEvent) String() string {
	prefix := ""
	if e.Source != "" {
		prefix = e.Source + " "
	}
	if e.Kind == KindFramingError {
		return fmt.Sprintf("%s@%d framing error (last %#02x)", prefix, e.Cycle, e.Data)
	}
	return fmt.Sprintf("%s@%d %#02x %q", prefix, e.Cycle, e.Data, rune(e.Data))
}

type jsonEvent struct {
	Cycle  uint64 `json:"cycle"`
	Kind   string `json:"kind"`
	Data   byte   `json:"data"`
	Source string `json:"source,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *FrameEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonEvent{
		Cycle:  e.Cycle,
		Kind:   e.Kind.String(),
		Data:   e.Byte(),
		Source: e.Source,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *FrameEvent) UnmarshalJSON(data []byte) error {
	var v jsonEvent
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	kind, ok := pb.FrameEvent_Kind_value[v.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", v.Kind)
	}
	e.FrameEvent = pb.FrameEvent{
		Cycle:  v.Cycle,
		Kind:   pb.FrameEvent_Kind(kind),
		Data:   uint32(v.Data),
		Source: v.Source,
	}
	return nil
}
