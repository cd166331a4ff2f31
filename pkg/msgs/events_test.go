package msgs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/uart/rx"
)

func TestNewFrameEvent(t *testing.T) {
	require.Nil(t, NewFrameEvent(3, rx.Result{Data: 1}))

	e := NewFrameEvent(3, rx.Result{Ready: true, Data: 0x41})
	require.Equal(t, KindReady, e.Kind)
	require.Equal(t, byte(0x41), e.Byte())
	require.NoError(t, e.Err())

	e = NewFrameEvent(9, rx.Result{FramingError: true, Data: 0x41})
	require.Equal(t, KindFramingError, e.Kind)
	require.Equal(t, uint64(9), e.Cycle)
	require.Equal(t, rx.ErrFraming, e.Err())
}

func TestEncodeDecode(t *testing.T) {
	e := NewFramingError(1<<40, 0xfe)
	e.Source = "bench-1"
	data, err := e.Encode()
	require.NoError(t, err)

	d, err := DecodeFrameEvent(data)
	require.NoError(t, err)
	require.Equal(t, e.Cycle, d.Cycle)
	require.Equal(t, e.Kind, d.Kind)
	require.Equal(t, byte(0xfe), d.Byte())
	require.Equal(t, "bench-1", d.Source)

	_, err = DecodeFrameEvent([]byte{0xff})
	require.Error(t, err)
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(NewReady(12, 'A'))
	require.NoError(t, err)
	require.JSONEq(t, `{"cycle":12,"kind":"READY","data":65}`, string(data))

	var e FrameEvent
	require.NoError(t, json.Unmarshal([]byte(`{"cycle":5,"kind":"FRAMING_ERROR","data":7}`), &e))
	require.Equal(t, KindFramingError, e.Kind)
	require.Equal(t, byte(7), e.Byte())
	require.Error(t, json.Unmarshal([]byte(`{"kind":"LOST"}`), &e))
}

func TestString(t *testing.T) {
	require.Equal(t, "@12 0x41 'A'", NewReady(12, 'A').String())
	e := NewFramingError(3, 0)
	e.Source = "x"
	require.Equal(t, "x @3 framing error (last 0x00)", e.String())
}
