package rx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	testCases := []struct {
		name   string
		state  State
		line   bool
		strobe bool
		expect State
		result Result
	}{
		{
			name:   "hold without strobe",
			state:  State{Phase: PhaseData, Sub: 3, Bit: 2, Shift: 0x40, Data: 9},
			line:   false,
			expect: State{Phase: PhaseData, Sub: 3, Bit: 2, Shift: 0x40, Data: 9},
			result: Result{Data: 9},
		},
		{
			name:   "idle stays on high",
			state:  State{Phase: PhaseIdle},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseIdle},
		},
		{
			name:   "idle clears counters",
			state:  State{Phase: PhaseIdle, Sub: 5, Bit: 6},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseIdle},
		},
		{
			name:   "idle detects edge",
			state:  State{Phase: PhaseIdle},
			line:   false,
			strobe: true,
			expect: State{Phase: PhaseStart},
		},
		{
			name:   "start counts",
			state:  State{Phase: PhaseStart, Sub: 2},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseStart, Sub: 3},
		},
		{
			name:   "start confirmed",
			state:  State{Phase: PhaseStart, Sub: 7},
			line:   false,
			strobe: true,
			expect: State{Phase: PhaseData},
		},
		{
			name:   "start glitch rejected",
			state:  State{Phase: PhaseStart, Sub: 7},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseIdle},
		},
		{
			name:   "data counts",
			state:  State{Phase: PhaseData, Sub: 0, Bit: 1},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseData, Sub: 1, Bit: 1},
		},
		{
			name:   "data samples high",
			state:  State{Phase: PhaseData, Sub: 7, Bit: 0, Shift: 0x00},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseData, Sub: 0, Bit: 1, Shift: 0x80},
		},
		{
			name:   "data samples low and shifts",
			state:  State{Phase: PhaseData, Sub: 7, Bit: 3, Shift: 0x80},
			line:   false,
			strobe: true,
			expect: State{Phase: PhaseData, Sub: 0, Bit: 4, Shift: 0x40},
		},
		{
			name:   "last data bit",
			state:  State{Phase: PhaseData, Sub: 7, Bit: 7, Shift: 0x02},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseStop, Shift: 0x81},
		},
		{
			name:   "stop counts",
			state:  State{Phase: PhaseStop, Sub: 6, Shift: 0x81},
			line:   false,
			strobe: true,
			expect: State{Phase: PhaseStop, Sub: 7, Shift: 0x81},
		},
		{
			name:   "stop valid",
			state:  State{Phase: PhaseStop, Sub: 7, Shift: 0x81, Data: 0x10},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseIdle, Shift: 0x81, Data: 0x81},
			result: Result{Ready: true, Data: 0x81},
		},
		{
			name:   "stop low",
			state:  State{Phase: PhaseStop, Sub: 7, Shift: 0x81, Data: 0x10},
			line:   false,
			strobe: true,
			expect: State{Phase: PhaseIdle, Shift: 0x81, Data: 0x10},
			result: Result{FramingError: true, Data: 0x10},
		},
		{
			name:   "invalid phase behaves as idle",
			state:  State{Phase: Phase(9), Sub: 4, Bit: 2},
			line:   false,
			strobe: true,
			expect: State{Phase: PhaseStart},
		},
		{
			name:   "invalid phase returns to idle",
			state:  State{Phase: Phase(0xff), Sub: 4},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseIdle},
		},
		{
			name:   "out of range counter wraps",
			state:  State{Phase: PhaseData, Sub: 15},
			line:   true,
			strobe: true,
			expect: State{Phase: PhaseData, Sub: 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, r := Next(tc.state, tc.line, tc.strobe)
			require.Equal(t, tc.expect, s)
			require.Equal(t, tc.result, r)
		})
	}
}

func TestNextStrobesPerSlot(t *testing.T) {
	s := State{Phase: PhaseStart}
	for n := 1; n < SlotStrobes; n++ {
		s, _ = Next(s, false, true)
		require.Equalf(t, PhaseStart, s.Phase, "strobe %d", n)
	}
	s, _ = Next(s, false, true)
	require.Equal(t, PhaseData, s.Phase)
}

func TestResultErr(t *testing.T) {
	require.NoError(t, Result{}.Err())
	require.NoError(t, Result{Ready: true}.Err())
	require.Equal(t, ErrFraming, Result{FramingError: true}.Err())
}

func TestPhaseString(t *testing.T) {
	for p, name := range map[Phase]string{
		PhaseIdle:  "idle",
		PhaseStart: "start",
		PhaseData:  "data",
		PhaseStop:  "stop",
		Phase(7):   "invalid",
	} {
		t.Run(fmt.Sprintf("%d", p), func(t *testing.T) {
			require.Equal(t, name, p.String())
		})
	}
}

func TestDecoderReset(t *testing.T) {
	var d Decoder
	d.Step(false, true)
	require.Equal(t, PhaseStart, d.State().Phase)
	d.Reset()
	require.Equal(t, State{}, d.State())
}
