package bench

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart/tx"
)

func TestParseTiming(t *testing.T) {
	testCases := []struct {
		args   []string
		timing tx.Timing
		fail   bool
	}{
		{args: []string{"decoder"}, timing: tx.DecoderTiming},
		{args: []string{"standard", "16"}, timing: tx.StandardTiming(16)},
		{args: []string{"12/8/9"}, timing: tx.Timing{StartStrobes: 12, BitStrobes: 8, StopStrobes: 9}},
		{args: nil, fail: true},
		{args: []string{"standard"}, fail: true},
		{args: []string{"standard", "0"}, fail: true},
		{args: []string{"12/8"}, fail: true},
		{args: []string{"12/x/8"}, fail: true},
		{args: []string{"12/0/8"}, fail: true},
	}
	for _, tc := range testCases {
		timing, err := ParseTiming(tc.args)
		if tc.fail {
			require.Errorf(t, err, "%v", tc.args)
			continue
		}
		require.NoErrorf(t, err, "%v", tc.args)
		require.Equal(t, tc.timing, timing)
	}
}

func TestFormatStats(t *testing.T) {
	require.Equal(t,
		"cycles 100 strobes 50 frames 2 errors 1 glitches 0 phase idle last 0x41@82",
		FormatStats(sim.Stats{
			Cycles:        100,
			Strobes:       50,
			Frames:        2,
			FramingErrors: 1,
			LastByte:      'A',
			LastFrame:     82,
			Phase:         "idle",
		}))
}
