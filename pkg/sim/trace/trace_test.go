package trace

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart/tx"
)

func TestRecorderDepth(t *testing.T) {
	r := NewRecorder(3, false)
	for i := uint64(0); i < 5; i++ {
		r.Probe(&sim.Signals{Cycle: i})
	}
	samples := r.Samples()
	require.Len(t, samples, 3)
	require.Equal(t, uint64(2), samples[0].Cycle)
	require.Equal(t, uint64(4), samples[2].Cycle)

	r.Pause(true)
	r.Probe(&sim.Signals{Cycle: 5})
	require.Equal(t, uint64(4), r.Samples()[2].Cycle)
	r.Pause(false)
	r.Clear()
	require.Empty(t, r.Samples())
}

func TestRecorderStrobesOnly(t *testing.T) {
	r := NewRecorder(0, true)
	r.Probe(&sim.Signals{Cycle: 0})
	r.Probe(&sim.Signals{Cycle: 1, Strobe: true})
	samples := r.Samples()
	require.Len(t, samples, 1)
	require.Equal(t, uint64(1), samples[0].Cycle)
}

func recordFrames(t *testing.T) []sim.Signals {
	b, err := sim.NewBench(2, 0, tx.DecoderTiming)
	require.NoError(t, err)
	r := NewRecorder(0, false)
	b.SubscribeProbe(r)
	b.Send('U')
	b.Post(&sim.CorruptStopMsg{})
	b.Send('!')
	_, err = b.RunUntilIdle(context.Background(), 10000)
	require.NoError(t, err)
	return r.Samples()
}

func TestPlotSVG(t *testing.T) {
	p := NewPlot("frames", recordFrames(t))
	var buf bytes.Buffer
	require.NoError(t, p.WriteTo(&buf, "svg"))
	require.Contains(t, buf.String(), "<svg")

	require.Error(t, p.WriteTo(&buf, "nope"))
	require.Error(t, NewPlot("empty", nil).WriteTo(&buf, "svg"))
}

func TestPlotSave(t *testing.T) {
	dir, err := ioutil.TempDir("", "trace")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	p := NewPlot("frames", recordFrames(t))
	fn := filepath.Join(dir, "frames.png")
	require.NoError(t, p.Save(fn))
	info, err := os.Stat(fn)
	require.NoError(t, err)
	require.True(t, info.Size() > 0)

	require.Error(t, p.Save(filepath.Join(dir, "frames")))
}
