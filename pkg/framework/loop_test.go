package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) ctl(name string) Controller {
	return ControlFunc(func(cc ControlContext) error {
		r.calls = append(r.calls, name)
		return nil
	})
}

func TestLoopPriorityOrder(t *testing.T) {
	var r recorder
	l := NewLoop()
	l.AddController(PrLvReceive, r.ctl("receive"))
	l.AddController(PrLvSource, r.ctl("source"))
	l.AddController(PrLvPostProc, r.ctl("post"))
	l.AddController(PrLvDrive, r.ctl("drive"), r.ctl("drive2"))
	l.Step()
	require.Equal(t, []string{"source", "drive", "drive2", "receive", "post"}, r.calls)
	require.Equal(t, uint64(1), l.Cycles())
}

func TestLoopCycleIndex(t *testing.T) {
	var cycles []uint64
	l := NewLoop()
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		cycles = append(cycles, cc.Cycle())
		return nil
	}))
	l.RunCycles(3)
	l.Step()
	require.Equal(t, []uint64{0, 1, 2, 3}, cycles)
	require.Equal(t, uint64(4), l.Cycles())
}

func TestLoopHooks(t *testing.T) {
	var r recorder
	l := NewLoop()
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		r.calls = append(r.calls, "ctl")
		if cc.Cycle() == 0 {
			cc.PostRun(r.ctl("post"))
		}
		return nil
	}))
	l.PreRunAt(PrLvNormal, r.ctl("pre"))
	l.RunCycles(2)
	require.Equal(t, []string{"pre", "ctl", "post", "ctl"}, r.calls)
}

func TestLoopControllerErrorContinues(t *testing.T) {
	var r recorder
	l := NewLoop()
	l.AddController(PrLvNormal, ControlFunc(func(ControlContext) error {
		return errors.New("failed")
	}), r.ctl("next"))
	l.Step()
	require.Equal(t, []string{"next"}, r.calls)
}

func TestLoopMessages(t *testing.T) {
	var seen []Message
	l := NewLoop()
	l.AddController(PrLvSource, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if n, ok := mc.CurrentMessage().(int); ok {
				mc.MessageTaken()
				mc.AddMessages(n * 10)
			}
		}))
		return nil
	}))
	l.AddController(PrLvReceive, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen = append(seen, mc.CurrentMessage())
			mc.MessageTaken()
		}))
		return nil
	}))

	l.PostMessage(1)
	l.PostMessage("a")
	l.PostMessage(2)
	require.Equal(t, 3, l.PendingMessages())
	l.Step()
	require.Zero(t, l.PendingMessages())
	require.Equal(t, []Message{"a", 10, 20}, seen)

	seen = nil
	l.Step()
	require.Empty(t, seen)
}

func TestLoopStopProcessing(t *testing.T) {
	var first, rest []Message
	l := NewLoop()
	l.AddController(PrLvSource, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			first = append(first, mc.CurrentMessage())
			mc.MessageTaken()
			mc.StopProcessing()
		}))
		return nil
	}))
	l.AddController(PrLvPostProc, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			rest = append(rest, mc.CurrentMessage())
		}))
		return nil
	}))
	l.PostMessage("x")
	l.PostMessage("y")
	l.PostMessage("z")
	l.Step()
	require.Equal(t, []Message{"x"}, first)
	require.Equal(t, []Message{"y", "z"}, rest)
}

type countRunner struct {
	started chan struct{}
}

func (r *countRunner) Run(ctx context.Context) error {
	close(r.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopRun(t *testing.T) {
	bg := &countRunner{started: make(chan struct{})}
	l := NewLoop()
	l.Batch = 16
	l.AddRunnable(bg)
	stop := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		if cc.Cycle() == 100 {
			close(stop)
		}
		return nil
	}))
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	<-bg.started
	<-stop
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.True(t, l.Cycles() > 100)
	require.Zero(t, l.Cycles()%16)
}

func TestLoopRunPaced(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Hour
	l.Batch = 5
	done := make(chan uint64, 1)
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		if cc.Cycle() == 4 {
			done <- cc.Cycle()
		}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	for {
		l.TriggerNext()
		select {
		case <-done:
			cancel()
			require.Equal(t, context.Canceled, <-errCh)
			require.Zero(t, l.Cycles()%5)
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestContextAccessors(t *testing.T) {
	l := NewLoop()
	var level int
	l.AddController(PrLvDrive, ControlFunc(func(cc ControlContext) error {
		level = CtlCtxFrom(cc.Context()).PriorityLevel()
		require.NotNil(t, LoopCtlFrom(cc.Context()))
		return nil
	}))
	l.Step()
	require.Equal(t, PrLvDrive, level)
}
