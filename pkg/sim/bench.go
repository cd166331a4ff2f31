package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/msgs"
	"github.com/robotalks/uart.go/pkg/uart/rx"
	"github.com/robotalks/uart.go/pkg/uart/strobe"
	"github.com/robotalks/uart.go/pkg/uart/tx"
)

// ErrCycleBudget indicates the bench did not settle within the cycle budget.
var ErrCycleBudget = errors.New("cycle budget exhausted")

// Bench connects a strobe generator, a transmitter and a receiver through
// a fault injector. Each loop cycle is one clock cycle.
type Bench struct {
	// ID is stamped on every frame event as the source.
	ID string
	// MaxCycles is the default budget of RunUntilIdle.
	MaxCycles uint64

	Monitor *Monitor

	FrameCaster
	ProbeCaster

	loop *fx.Loop
	gen  *strobe.Generator
	tx   *tx.Transmitter
	rx   rx.Receiver

	queue         []byte
	pendingTiming *tx.Timing

	armedLow    int
	low         int
	periodStart bool

	corruptArmed bool
	corrupting   bool

	resetCycles int

	sig Signals
}

// NewBench creates a bench with its own loop.
func NewBench(divisor, ratio uint32, timing tx.Timing) (*Bench, error) {
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	gen, err := strobe.New(divisor, ratio)
	if err != nil {
		return nil, err
	}
	b := &Bench{
		Monitor:     NewMonitor(),
		gen:         gen,
		tx:          tx.New(timing),
		periodStart: true,
	}
	b.SubscribeProbe(b.Monitor)
	b.loop = fx.NewLoop()
	b.loop.Add(b)
	return b, nil
}

// AddToLoop implements LoopAdder.
func (b *Bench) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSource, fx.ControlFunc(b.source))
	l.AddController(fx.PrLvDrive, fx.ControlFunc(b.drive))
	l.AddController(fx.PrLvReceive, fx.ControlFunc(b.receive))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(b.probe))
}

// Loop gets the loop driving the bench.
func (b *Bench) Loop() *fx.Loop {
	return b.loop
}

// Post delivers a command on the next cycle. It is safe to call from any
// goroutine.
func (b *Bench) Post(msg fx.Message) {
	b.loop.PostMessage(msg)
}

// Send queues bytes for transmission.
func (b *Bench) Send(data ...byte) {
	b.Post(&SendMsg{Data: append([]byte(nil), data...)})
}

// Run runs the loop until ctx is done.
func (b *Bench) Run(ctx context.Context) error {
	return b.loop.Run(ctx)
}

// Idle reports nothing is left to transmit or inject and the receiver is
// waiting for a start bit. It must not be called while the loop is running.
func (b *Bench) Idle() bool {
	return b.loop.PendingMessages() == 0 &&
		len(b.queue) == 0 && b.pendingTiming == nil && !b.tx.Busy() &&
		b.armedLow == 0 && b.low == 0 && !b.corruptArmed &&
		b.resetCycles == 0 && b.rx.State().Phase == rx.PhaseIdle
}

// RunUntilIdle evaluates cycles until the bench stays idle long enough for
// the receiver to have seen the settled line. max 0 uses MaxCycles, and
// unlimited if that is 0 too. ctx is checked every fx.DefaultBatch cycles.
// It returns the number of cycles evaluated.
func (b *Bench) RunUntilIdle(ctx context.Context, max uint64) (uint64, error) {
	if max == 0 {
		max = b.MaxCycles
	}
	var n, quiet uint64
	for max == 0 || n < max {
		if n%fx.DefaultBatch == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		b.loop.Step()
		n++
		if !b.Idle() {
			quiet = 0
			continue
		}
		if quiet++; quiet > uint64(b.gen.Divisor())+rx.SyncStages {
			return n, nil
		}
	}
	return n, fmt.Errorf("bench not idle after %d cycles: %w", n, ErrCycleBudget)
}

// RunCycles evaluates n cycles, checking ctx every fx.DefaultBatch cycles.
func (b *Bench) RunCycles(ctx context.Context, n uint64) error {
	for n > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := uint64(fx.DefaultBatch)
		if n < batch {
			batch = n
		}
		b.loop.RunCycles(batch)
		n -= batch
	}
	return nil
}

// Divisor gets the current strobe divisor.
func (b *Bench) Divisor() uint32 {
	return b.gen.Divisor()
}

// Timing gets the transmitter frame layout.
func (b *Bench) Timing() tx.Timing {
	return b.tx.Timing
}

// Receiver exposes the receiver for inspection. It must not be used
// while the loop is running.
func (b *Bench) Receiver() *rx.Receiver {
	return &b.rx
}

func (b *Bench) source(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		if b.handle(mc.CurrentMessage()) {
			mc.MessageTaken()
		}
	}))
	p := b.gen.Clock()
	b.sig = Signals{Cycle: cc.Cycle(), Strobe: p.Strobe, Tick: p.Tick}
	return nil
}

func (b *Bench) handle(msg fx.Message) bool {
	switch m := msg.(type) {
	case *SendMsg:
		b.queue = append(b.queue, m.Data...)
		glog.V(2).Infof("send %d bytes, %d queued", len(m.Data), len(b.queue))
	case *GlitchMsg:
		n := m.Strobes
		if n <= 0 {
			n = 1
		}
		b.armedLow += n
		glog.V(2).Infof("glitch %d strobes", n)
	case *BreakMsg:
		n := m.Strobes
		if n <= 0 {
			n = 2 * b.tx.Timing.FrameStrobes()
		}
		b.armedLow += n
		glog.V(2).Infof("break %d strobes", n)
	case *CorruptStopMsg:
		b.corruptArmed = true
		glog.V(2).Info("corrupt next stop bit")
	case *ResetMsg:
		n := m.Cycles
		if n <= 0 {
			n = 1
		}
		b.resetCycles += n
		glog.V(2).Infof("reset %d cycles", n)
	case *DivisorMsg:
		if err := b.gen.SetDivisor(m.Divisor); err != nil {
			glog.Errorf("set divisor %d: %v", m.Divisor, err)
		} else {
			glog.V(1).Infof("divisor %d", m.Divisor)
		}
	case *TimingMsg:
		if err := m.Timing.Validate(); err != nil {
			glog.Errorf("set timing: %v", err)
		} else {
			timing := m.Timing
			b.pendingTiming = &timing
		}
	default:
		return false
	}
	return true
}

func (b *Bench) drive(cc fx.ControlContext) error {
	s := &b.sig
	if b.pendingTiming != nil && !b.tx.Busy() {
		b.tx.Timing, b.pendingTiming = *b.pendingTiming, nil
		glog.V(1).Infof("timing %+v", b.tx.Timing)
	}
	if b.pendingTiming == nil && len(b.queue) > 0 && b.tx.Load(b.queue[0]) == nil {
		b.queue = b.queue[1:]
	}
	out := b.tx.Step(s.Strobe)
	s.TxLine, s.TxPhase = out.Line, b.tx.Phase()

	raw := out.Line
	if out.Done {
		b.corrupting = false
	}
	if s.TxPhase == rx.PhaseStart && b.corruptArmed {
		b.corruptArmed, b.corrupting = false, true
	}
	if b.corrupting && s.TxPhase == rx.PhaseStop {
		raw = false
	}

	if b.periodStart && b.armedLow > 0 {
		b.low, b.armedLow = b.low+b.armedLow, 0
	}
	if b.low > 0 {
		raw = false
		if s.Strobe {
			b.low--
		}
	}
	b.periodStart = s.Strobe
	s.Raw = raw
	return nil
}

func (b *Bench) receive(cc fx.ControlContext) error {
	s := &b.sig
	s.Line = b.rx.Line()
	if b.resetCycles > 0 {
		b.resetCycles--
		b.rx.Reset()
		s.Reset = true
		s.Result = rx.Result{}
	} else {
		s.Result = b.rx.Step(s.Raw, s.Strobe)
	}
	s.State = b.rx.State()
	if e := msgs.NewFrameEvent(s.Cycle, s.Result); e != nil {
		e.Source = b.ID
		if e.Kind == msgs.KindFramingError {
			glog.V(2).Infof("cycle %d: framing error", s.Cycle)
		} else {
			glog.V(2).Infof("cycle %d: received %#02x", s.Cycle, s.Result.Data)
		}
		b.FrameReceived(e)
	}
	return nil
}

func (b *Bench) probe(cc fx.ControlContext) error {
	b.ProbeCaster.Probe(&b.sig)
	return nil
}
