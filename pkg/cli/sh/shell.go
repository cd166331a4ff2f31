package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/env"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/msgs"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/sim/trace"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoStart   bool

	Shell  *ishell.Shell
	Config *sim.Config
	Env    *env.Config
	Bench  *BenchLoop

	watch int32
}

// BenchLoop is a free running bench with its outputs.
type BenchLoop struct {
	Ctx      context.Context
	Cancel   func()
	Bench    *sim.Bench
	Env      *env.Env
	Recorder *trace.Recorder

	done chan error
}

// DefaultInterval paces a bench started without an interval, so the
// shell stays responsive.
const DefaultInterval = time.Millisecond

const (
	shellKey       = "$shell"
	stoppedPrompt  = "[stopped] > "
	runningPrompt  = "%s > "
	defaultBenchID = "bench"
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&StartCmd,
		&StopCmd,
		&WatchCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *sim.Config, envConf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Env:    envConf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(stoppedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeRunning wraps command func requires a running bench.
func MustBeRunning(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Bench == nil {
			c.Err(fmt.Errorf("bench not running"))
			return
		}
		fn(c)
	}
}

// DoCommand posts a command to the running bench.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	s := ShellFrom(c)
	if s.Bench == nil {
		err := fmt.Errorf("bench not running")
		c.Err(err)
		return err
	}
	s.Bench.Bench.Post(msg)
	if s.OutputJSON {
		return Print(c, map[string]interface{}{
			"posted": reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		})
	}
	c.Println("OK")
	return nil
}

// Print writes v as JSON in JSON mode, otherwise with its default format.
func Print(c *ishell.Context, v interface{}) error {
	s := ShellFrom(c)
	if !s.OutputJSON {
		c.Println(v)
		return nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return err
	}
	c.Println(string(out))
	return nil
}

// WithAutoStart sets AutoStart.
func (s *Shell) WithAutoStart(en bool) *Shell {
	s.AutoStart = en
	return s
}

// Watching reports whether frame events are printed as they arrive.
func (s *Shell) Watching() bool {
	return atomic.LoadInt32(&s.watch) != 0
}

// SetWatch turns printing of frame events on or off.
func (s *Shell) SetWatch(en bool) {
	var val int32
	if en {
		val = 1
	}
	atomic.StoreInt32(&s.watch, val)
}

// FrameReceived implements sim.FrameListener.
func (s *Shell) FrameReceived(e *msgs.FrameEvent) {
	if !s.Watching() {
		return
	}
	if s.OutputJSON {
		if out, err := json.Marshal(e); err == nil {
			s.Shell.Println(string(out))
		}
		return
	}
	s.Shell.Println(e.String())
}

// Start creates a bench from the config and runs it in background. A
// running bench is stopped first.
func (s *Shell) Start() error {
	b, err := s.Config.NewBench()
	if err != nil {
		return err
	}
	if b.Loop().Interval <= 0 {
		b.Loop().Interval = DefaultInterval
	}
	if b.ID == "" {
		b.ID = s.Env.ID
	}
	if b.ID == "" {
		b.ID = defaultBenchID
	}
	// The previous bench releases its outputs before the new one opens them.
	if err := s.Stop(); err != nil {
		glog.Warningf("stop previous bench: %v", err)
	}
	bl := &BenchLoop{
		Bench:    b,
		Recorder: trace.NewRecorder(0, false),
		done:     make(chan error, 1),
	}
	if bl.Env, err = s.Env.NewEnv(b); err != nil {
		return err
	}
	b.SubscribeProbe(bl.Recorder)
	b.SubscribeFrames(s)
	bl.Env.AddToLoop(b.Loop())
	bl.Ctx, bl.Cancel = context.WithCancel(context.Background())
	s.Bench = bl
	go func() {
		bl.done <- b.Run(bl.Ctx)
	}()
	s.Shell.SetPrompt(fmt.Sprintf(runningPrompt, b.ID))
	return nil
}

// Stop stops the running bench and closes its outputs.
func (s *Shell) Stop() error {
	bl := s.Bench
	if bl == nil {
		return nil
	}
	s.Bench = nil
	s.Shell.SetPrompt(stoppedPrompt)
	bl.Cancel()
	err := <-bl.done
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if closeErr := bl.Env.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoStart {
		if err := s.Start(); err != nil {
			log.Fatalf("start bench failed: %v", err)
		}
		defer s.Stop()
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.SetWatch(true)
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// StartCmd starts a bench, replacing the running one.
	StartCmd = ishell.Cmd{
		Name:    "start",
		Aliases: []string{"s"},
		Help:    "start a free running bench",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Start(); err != nil {
				c.Err(err)
			}
		},
	}

	// StopCmd stops the running bench.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "stop the bench",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Stop(); err != nil {
				c.Err(err)
			}
		},
	}

	// WatchCmd toggles printing of frame events.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[on|off]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				s.SetWatch(!s.Watching())
			} else {
				switch c.Args[0] {
				case "on":
					s.SetWatch(true)
				case "off":
					s.SetWatch(false)
				default:
					c.Err(fmt.Errorf("on or off expected"))
					return
				}
			}
			c.Printf("watch %v\n", s.Watching())
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(sim.NewConfig(), env.NewConfig()).WithAutoStart(true).Run(flag.Args()...)
}
