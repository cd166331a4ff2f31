package bench

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/uart.go/pkg/cli/sh"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/sim/trace"
	"github.com/robotalks/uart.go/pkg/uart/tx"
)

func optionalInt(c *ishell.Context, name string) (int, bool) {
	if len(c.Args) == 0 {
		return 0, true
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n < 0 {
		c.Err(fmt.Errorf("Invalid %s: %s", name, c.Args[0]))
		return 0, false
	}
	return n, true
}

// ParseTiming parses "decoder", "standard N" or "START/BIT/STOP".
func ParseTiming(args []string) (tx.Timing, error) {
	if len(args) == 0 {
		return tx.Timing{}, fmt.Errorf("timing required")
	}
	switch args[0] {
	case sim.TimingDecoder:
		return tx.DecoderTiming, nil
	case sim.TimingStandard:
		if len(args) < 2 {
			return tx.Timing{}, fmt.Errorf("strobes per bit required")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return tx.Timing{}, fmt.Errorf("Invalid strobes per bit: %v", err)
		}
		t := tx.StandardTiming(n)
		return t, t.Validate()
	}
	parts := strings.Split(args[0], "/")
	if len(parts) != 3 {
		return tx.Timing{}, fmt.Errorf("unknown timing %q", args[0])
	}
	var widths [3]int
	for n, part := range parts {
		val, err := strconv.Atoi(part)
		if err != nil {
			return tx.Timing{}, fmt.Errorf("Invalid width %q: %v", part, err)
		}
		widths[n] = val
	}
	t := tx.Timing{StartStrobes: widths[0], BitStrobes: widths[1], StopStrobes: widths[2]}
	return t, t.Validate()
}

// FormatStats prints Stats into friendly string for display.
func FormatStats(s sim.Stats) string {
	return fmt.Sprintf("cycles %d strobes %d frames %d errors %d glitches %d phase %s last %#02x@%d",
		s.Cycles, s.Strobes, s.Frames, s.FramingErrors, s.Glitches, s.Phase, s.LastByte, s.LastFrame)
}

var (
	// SendCmd exposes SendMsg with text.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"tx"},
		Help:    "TEXT...",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			sh.DoCommand(c, &sim.SendMsg{Data: []byte(strings.Join(c.Args, " "))})
		}),
	}

	// SendHexCmd exposes SendMsg with hex encoded bytes.
	SendHexCmd = ishell.Cmd{
		Name:    "hex",
		Aliases: []string{"x"},
		Help:    "HEX",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			data, err := hex.DecodeString(strings.Join(c.Args, ""))
			if err != nil || len(data) == 0 {
				c.Err(fmt.Errorf("Invalid HEX: %v", err))
				return
			}
			sh.DoCommand(c, &sim.SendMsg{Data: data})
		}),
	}

	// GlitchCmd exposes GlitchMsg.
	GlitchCmd = ishell.Cmd{
		Name:    "glitch",
		Aliases: []string{"g"},
		Help:    "[STROBES]",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if n, ok := optionalInt(c, "STROBES"); ok {
				sh.DoCommand(c, &sim.GlitchMsg{Strobes: n})
			}
		}),
	}

	// BreakCmd exposes BreakMsg.
	BreakCmd = ishell.Cmd{
		Name:    "break",
		Aliases: []string{"brk"},
		Help:    "[STROBES]",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if n, ok := optionalInt(c, "STROBES"); ok {
				sh.DoCommand(c, &sim.BreakMsg{Strobes: n})
			}
		}),
	}

	// CorruptStopCmd exposes CorruptStopMsg.
	CorruptStopCmd = ishell.Cmd{
		Name:    "corrupt",
		Aliases: []string{"cs"},
		Help:    "force the stop bit of the next frame low",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			sh.DoCommand(c, &sim.CorruptStopMsg{})
		}),
	}

	// ResetCmd exposes ResetMsg.
	ResetCmd = ishell.Cmd{
		Name:    "reset",
		Aliases: []string{"rst"},
		Help:    "[CYCLES]",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if n, ok := optionalInt(c, "CYCLES"); ok {
				sh.DoCommand(c, &sim.ResetMsg{Cycles: n})
			}
		}),
	}

	// DivisorCmd exposes DivisorMsg.
	DivisorCmd = ishell.Cmd{
		Name:    "divisor",
		Aliases: []string{"div"},
		Help:    "DIVISOR",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("DIVISOR required"))
				return
			}
			n, err := strconv.ParseUint(c.Args[0], 0, 32)
			if err != nil || n == 0 {
				c.Err(fmt.Errorf("Invalid DIVISOR: %s", c.Args[0]))
				return
			}
			sh.DoCommand(c, &sim.DivisorMsg{Divisor: uint32(n)})
		}),
	}

	// TimingCmd exposes TimingMsg.
	TimingCmd = ishell.Cmd{
		Name:    "timing",
		Aliases: []string{"t"},
		Help:    "decoder | standard N | START/BIT/STOP",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			timing, err := ParseTiming(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &sim.TimingMsg{Timing: timing})
		}),
	}

	// StatusCmd prints the bench counters.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			stats := s.Bench.Bench.Monitor.Stats()
			if s.OutputJSON {
				sh.Print(c, stats)
				return
			}
			c.Println(FormatStats(stats))
		}),
	}

	// TraceCmd saves the recent cycles as a timing diagram.
	TraceCmd = ishell.Cmd{
		Name:    "trace",
		Aliases: []string{"tr"},
		Help:    "FILE [CYCLES]",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			path := c.Args[0]
			c.Args = c.Args[1:]
			n, ok := optionalInt(c, "CYCLES")
			if !ok {
				return
			}
			samples := sh.ShellFrom(c).Bench.Recorder.Samples()
			if n > 0 && n < len(samples) {
				samples = samples[len(samples)-n:]
			}
			if len(samples) == 0 {
				c.Err(fmt.Errorf("nothing recorded"))
				return
			}
			if err := trace.NewPlot(path, samples).Save(path); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d cycles saved to %s\n", len(samples), path)
		}),
	}
)

func init() {
	sh.AddCmds(
		&SendCmd,
		&SendHexCmd,
		&GlitchCmd,
		&BreakCmd,
		&CorruptStopCmd,
		&ResetCmd,
		&DivisorCmd,
		&TimingCmd,
		&StatusCmd,
		&TraceCmd,
	)
}
