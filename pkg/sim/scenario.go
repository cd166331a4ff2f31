package sim

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	fx "github.com/robotalks/uart.go/pkg/framework"
)

// Scenario is a scripted bench run loaded from TOML:
//
//	[bench]
//	divisor = 4
//	timing = "decoder"
//
//	[[step]]
//	send = "hello"
//
//	[[step]]
//	glitch = 1
type Scenario struct {
	Bench Config `toml:"bench"`
	Steps []Step `toml:"step"`
}

// Step is one action followed by running the bench until it is idle.
type Step struct {
	Send        string `toml:"send"`
	Hex         string `toml:"hex"`
	Glitch      int    `toml:"glitch"`
	Break       int    `toml:"break"`
	CorruptStop bool   `toml:"corrupt_stop"`
	Reset       int    `toml:"reset"`
	Divisor     uint32 `toml:"divisor"`
	// Idle runs a fixed number of cycles instead of settling.
	Idle uint64 `toml:"idle"`
}

// LoadScenario reads a scenario file. Settings absent from the file keep
// their values from base.
func LoadScenario(path string, base *Config) (*Scenario, error) {
	s := &Scenario{Bench: *base}
	md, err := toml.DecodeFile(path, s)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return s, s.check(md)
}

// ParseScenario parses scenario text.
func ParseScenario(text string, base *Config) (*Scenario, error) {
	s := &Scenario{Bench: *base}
	md, err := toml.Decode(text, s)
	if err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return s, s.check(md)
}

func (s *Scenario) check(md toml.MetaData) error {
	var errs *multierror.Error
	for _, key := range md.Undecoded() {
		errs = multierror.Append(errs, fmt.Errorf("unknown key %q", key.String()))
	}
	if err := s.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// Validate reports every invalid setting and step.
func (s *Scenario) Validate() error {
	var errs *multierror.Error
	if err := s.Bench.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	for n := range s.Steps {
		if _, err := s.Steps[n].Messages(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("step %d: %w", n+1, err))
		}
	}
	return errs.ErrorOrNil()
}

// Messages converts the step into bench commands.
func (s *Step) Messages() ([]fx.Message, error) {
	var result []fx.Message
	if s.Send != "" {
		result = append(result, &SendMsg{Data: []byte(s.Send)})
	}
	if s.Hex != "" {
		data, err := hex.DecodeString(strings.Join(strings.Fields(s.Hex), ""))
		if err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
		result = append(result, &SendMsg{Data: data})
	}
	if s.Glitch < 0 || s.Break < 0 || s.Reset < 0 {
		return nil, fmt.Errorf("negative duration")
	}
	if s.Glitch > 0 {
		result = append(result, &GlitchMsg{Strobes: s.Glitch})
	}
	if s.Break > 0 {
		result = append(result, &BreakMsg{Strobes: s.Break})
	}
	if s.CorruptStop {
		result = append(result, &CorruptStopMsg{})
	}
	if s.Reset > 0 {
		result = append(result, &ResetMsg{Cycles: s.Reset})
	}
	if s.Divisor > 0 {
		result = append(result, &DivisorMsg{Divisor: s.Divisor})
	}
	if len(result) == 0 && s.Idle == 0 {
		return nil, fmt.Errorf("no action")
	}
	if s.CorruptStop && s.Send == "" && s.Hex == "" {
		return nil, fmt.Errorf("corrupt_stop needs data to send")
	}
	return result, nil
}

// Run plays every step on the bench. ctx is checked between steps and
// between batches of cycles.
func (s *Scenario) Run(ctx context.Context, b *Bench) error {
	for n := range s.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step %d: %w", n+1, err)
		}
		step := &s.Steps[n]
		cmds, err := step.Messages()
		if err != nil {
			return fmt.Errorf("step %d: %w", n+1, err)
		}
		for _, cmd := range cmds {
			b.Post(cmd)
		}
		if len(cmds) == 0 {
			if err := b.RunCycles(ctx, step.Idle); err != nil {
				return fmt.Errorf("step %d: %w", n+1, err)
			}
			continue
		}
		cycles, err := b.RunUntilIdle(ctx, 0)
		if err != nil {
			return fmt.Errorf("step %d: %w", n+1, err)
		}
		glog.V(1).Infof("step %d settled after %d cycles", n+1, cycles)
		if err := b.RunCycles(ctx, step.Idle); err != nil {
			return fmt.Errorf("step %d: %w", n+1, err)
		}
	}
	return nil
}
