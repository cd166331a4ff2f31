package sim

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/robotalks/uart.go/pkg/uart/tx"
)

// Timing presets.
const (
	TimingDecoder  = "decoder"
	TimingStandard = "standard"
)

// Config defines the bench setup.
type Config struct {
	// Divisor is the number of clock cycles per strobe.
	Divisor uint32 `toml:"divisor"`
	// Ratio is the number of strobes per bit-rate tick.
	Ratio uint32 `toml:"ratio"`
	// Timing selects the transmitter frame layout preset.
	Timing string `toml:"timing"`
	// BitStrobes is the bit width of the standard preset.
	BitStrobes int `toml:"bit_strobes"`
	// Custom overrides the preset when set.
	Custom *tx.Timing `toml:"custom_timing"`
	// Interval and Batch pace a free running bench.
	Interval time.Duration `toml:"interval"`
	Batch    int           `toml:"batch"`
	// MaxCycles bounds every settle of a scenario step.
	MaxCycles uint64 `toml:"max_cycles"`
	// ID is stamped on frame events.
	ID string `toml:"id"`
}

var defaultConfig = Config{
	Divisor:    4,
	Timing:     TimingDecoder,
	BitStrobes: 16,
	Batch:      256,
	MaxCycles:  1 << 24,
}

func init() {
	if val := os.Getenv("UART_DIVISOR"); val != "" {
		if n, err := strconv.ParseUint(val, 10, 32); err == nil {
			defaultConfig.Divisor = uint32(n)
		}
	}
	if val := os.Getenv("UART_TIMING"); val != "" {
		defaultConfig.Timing = val
	}
	if val := os.Getenv("UART_BENCH_ID"); val != "" {
		defaultConfig.ID = val
	}
}

type uint32Value struct {
	p *uint32
}

func (v uint32Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*v.p), 10)
}

func (v uint32Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return err
	}
	*v.p = uint32(n)
	return nil
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Var(uint32Value{&defaultConfig.Divisor}, "divisor", "Clock cycles per oversample strobe.")
	flag.Var(uint32Value{&defaultConfig.Ratio}, "ratio", "Strobes per bit-rate tick, 0 for one bit slot.")
	flag.StringVar(&defaultConfig.Timing, "timing", defaultConfig.Timing, "Transmitter timing: decoder or standard.")
	flag.IntVar(&defaultConfig.BitStrobes, "bit-strobes", defaultConfig.BitStrobes, "Strobes per bit for standard timing.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Pace of a free running bench, 0 for full speed.")
	flag.IntVar(&defaultConfig.Batch, "batch", defaultConfig.Batch, "Cycles evaluated per interval.")
	flag.Uint64Var(&defaultConfig.MaxCycles, "max-cycles", defaultConfig.MaxCycles, "Cycle budget for a bench to settle.")
	flag.StringVar(&defaultConfig.ID, "bench-id", defaultConfig.ID, "Source ID stamped on frame events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// TxTiming resolves the transmitter timing.
func (c *Config) TxTiming() (tx.Timing, error) {
	if c.Custom != nil {
		return *c.Custom, c.Custom.Validate()
	}
	switch c.Timing {
	case TimingDecoder, "":
		return tx.DecoderTiming, nil
	case TimingStandard:
		if c.BitStrobes <= 0 {
			return tx.Timing{}, fmt.Errorf("bit strobes must be positive: %d", c.BitStrobes)
		}
		return tx.StandardTiming(c.BitStrobes), nil
	}
	return tx.Timing{}, fmt.Errorf("unknown timing %q", c.Timing)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Divisor == 0 {
		errs = multierror.Append(errs, fmt.Errorf("divisor must be at least 1"))
	}
	if _, err := c.TxTiming(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.Interval < 0 {
		errs = multierror.Append(errs, fmt.Errorf("negative interval %v", c.Interval))
	}
	if c.Batch < 0 {
		errs = multierror.Append(errs, fmt.Errorf("negative batch %d", c.Batch))
	}
	return errs.ErrorOrNil()
}

// NewBench creates a Bench from the config.
func (c *Config) NewBench() (*Bench, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	timing, _ := c.TxTiming()
	b, err := NewBench(c.Divisor, c.Ratio, timing)
	if err != nil {
		return nil, err
	}
	b.ID, b.MaxCycles = c.ID, c.MaxCycles
	b.loop.Interval, b.loop.Batch = c.Interval, c.Batch
	return b, nil
}

// MustNewBench creates a Bench and fails on error.
func (c *Config) MustNewBench() *Bench {
	b, err := c.NewBench()
	if err != nil {
		log.Fatalln(err)
	}
	return b
}
