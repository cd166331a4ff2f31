package env

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/robotalks/uart.go/pkg/comm/mqtt"
	"github.com/robotalks/uart.go/pkg/comm/serialport"
	"github.com/robotalks/uart.go/pkg/comm/stream"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/monitor"
	"github.com/robotalks/uart.go/pkg/sim"
)

// Config selects where bench events go. Empty settings are disabled.
type Config struct {
	// ID identifies the bench on MQTT and in events.
	ID string
	// MQTTBrokerURL specifies the MQTT broker to publish to.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// EventLog is the file frame events are appended to.
	EventLog string
	// SerialLink receives every correctly framed byte.
	// e.g. /dev/ttyUSB0 or tcp://host:port
	SerialLink string
	SerialBaud int
	// MonitorAddr is the listen address of the HTTP monitor.
	MonitorAddr string
}

var defaultConfig = Config{
	SerialBaud: 115200,
}

func init() {
	defaultConfig.ID = MachineID()
	if val := os.Getenv("UART_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("UART_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("UART_SERIAL"); val != "" {
		defaultConfig.SerialLink = val
	}
	if val := os.Getenv("UART_SERIAL_BAUD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.SerialBaud = n
		}
	}
	if val := os.Getenv("UART_MONITOR_ADDR"); val != "" {
		defaultConfig.MonitorAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Bench ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.EventLog, "event-log", defaultConfig.EventLog, "File to record frame events")
	flag.StringVar(&defaultConfig.SerialLink, "serial", defaultConfig.SerialLink, "Serial port or tcp://host:port to forward received bytes")
	flag.IntVar(&defaultConfig.SerialBaud, "serial-baud", defaultConfig.SerialBaud, "Baud rate of the serial port")
	flag.StringVar(&defaultConfig.MonitorAddr, "monitor", defaultConfig.MonitorAddr, "HTTP monitor listen address, e.g. :8080")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env holds the outputs opened from a Config.
type Env struct {
	Config    *Config
	Queue     *mqtt.Queue
	Logger    *stream.Logger
	Forwarder *serialport.Forwarder
	Monitor   *monitor.Server

	listeners []sim.FrameListener
	runners   []fx.Runnable
}

// NewEnv opens every configured output for the bench and subscribes them
// to its frame events.
func (c *Config) NewEnv(b *sim.Bench) (env *Env, err error) {
	env = &Env{Config: c}
	defer func() {
		if err != nil {
			env.Close()
			env = nil
		}
	}()
	if c.MQTTBrokerURL != "" {
		if env.Queue, err = mqtt.NewQueueFromURL(c.MQTTBrokerURL); err != nil {
			return env, fmt.Errorf("create MQTT queue error: %w", err)
		}
		if token := env.Queue.Connect(); token.Wait() && token.Error() != nil {
			return env, fmt.Errorf("connect MQTT error: %w", token.Error())
		}
		env.listeners = append(env.listeners, mqtt.NewPublisher(env.Queue, c.ID))
	}
	if c.EventLog != "" {
		if env.Logger, err = stream.CreateLogger(c.EventLog); err != nil {
			return env, fmt.Errorf("create event log error: %w", err)
		}
		env.listeners = append(env.listeners, env.Logger)
	}
	if c.SerialLink != "" {
		var port io.ReadWriteCloser
		if port, err = serialport.Open(c.SerialLink, c.SerialBaud); err != nil {
			return env, fmt.Errorf("open serial error: %w", err)
		}
		env.Forwarder = serialport.NewForwarder(port, 0)
		env.listeners = append(env.listeners, env.Forwarder)
		env.runners = append(env.runners, fx.NamedRun("serial", env.Forwarder))
	}
	if c.MonitorAddr != "" {
		env.Monitor = monitor.NewServer(c.MonitorAddr, c.ID, b.Monitor, b)
		env.listeners = append(env.listeners, env.Monitor.Hub)
		env.runners = append(env.runners, env.Monitor)
	}
	for _, ln := range env.listeners {
		b.SubscribeFrames(ln)
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(b *sim.Bench) *Env {
	env, err := c.NewEnv(b)
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// AddToLoop implements LoopAdder. Background outputs run with the loop.
func (e *Env) AddToLoop(l *fx.Loop) {
	l.AddRunnable(e.runners...)
}

// Runners gets the background outputs, for running without a loop.
func (e *Env) Runners() []fx.Runnable {
	return e.runners
}

// Close releases every output.
func (e *Env) Close() error {
	var errs *multierror.Error
	if e.Logger != nil {
		if err := e.Logger.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if e.Queue != nil {
		if err := e.Queue.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
