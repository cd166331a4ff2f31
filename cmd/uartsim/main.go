package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/env"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/msgs"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/sim/trace"
)

var (
	scenarioFile string
	sendText     string
	sendHex      string
	plotFile     string
	plotDepth    = trace.DefaultDepth
	outputJSON   bool
)

func init() {
	sim.SetupFlags()
	env.SetupFlags()
	flag.StringVar(&scenarioFile, "scenario", scenarioFile, "TOML scenario to play.")
	flag.StringVar(&sendText, "send", sendText, "Text to send when no scenario is given.")
	flag.StringVar(&sendHex, "hex", sendHex, "Hex encoded bytes to send when no scenario is given.")
	flag.StringVar(&plotFile, "plot", plotFile, "Save a timing diagram of the last cycles, format from extension.")
	flag.IntVar(&plotDepth, "plot-depth", plotDepth, "Number of cycles in the timing diagram.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print events in JSON.")
}

func loadScenario() (*sim.Scenario, error) {
	if scenarioFile != "" {
		return sim.LoadScenario(scenarioFile, sim.Default())
	}
	s := &sim.Scenario{Bench: *sim.NewConfig()}
	if sendText != "" {
		s.Steps = append(s.Steps, sim.Step{Send: sendText})
	}
	if sendHex != "" {
		if _, err := hex.DecodeString(sendHex); err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
		s.Steps = append(s.Steps, sim.Step{Hex: sendHex})
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("nothing to do: -scenario, -send or -hex expected")
	}
	return s, s.Validate()
}

func printEvent(e *msgs.FrameEvent) {
	if !outputJSON {
		fmt.Println(e.String())
		return
	}
	out, err := json.Marshal(e)
	if err != nil {
		glog.Errorf("encode event error: %v", err)
		return
	}
	fmt.Println(string(out))
}

func run() error {
	scenario, err := loadScenario()
	if err != nil {
		return err
	}
	envConf := env.NewConfig()
	if scenario.Bench.ID == "" {
		scenario.Bench.ID = envConf.ID
	}
	b := scenario.Bench.MustNewBench()
	b.SubscribeFrames(sim.FrameListenerFunc(printEvent))
	var rec *trace.Recorder
	if plotFile != "" {
		rec = trace.NewRecorder(plotDepth, false)
		b.SubscribeProbe(rec)
	}

	e := envConf.MustNewEnv(b)
	defer func() {
		if err := e.Close(); err != nil {
			glog.Errorf("close outputs: %v", err)
		}
	}()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := fx.NewRunnerWith(ctx).HandleSignals()
	runner.Go(e.Runners()...)

	err = scenario.Run(runner.Context, b)
	if errors.Is(err, context.Canceled) {
		glog.Warningf("scenario interrupted: %v", err)
		err = nil
	}
	cancel()
	if runErr := runner.Wait(); err == nil {
		err = runErr
	}
	if err != nil {
		return err
	}

	stats := b.Monitor.Stats()
	glog.Infof("%d cycles, %d frames, %d framing errors, %d glitches",
		stats.Cycles, stats.Frames, stats.FramingErrors, stats.Glitches)
	if rec != nil {
		if err := trace.NewPlot(scenarioFile, rec.Samples()).Save(plotFile); err != nil {
			return err
		}
		glog.Infof("timing diagram saved to %s", plotFile)
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)
	defer glog.Flush()
	if err := run(); err != nil {
		glog.Flush()
		log.Println(err)
		os.Exit(1)
	}
}
