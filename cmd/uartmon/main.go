package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/robotalks/uart.go/pkg/comm"
	"github.com/robotalks/uart.go/pkg/comm/mqtt"
	"github.com/robotalks/uart.go/pkg/comm/stream"
	ws "github.com/robotalks/uart.go/pkg/comm/websocket"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/msgs"
)

var (
	mqttURL  = "mqtt://localhost:1883/uart/"
	benchID  = "+"
	logFile  string
	eventsWS string
)

func init() {
	if val := os.Getenv("UART_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&benchID, "id", benchID, "Bench ID to watch, + for all.")
	flag.StringVar(&logFile, "log", logFile, "Print events from a recorded event log instead.")
	flag.StringVar(&eventsWS, "ws", eventsWS, "Watch the events endpoint of a monitor instead, e.g. ws://host:port/events")
}

func printEvent(e *msgs.FrameEvent) {
	source := e.Source
	if source == "" {
		source = "-"
	}
	log.Printf("%s: %s", source, e)
}

func watchWebsocket(ctx context.Context, url string) error {
	origin := "http://localhost/"
	if strings.HasPrefix(url, "wss://") {
		origin = "https://localhost/"
	}
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return err
	}
	rw := ws.New(conn, true)
	return fx.RunWithContextCloser(ctx, conn, func() error {
		for {
			e, err := comm.ReadEvent(rw, comm.EncodingJSON)
			if err != nil {
				return err
			}
			printEvent(e)
		}
	})
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	switch {
	case logFile != "":
		if err := stream.ReadLog(logFile, func(e *msgs.FrameEvent) error {
			printEvent(e)
			return nil
		}); err != nil {
			log.Fatalln(err)
		}
		return
	case eventsWS != "":
		runner := fx.NewRunner().HandleSignals()
		err := watchWebsocket(runner.Context, eventsWS)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalln(err)
		}
		return
	}

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(fmt.Errorf("connect %s: %w", mqttURL, token.Error()))
	}
	mqtt.SubscribeEvents(q, benchID, printEvent)
	<-(chan struct{})(nil)
}
