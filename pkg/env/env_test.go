package env

import (
	"context"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/comm/stream"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/msgs"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart/tx"
)

func TestMachineID(t *testing.T) {
	require.NotEmpty(t, MachineID())
	require.NotEmpty(t, Default().ID)
}

func TestNewEnvDisabled(t *testing.T) {
	b, err := sim.NewBench(1, 0, tx.DecoderTiming)
	require.NoError(t, err)
	e, err := (&Config{}).NewEnv(b)
	require.NoError(t, err)
	require.Nil(t, e.Queue)
	require.Nil(t, e.Logger)
	require.Nil(t, e.Forwarder)
	require.Nil(t, e.Monitor)
	require.Empty(t, e.Runners())
	require.NoError(t, e.Close())
}

func TestNewEnvInvalid(t *testing.T) {
	b, err := sim.NewBench(1, 0, tx.DecoderTiming)
	require.NoError(t, err)
	_, err = (&Config{MQTTBrokerURL: "mqtt://%zz"}).NewEnv(b)
	require.Error(t, err)
	_, err = (&Config{SerialLink: "ftp://x"}).NewEnv(b)
	require.Error(t, err)
	_, err = (&Config{EventLog: filepath.Join("no", "such", "dir", "log")}).NewEnv(b)
	require.Error(t, err)
}

func TestEnvOutputs(t *testing.T) {
	dir, err := ioutil.TempDir("", "env")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf, _ := ioutil.ReadAll(conn)
		received <- buf
	}()

	b, err := sim.NewBench(2, 0, tx.DecoderTiming)
	require.NoError(t, err)
	conf := &Config{
		ID:          "env",
		EventLog:    filepath.Join(dir, "events.log"),
		SerialLink:  "tcp://" + ln.Addr().String(),
		MonitorAddr: "127.0.0.1:0",
	}
	e, err := conf.NewEnv(b)
	require.NoError(t, err)
	require.NotNil(t, e.Monitor)
	require.Len(t, e.Runners(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	runner := fx.NewRunnerWith(ctx).Go(e.Forwarder)
	b.Send('h', 'i')
	_, err = b.RunUntilIdle(ctx, 0)
	require.NoError(t, err)
	for e.Forwarder.Written() < 2 {
		select {
		case <-received:
			t.Fatal("serial connection closed early")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	require.NoError(t, runner.Wait())
	require.Equal(t, []byte("hi"), <-received)

	require.NoError(t, e.Close())
	var events []*msgs.FrameEvent
	require.NoError(t, stream.ReadLog(conf.EventLog, func(ev *msgs.FrameEvent) error {
		events = append(events, ev)
		return nil
	}))
	require.Len(t, events, 2)
	require.Equal(t, byte('i'), events[1].Byte())
}
