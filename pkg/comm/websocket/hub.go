package websocket

import (
	"io"
	"io/ioutil"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/uart.go/pkg/comm"
	"github.com/robotalks/uart.go/pkg/msgs"
)

// DefaultBuffer is the number of events queued per client.
const DefaultBuffer = 256

// Hub broadcasts frame events to every connected client. A client that
// falls behind loses events instead of stalling the bench.
type Hub struct {
	Encoding comm.Encoding
	Buffer   int

	lock    sync.RWMutex
	clients map[chan []byte]struct{}
	dropped uint64
	done    chan struct{}
	closed  bool
}

// NewHub creates a Hub sending JSON text frames.
func NewHub() *Hub {
	return &Hub{Encoding: comm.EncodingJSON, Buffer: DefaultBuffer}
}

// FrameReceived implements sim.FrameListener.
func (h *Hub) FrameReceived(e *msgs.FrameEvent) {
	pkt, err := comm.EncodeEvent(e, h.Encoding)
	if err != nil {
		glog.Errorf("encode event: %v", err)
		return
	}
	h.lock.RLock()
	defer h.lock.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- pkt:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
}

// Clients gets the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// Dropped gets the number of events dropped for slow clients.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// Close disconnects every client. Clients connecting afterwards are
// turned away.
func (h *Hub) Close() error {
	h.lock.Lock()
	defer h.lock.Unlock()
	if !h.closed {
		h.closed = true
		close(h.doneCh())
	}
	return nil
}

// doneCh must be called with lock held.
func (h *Hub) doneCh() chan struct{} {
	if h.done == nil {
		h.done = make(chan struct{})
	}
	return h.done
}

func (h *Hub) add() (chan []byte, <-chan struct{}) {
	size := h.Buffer
	if size <= 0 {
		size = DefaultBuffer
	}
	ch := make(chan []byte, size)
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.closed {
		return nil, h.doneCh()
	}
	if h.clients == nil {
		h.clients = make(map[chan []byte]struct{})
	}
	h.clients[ch] = struct{}{}
	return ch, h.doneCh()
}

func (h *Hub) remove(ch chan []byte) {
	h.lock.Lock()
	delete(h.clients, ch)
	h.lock.Unlock()
}

// Handler serves one websocket client until it disconnects.
func (h *Hub) Handler() websocket.Handler {
	return func(conn *websocket.Conn) {
		defer conn.Close()
		ch, done := h.add()
		if ch == nil {
			return
		}
		defer h.remove(ch)
		glog.V(1).Infof("events client %s connected", conn.Request().RemoteAddr)

		closed := make(chan struct{})
		go func() {
			io.Copy(ioutil.Discard, conn)
			close(closed)
		}()

		rw := New(conn, h.Encoding == comm.EncodingJSON)
		for {
			select {
			case <-closed:
				glog.V(1).Infof("events client %s disconnected", conn.Request().RemoteAddr)
				return
			case <-done:
				glog.V(1).Infof("events client %s closed", conn.Request().RemoteAddr)
				return
			case pkt := <-ch:
				if err := rw.WritePacket(pkt); err != nil {
					glog.V(1).Infof("events client %s: %v", conn.Request().RemoteAddr, err)
					return
				}
			}
		}
	}
}
