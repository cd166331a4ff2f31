// Package monitor serves bench status and live frame events over HTTP.
package monitor

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/robotalks/uart.go/pkg/comm/websocket"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// MaxSendSize bounds the body of a send request.
const MaxSendSize = 64 << 10

// StatsSource provides bench counters.
type StatsSource interface {
	Stats() sim.Stats
}

// Commander accepts bench commands.
type Commander interface {
	Post(fx.Message)
}

// Status is the response of GET /status.
type Status struct {
	ID      string    `json:"id"`
	Stats   sim.Stats `json:"stats"`
	Clients int       `json:"clients"`
}

// Server exposes a bench over HTTP:
//
//	GET  /status                 bench counters
//	GET  /events                 websocket stream of frame events
//	POST /send                   transmit the request body
//	POST /glitch/{strobes}       pull the line low
//	POST /reset                  reset the receiver
type Server struct {
	Addr string
	ID   string

	Stats     StatsSource
	Commander Commander
	Hub       *websocket.Hub

	router *mux.Router
}

// NewServer creates a Server.
func NewServer(addr, id string, stats StatsSource, cmds Commander) *Server {
	s := &Server{
		Addr:      addr,
		ID:        id,
		Stats:     stats,
		Commander: cmds,
		Hub:       websocket.NewHub(),
		router:    mux.NewRouter(),
	}
	s.router.HandleFunc("/status", s.status).Methods(http.MethodGet)
	s.router.Handle("/events", s.Hub.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/send", s.send).Methods(http.MethodPost)
	s.router.HandleFunc("/glitch/{strobes:[0-9]+}", s.glitch).Methods(http.MethodPost)
	s.router.HandleFunc("/reset", s.reset).Methods(http.MethodPost)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Name implements Named.
func (s *Server) Name() string {
	return "monitor"
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("monitor listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve serves on the listener until ctx is done. Event streams are
// hijacked connections Shutdown does not track, so the hub drops them.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s}
	srv.RegisterOnShutdown(func() { s.Hub.Close() })
	return fx.RunWithContextCancel(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}, func() error {
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.V(1).Infof("write response: %v", err)
	}
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &Status{ID: s.ID, Stats: s.Stats.Stats(), Clients: s.Hub.Clients()})
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	data, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxSendSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}
	s.Commander.Post(&sim.SendMsg{Data: data})
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) glitch(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["strobes"])
	if err != nil || n <= 0 {
		http.Error(w, "invalid strobes", http.StatusBadRequest)
		return
	}
	s.Commander.Post(&sim.GlitchMsg{Strobes: n})
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.Commander.Post(&sim.ResetMsg{})
	w.WriteHeader(http.StatusAccepted)
}
