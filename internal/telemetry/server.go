// Package telemetry streams aircraft state to registered UDP clients as
// delimited text records. The server polls the simulation at a configured
// rate; it never mutates it.
package telemetry

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/falconsim/falconsim/internal/dynamics"
)

// Update rate bounds, Hz.
const (
	MinRate = 1.0
	MaxRate = 100.0
)

// Source is the read-only view of the simulation the server samples. The sim
// driver satisfies it.
type Source interface {
	GetState() dynamics.State
	GetControls() dynamics.Controls
}

// Server broadcasts telemetry records over UDP. Clients join either through
// AddClient or by sending a "REGISTER" datagram to the listen port;
// "UNREGISTER" removes the sender.
type Server struct {
	source Source
	port   int

	mu      sync.Mutex
	rate    float64
	clients map[string]*net.UDPAddr
	running bool

	conn        *net.UDPConn
	samplerDone chan struct{}
	readerDone  chan struct{}
}

// NewServer returns a stopped server sampling from source. The rate is
// clamped to [MinRate, MaxRate] Hz.
func NewServer(source Source, port int, rate float64) *Server {
	return &Server{
		source:  source,
		port:    port,
		rate:    clampRate(rate),
		clients: make(map[string]*net.UDPAddr),
	}
}

func clampRate(rate float64) float64 {
	if rate < MinRate {
		return MinRate
	}
	if rate > MaxRate {
		return MaxRate
	}
	return rate
}

// SetUpdateRate changes the broadcast rate, clamped to [MinRate, MaxRate].
// Takes effect on the next sample.
func (s *Server) SetUpdateRate(rate float64) {
	s.mu.Lock()
	s.rate = clampRate(rate)
	s.mu.Unlock()
}

// Rate returns the current broadcast rate in Hz.
func (s *Server) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// AddClient registers a destination address. Duplicates are ignored.
func (s *Server) AddClient(addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("telemetry: resolve client %q: %w", addr, err)
	}
	s.mu.Lock()
	s.clients[udpAddr.String()] = udpAddr
	s.mu.Unlock()
	return nil
}

// RemoveClient drops a destination address. Unknown addresses are a no-op.
func (s *Server) RemoveClient(addr string) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.clients, udpAddr.String())
	s.mu.Unlock()
}

// ClientCount returns the number of registered clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Addr returns the bound listen address, or nil while stopped. With port 0
// this is how callers learn the kernel-chosen port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Start binds the UDP socket and spawns the sampler and registration reader
// goroutines. Starting a running server is a no-op.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: s.port})
	if err != nil {
		return fmt.Errorf("telemetry: listen on port %d: %w", s.port, err)
	}

	s.conn = conn
	s.running = true
	s.samplerDone = make(chan struct{})
	s.readerDone = make(chan struct{})
	go s.sampleLoop(s.samplerDone)
	go s.readLoop(s.readerDone)
	return nil
}

// Stop closes the socket and joins both goroutines. Idempotent.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	conn := s.conn
	s.conn = nil
	samplerDone, readerDone := s.samplerDone, s.readerDone
	s.mu.Unlock()

	conn.Close() // unblocks the reader
	<-samplerDone
	<-readerDone
}

// sampleLoop polls the source and broadcasts one record per period until
// stopped.
func (s *Server) sampleLoop(done chan struct{}) {
	defer close(done)

	for {
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		conn := s.conn
		period := time.Duration(float64(time.Second) / s.rate)
		targets := make([]*net.UDPAddr, 0, len(s.clients))
		for _, addr := range s.clients {
			targets = append(targets, addr)
		}
		s.mu.Unlock()

		rec := NewRecord(
			float64(time.Now().UnixNano())/1e9,
			s.source.GetState(),
			s.source.GetControls(),
		)
		payload := []byte(rec.Marshal())

		for _, addr := range targets {
			// Best effort; a gone client is not the sim's problem.
			conn.WriteToUDP(payload, addr)
		}

		time.Sleep(period)
	}
}

// readLoop consumes registration datagrams until the socket closes.
func (s *Server) readLoop(done chan struct{}) {
	defer close(done)

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	buf := make([]byte, 64)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		switch strings.ToUpper(strings.TrimSpace(string(buf[:n]))) {
		case "REGISTER":
			s.mu.Lock()
			s.clients[addr.String()] = addr
			s.mu.Unlock()
		case "UNREGISTER":
			s.mu.Lock()
			delete(s.clients, addr.String())
			s.mu.Unlock()
		}
	}
}
