// Package ipc is the local control socket: newline-delimited JSON messages
// over a unix socket.
package ipc

import (
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultSocketPath = "/tmp/deskvox.sock"

const (
	CmdSay     = "say"
	CmdTrigger = "trigger"
)

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

type Server struct {
	ln      net.Listener
	path    string
	handler func(ControlMessage)

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// StartServer replaces any stale socket at path and serves until Close.
func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{
		ln:      ln,
		path:    path,
		handler: handler,
		conns:   make(map[net.Conn]struct{}),
	}

	s.wg.Add(1)
	go s.serve()

	return s, nil
}

func (s *Server) Addr() string { return s.path }

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("Failed to accept control connection", "err", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	dec := json.NewDecoder(conn)
	for {
		var msg ControlMessage
		if err := dec.Decode(&msg); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warn("Failed to decode control message", "err", err)
			}
			return
		}
		log.Debug("Control message", "cmd", msg.Cmd)
		s.handler(msg)
	}
}

// Close stops accepting, drops open connections, waits for handlers and
// removes the socket file.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	err := s.ln.Close()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	os.Remove(s.path)
	return err
}

func SendCommand(path string, msg ControlMessage) error {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
