// Package instance keeps a single cmdpad running per user. The first process
// listens on a local socket; later launches connect, send Payload and exit,
// and every accepted connection asks the running process to toggle its
// visibility.
package instance

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

const (
	// Payload is the fixed message a second launch writes.
	Payload = "toggle"
	// DialTimeout bounds the probe for a running instance.
	DialTimeout = 100 * time.Millisecond

	readTimeout = 200 * time.Millisecond
	maxPayload  = 64
)

// Notify signals a running instance listening at path. It reports false with
// a nil error when nothing is listening. Once connected the running instance
// toggles whether or not the payload write succeeds, so sent is true even
// when err is not nil.
func Notify(path string, timeout time.Duration) (sent bool, err error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return false, nil
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return true, fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := conn.Write([]byte(Payload)); err != nil {
		return true, fmt.Errorf("write toggle: %w", err)
	}
	return true, nil
}

type Server struct {
	listener net.Listener
	path     string
	logger   *slog.Logger
	closed   atomic.Bool
}

// Listen binds the instance socket at path, replacing a stale socket file
// left by a process that did not shut down cleanly. Callers probe with
// Notify first.
func Listen(path string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	// Two launches racing past Notify can both get here; the last bind wins.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}

	return &Server{
		listener: ln,
		path:     path,
		logger:   logger.With("component", "instance"),
	}, nil
}

func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until Close, calling onToggle once per
// connection. It returns nil after Close.
func (s *Server) Serve(onToggle func()) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.drain(conn)
		onToggle()
	}
}

func (s *Server) drain(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		s.logger.Warn("set read deadline", "error", err)
		return
	}
	payload, err := io.ReadAll(io.LimitReader(conn, maxPayload))
	if err != nil {
		// A timeout still counts as a toggle request.
		s.logger.Debug("read toggle payload", "error", err)
	}
	s.logger.Debug("toggle requested", "payload", string(payload))
}

func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.listener.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
		err = rmErr
	}
	return err
}
