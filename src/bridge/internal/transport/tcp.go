package transport

import (
	"context"
	"net"
	"sync"

	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
)

// dial connects to an already running server. Failures are reported as is, without retrying.
func (s *selector) dial(ctx context.Context, cfg entity.TransportConfig) (Connection, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address())
	if err != nil {
		return nil, &errors.TransportError{Transport: string(cfg.Kind), Op: "dial", Err: err}
	}
	s.logger.Infow("connected to language server", "address", cfg.Address())

	return &netConn{Conn: conn, kind: cfg.Kind}, nil
}

// netConn is a stream to a server the bridge did not spawn.
type netConn struct {
	net.Conn
	kind entity.TransportKind

	closeOnce sync.Once
	closeErr  error
}

func (c *netConn) Kind() entity.TransportKind { return c.kind }

func (c *netConn) Pid() int { return 0 }

// Close implements io.Closer.
func (c *netConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.Conn.Close()
	})
	return c.closeErr
}
