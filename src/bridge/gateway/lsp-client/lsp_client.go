// Package lspclient speaks the client side of the Language Server Protocol to the microcad language server.
package lspclient

import (
	"context"
	"io"
	"sync"

	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Client is a connection to the language server.
// Calls made while or after the connection closes fail with a SessionClosedError instead of waiting for a reply that will never come.
type Client interface {
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error
	ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error)
	// Notify sends a notification that has no typed method on protocol.Server, such as custom/activeFileChanged.
	Notify(ctx context.Context, method string, params interface{}) error

	// Done is closed once the connection has ended.
	Done() <-chan struct{}
	// Err returns the error that ended the connection, if any.
	Err() error
	// Close ends the connection and releases the underlying stream. It is safe to call more than once.
	Close() error
}

type client struct {
	conn   jsonrpc2.Conn
	server protocol.Server

	closeOnce sync.Once
	closeErr  error
}

// New starts a client on an established stream. Requests and notifications sent by the server are passed to handler on the read loop.
// The connection is not tied to the lifetime of ctx.
func New(ctx context.Context, rwc io.ReadWriteCloser, handler jsonrpc2.Handler, logger *zap.Logger) Client {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(context.WithoutCancel(ctx), handler)

	return &client{
		conn:   conn,
		server: protocol.ServerDispatcher(conn, logger),
	}
}

func (c *client) Initialize(ctx context.Context, params *protocol.InitializeParams) (result *protocol.InitializeResult, err error) {
	err = c.do(ctx, protocol.MethodInitialize, func(ctx context.Context) error {
		result, err = c.server.Initialize(ctx, params)
		return err
	})
	return result, err
}

func (c *client) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return c.do(ctx, protocol.MethodInitialized, func(ctx context.Context) error {
		return c.server.Initialized(ctx, params)
	})
}

func (c *client) Shutdown(ctx context.Context) error {
	return c.do(ctx, protocol.MethodShutdown, c.server.Shutdown)
}

func (c *client) Exit(ctx context.Context) error {
	return c.do(ctx, protocol.MethodExit, c.server.Exit)
}

func (c *client) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (result interface{}, err error) {
	err = c.do(ctx, protocol.MethodWorkspaceExecuteCommand, func(ctx context.Context) error {
		result, err = c.server.ExecuteCommand(ctx, params)
		return err
	})
	return result, err
}

func (c *client) Notify(ctx context.Context, method string, params interface{}) error {
	return c.do(ctx, method, func(ctx context.Context) error {
		return c.conn.Notify(ctx, method, params)
	})
}

func (c *client) Done() <-chan struct{} {
	return c.conn.Done()
}

func (c *client) Err() error {
	return c.conn.Err()
}

func (c *client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
		<-c.conn.Done()
	})
	return c.closeErr
}

// do runs a single exchange with the server under a context that is cancelled when the connection closes.
func (c *client) do(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	select {
	case <-c.conn.Done():
		return c.closedError()
	default:
	}

	callCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-c.conn.Done():
			cancel(c.closedError())
		case <-callCtx.Done():
		}
	}()

	if err := fn(callCtx); err != nil {
		if cause := context.Cause(callCtx); errors.IsSessionClosed(cause) {
			return cause
		}
		select {
		case <-c.conn.Done():
			return c.closedError()
		default:
		}
		return mapper.CallErrorToError(method, err)
	}
	return nil
}

func (c *client) closedError() error {
	return &errors.SessionClosedError{Cause: c.conn.Err()}
}
