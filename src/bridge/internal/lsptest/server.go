// Package lsptest provides an in-process language server that records the traffic it receives.
package lsptest

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// ServerName is reported in the initialize result.
const ServerName = "microcad-lsp"

// HandlerFunc answers a call. The returned value is sent as the result.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Message is a single request or notification received by the server.
type Message struct {
	Method string
	Params json.RawMessage
	IsCall bool
}

// Server is a fake language server speaking JSON-RPC over a stream.
type Server struct {
	conn jsonrpc2.Conn

	mu       sync.Mutex
	messages []Message
	handlers map[string]HandlerFunc
}

// Option customizes the fake server.
type Option func(*Server)

// WithHandler overrides the answer for a call method.
func WithHandler(method string, fn HandlerFunc) Option {
	return func(s *Server) {
		s.handlers[method] = fn
	}
}

// Serve starts answering requests read from rwc until the stream closes, the exit notification arrives, or Close is called.
func Serve(rwc io.ReadWriteCloser, opts ...Option) *Server {
	s := &Server{
		handlers: map[string]HandlerFunc{
			protocol.MethodInitialize:              initialize,
			protocol.MethodShutdown:                empty,
			protocol.MethodWorkspaceExecuteCommand: ok,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn.Go(context.Background(), s.handle)
	return s
}

// Messages returns a copy of everything received so far, in arrival order.
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Message(nil), s.messages...)
}

// MessagesFor returns the received messages with the given method, in arrival order.
func (s *Server) MessagesFor(method string) []Message {
	var result []Message
	for _, m := range s.Messages() {
		if m.Method == method {
			result = append(result, m)
		}
	}
	return result
}

// Methods returns the method names received so far, in arrival order.
func (s *Server) Methods() []string {
	var result []string
	for _, m := range s.Messages() {
		result = append(result, m.Method)
	}
	return result
}

// Notify sends a notification to the client.
func (s *Server) Notify(ctx context.Context, method string, params interface{}) error {
	return s.conn.Notify(ctx, method, params)
}

// Close drops the connection, simulating a crashed server.
func (s *Server) Close() error {
	err := s.conn.Close()
	<-s.conn.Done()
	return err
}

// Done is closed once the connection has ended.
func (s *Server) Done() <-chan struct{} {
	return s.conn.Done()
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	_, isCall := req.(*jsonrpc2.Call)

	s.mu.Lock()
	s.messages = append(s.messages, Message{Method: req.Method(), Params: req.Params(), IsCall: isCall})
	handler, ok := s.handlers[req.Method()]
	s.mu.Unlock()

	if req.Method() == protocol.MethodExit {
		go s.conn.Close()
		return nil
	}

	if !isCall {
		return reply(ctx, nil, nil)
	}
	if !ok {
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
	result, err := handler(ctx, req.Params())
	return reply(ctx, result, err)
}

func initialize(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncKindFull,
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{"microcad.showPreview", "microcad.hidePreview"},
			},
		},
		ServerInfo: &protocol.ServerInfo{Name: ServerName, Version: "0.0.0-test"},
	}, nil
}

func empty(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return nil, nil
}

func ok(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return map[string]bool{"ok": true}, nil
}
