package jsonrpcfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/microcad-bridge/src/bridge/internal/serverinfofile"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyAddress = "jsonrpc.address"
	_outputKey        = "bridge-address"
)

// Module is an fx module to handle JSON-RPC requests.
var Module = fx.Provide(New)

// JSONRPCModule represents a module to manage JSON-RPC requests from editor hosts.
type JSONRPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	// Addr returns the address the module listens on once started.
	Addr() string
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
}

// Router serves as the interface through which handling of requests will be implemented.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager will manage each active connection and its corresponding Router throughout the lifecycle of a connection.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

type module struct {
	Address string `json:"address"`

	connectionMgr  ConnectionManager
	ln             net.Listener
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile

	mu      sync.Mutex
	conns   map[jsonrpc2.Conn]struct{}
	closing bool
	serving sync.WaitGroup
}

// Params define values to be used by JsonRpcHandler.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

// New creates a new server to handle JSON-RPC requests on the given port and host.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := module{
		logger:         p.Logger,
		serverInfoFile: p.ServerInfoFile,
		conns:          make(map[jsonrpc2.Conn]struct{}),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return &m, nil
}

// OnStart will start listening, publish the address in the server info file and then begin handling incoming connections.
func (m *module) OnStart(ctx context.Context) error {
	if err := m.setup(); err != nil {
		return err
	}

	if err := m.serverInfoFile.UpdateField(_outputKey, m.Addr()); err != nil {
		m.ln.Close()
		return fmt.Errorf("publishing address: %w", err)
	}

	// The editor host waits for this message before connecting.
	m.logger.Warnw("started JSON-RPC inbound", zap.String("address", m.Addr()))

	m.serving.Add(1)
	go m.serve()
	return nil
}

// OnStop stops accepting connections, closes every editor connection and waits for their cleanup to finish.
func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	if m.closing || m.ln == nil {
		m.mu.Unlock()
		return nil
	}
	m.closing = true
	err := m.ln.Close()
	for conn := range m.conns {
		conn.Close()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.serving.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the listening address, or the configured one before the module is started.
func (m *module) Addr() string {
	if m.ln == nil {
		return m.Address
	}
	return m.ln.Addr().String()
}

// ServeStream is called when a new connection is initiated. Requests received via the connection will be routed to the handler, and answered via the connection's replier.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	// Start handling the connection.
	handler, err := m.connectionMgr.NewConnection(ctx, &conn)
	if err != nil {
		return err
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", handler.UUID()))
	conn.Go(ctx, handler.HandleReq)

	// Block until the connection is closed.
	<-conn.Done()

	// Cleanup after connection.
	m.connectionMgr.RemoveConnection(ctx, handler.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", handler.UUID()))

	return conn.Err()
}

// RegisterConnectionManager sets the connection manager, which keeps track of current active connections and provides a Router implementation.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

// setup should be called after creation of a new handler to set initial values.
func (m *module) setup() error {
	if m.Address == "" {
		return errors.New("setup called before address is set")
	}

	addr, err := net.ResolveTCPAddr("tcp", m.Address)
	if err != nil {
		return err
	}

	m.ln, err = net.ListenTCP("tcp", addr)
	return err
}

// serve accepts connections until the listener is closed.
func (m *module) serve() {
	defer m.serving.Done()

	for {
		nc, err := m.ln.Accept()
		if err != nil {
			m.mu.Lock()
			closing := m.closing
			m.mu.Unlock()
			if !closing {
				m.logger.Errorw("JSON-RPC inbound stopped accepting connections", zap.Error(err))
			}
			return
		}

		conn := jsonrpc2.NewConn(jsonrpc2.NewStream(nc))
		if !m.track(conn) {
			conn.Close()
			continue
		}

		m.serving.Add(1)
		go func() {
			defer m.serving.Done()
			defer m.untrack(conn)

			if err := m.ServeStream(context.Background(), conn); err != nil && !m.isClosing() {
				m.logger.Warnw("serving connection", zap.Error(err))
			}
			conn.Close()
		}()
	}
}

func (m *module) track(conn jsonrpc2.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closing {
		return false
	}
	m.conns[conn] = struct{}{}
	return true
}

func (m *module) untrack(conn jsonrpc2.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.conns, conn)
}

func (m *module) isClosing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closing
}

// processConfig will parse the configuration for any values required by this module.
func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyAddress)
	if err := val.Populate(&m.Address); err != nil {
		// incorrectly formatted config
		return fmt.Errorf("getting config field %q: %w", _configKeyAddress, err)
	}

	if m.Address == "" {
		// yaml is missing either the key or value
		return fmt.Errorf("missing field %q in config", _configKeyAddress)
	}

	return nil
}
