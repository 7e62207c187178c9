// Package session owns the single connection to the microcad language server and drives its lifecycle.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	notifier "github.com/uber/microcad-bridge/src/bridge/gateway/editor-client"
	lspclient "github.com/uber/microcad-bridge/src/bridge/gateway/lsp-client"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/internal/serverinfofile"
	"github.com/uber/microcad-bridge/src/bridge/internal/transport"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	editorstate "github.com/uber/microcad-bridge/src/bridge/repository/editor-state"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_infoKeySessionState = "session:state"
	_infoKeySessionID    = "session:id"

	_msgUnexpectedExit = "The microcad language server stopped unexpectedly. Reload the window to restart it."
)

// Controller manages the language server session.
// At most one session exists at a time, and no message is sent to the server unless it is running.
type Controller interface {
	// Start connects to the language server and performs the initialize handshake.
	// While running, the existing session is returned. Concurrent callers share a single attempt.
	Start(ctx context.Context) (*entity.Session, error)
	// Stop sends shutdown and exit, then releases the transport. Failures are logged, never returned.
	Stop(ctx context.Context) error
	// CurrentSession returns the running session, or nil.
	CurrentSession() *entity.Session
	State() entity.SessionState
	// DocumentSelector returns the selector recorded on every session.
	DocumentSelector() entity.DocumentSelector

	// ExecuteCommand sends workspace/executeCommand to the running session.
	ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error)
	// Notify sends a notification to the running session.
	Notify(ctx context.Context, method string, params interface{}) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Selector       transport.Selector
	EditorState    editorstate.Repository
	EditorGateway  notifier.Gateway
	ServerInfoFile serverinfofile.ServerInfoFile
}

type controller struct {
	transportConfig entity.TransportConfig
	sessionConfig   entity.SessionConfig
	selector        entity.DocumentSelector

	transport      transport.Selector
	editorState    editorstate.Repository
	editorGateway  notifier.Gateway
	serverInfoFile serverinfofile.ServerInfoFile
	logger         *zap.SugaredLogger
	stats          tally.Scope
	newClient      func(ctx context.Context, conn transport.Connection, handler jsonrpc2.Handler) lspclient.Client

	mu       sync.Mutex
	state    entity.SessionState
	active   *activeSession
	attempt  *startAttempt
	stopping chan struct{}
}

type activeSession struct {
	session   *entity.Session
	client    lspclient.Client
	release   chan struct{}
	watchDone chan struct{}
}

type startAttempt struct {
	done    chan struct{}
	cancel  context.CancelFunc
	session *entity.Session
	err     error
}

// New creates a new session controller. The session is stopped when the application stops.
func New(p Params) (Controller, error) {
	c := &controller{
		transport:      p.Selector,
		editorState:    p.EditorState,
		editorGateway:  p.EditorGateway,
		serverInfoFile: p.ServerInfoFile,
		logger:         p.Logger.With("component", "session"),
		stats:          p.Stats.SubScope("session"),
	}

	if err := p.Config.Get(entity.TransportConfigKey).Populate(&c.transportConfig); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.TransportConfigKey, err)
	}
	if err := p.Config.Get(entity.SessionConfigKey).Populate(&c.sessionConfig); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.SessionConfigKey, err)
	}
	if err := p.Config.Get(entity.DocumentSelectorConfigKey).Populate(&c.selector); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.DocumentSelectorConfigKey, err)
	}

	clientLogger := p.Logger.Desugar().Named("lsp-client")
	c.newClient = func(ctx context.Context, conn transport.Connection, handler jsonrpc2.Handler) lspclient.Client {
		return lspclient.New(ctx, conn, handler, clientLogger)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: c.Stop,
	})
	return c, nil
}

func (c *controller) Start(ctx context.Context) (*entity.Session, error) {
	for {
		c.mu.Lock()
		if c.active != nil {
			s := c.active.session
			c.mu.Unlock()
			return s, nil
		}

		if c.stopping != nil {
			stopping := c.stopping
			c.mu.Unlock()
			select {
			case <-stopping:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		a := c.attempt
		if a == nil {
			a = c.beginAttempt()
		}
		c.mu.Unlock()

		select {
		case <-a.done:
			return a.session, a.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// beginAttempt must be called with c.mu held.
func (c *controller) beginAttempt() *startAttempt {
	// Detached from the caller: server messages must reach every editor, not the one that started the session.
	attemptCtx, cancel := context.WithCancel(context.Background())
	a := &startAttempt{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	c.attempt = a
	c.setState(entity.SessionStarting, nil)

	go c.runAttempt(attemptCtx, a)
	return a
}

func (c *controller) runAttempt(ctx context.Context, a *startAttempt) {
	defer close(a.done)
	defer a.cancel()

	s, client, err := c.connect(ctx)

	c.mu.Lock()
	c.attempt = nil
	if err == nil && ctx.Err() != nil {
		err = fmt.Errorf("starting language server session: %w", ctx.Err())
	}
	if err != nil {
		c.setState(entity.SessionStopped, nil)
		c.mu.Unlock()

		if client != nil {
			client.Close()
		}
		c.stats.Counter("start_failures").Inc(1)
		c.logger.Errorw("Failed to start language server session", "error", err)
		a.err = err
		return
	}

	active := &activeSession{
		session:   s,
		client:    client,
		release:   make(chan struct{}),
		watchDone: make(chan struct{}),
	}
	c.active = active
	c.setState(entity.SessionRunning, s)
	c.mu.Unlock()

	go c.watch(active)
	c.logger.Infow("Language server session started", "session", s.UUID, "transport", s.Transport, "server", s.ServerName)
	a.session = s
}

// connect establishes the transport and performs the initialize handshake.
// On success the returned client owns the connection. On failure after the handshake began, the client is returned so it can be closed.
func (c *controller) connect(ctx context.Context) (*entity.Session, lspclient.Client, error) {
	conn, err := c.transport.Select(ctx, c.transportConfig)
	if err != nil {
		return nil, nil, err
	}

	client := c.newClient(ctx, conn, c.handleServerMessage)

	initCtx := ctx
	if timeout := c.sessionConfig.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	folders := c.editorState.WorkspaceFolders(ctx)
	result, err := client.Initialize(initCtx, &protocol.InitializeParams{
		ProcessID:  int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{Name: c.sessionConfig.ClientName},
		RootURI:    mapper.WorkspaceFoldersToRootURI(folders),
		Capabilities: protocol.ClientCapabilities{
			Workspace: &protocol.WorkspaceClientCapabilities{
				DidChangeWatchedFiles: &protocol.DidChangeWatchedFilesWorkspaceClientCapabilities{},
				ExecuteCommand:        &protocol.ExecuteCommandClientCapabilities{},
				WorkspaceFolders:      true,
			},
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Synchronization: &protocol.TextDocumentSyncClientCapabilities{DidSave: true},
			},
		},
		WorkspaceFolders: folders,
	})
	if err != nil {
		return nil, client, fmt.Errorf("initializing language server: %w", err)
	}
	if err := client.Initialized(initCtx, &protocol.InitializedParams{}); err != nil {
		return nil, client, fmt.Errorf("initializing language server: %w", err)
	}

	s := &entity.Session{
		UUID:             uuid.Must(uuid.NewV4()),
		Transport:        conn.Kind(),
		DocumentSelector: c.selector,
		StartedAt:        time.Now(),
	}
	if result != nil && result.ServerInfo != nil {
		s.ServerName = result.ServerInfo.Name
		s.ServerVersion = result.ServerInfo.Version
	}
	return s, client, nil
}

// watch releases the session if its connection closes while it is running, and tells the editor once.
func (c *controller) watch(a *activeSession) {
	defer close(a.watchDone)

	select {
	case <-a.client.Done():
	case <-a.release:
		return
	}

	c.mu.Lock()
	if c.active != a {
		c.mu.Unlock()
		return
	}
	c.active = nil
	c.setState(entity.SessionStopped, nil)
	c.mu.Unlock()

	a.client.Close()
	c.stats.Counter("unexpected_exits").Inc(1)
	c.logger.Warnw("Language server connection closed unexpectedly", "session", a.session.UUID, "error", a.client.Err())

	if err := c.editorGateway.ShowMessage(context.Background(), &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: _msgUnexpectedExit,
	}); err != nil {
		c.logger.Warnf("Failed to notify editor of language server exit: %v", err)
	}
}

func (c *controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	// A Start may begin a new attempt while the lock is released, so cancel until none is pending.
	for c.attempt != nil {
		a := c.attempt
		c.mu.Unlock()
		a.cancel()
		<-a.done
		c.mu.Lock()
	}

	if c.stopping != nil {
		stopping := c.stopping
		c.mu.Unlock()
		select {
		case <-stopping:
		case <-ctx.Done():
		}
		return nil
	}

	a := c.active
	if a == nil {
		c.mu.Unlock()
		return nil
	}
	c.active = nil
	stopping := make(chan struct{})
	c.stopping = stopping
	c.setState(entity.SessionStopping, nil)
	close(a.release)
	c.mu.Unlock()

	c.shutdown(ctx, a)

	c.mu.Lock()
	c.stopping = nil
	c.setState(entity.SessionStopped, nil)
	c.mu.Unlock()
	close(stopping)

	c.logger.Infow("Language server session stopped", "session", a.session.UUID)
	return nil
}

// shutdown runs the shutdown handshake within the shutdown timeout, then closes the transport regardless of the outcome.
func (c *controller) shutdown(ctx context.Context, a *activeSession) {
	shutdownCtx := context.WithoutCancel(ctx)
	if timeout := c.sessionConfig.ShutdownTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, timeout)
		defer cancel()
	}

	if err := a.client.Shutdown(shutdownCtx); err != nil {
		c.logger.Warnw("Language server shutdown failed", "session", a.session.UUID, "error", err)
	} else if err := a.client.Exit(shutdownCtx); err != nil {
		c.logger.Warnw("Language server exit failed", "session", a.session.UUID, "error", err)
	}

	if err := a.client.Close(); err != nil {
		c.logger.Warnw("Closing language server connection", "session", a.session.UUID, "error", err)
	}
	<-a.watchDone
}

func (c *controller) CurrentSession() *entity.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}
	return c.active.session
}

func (c *controller) State() entity.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *controller) DocumentSelector() entity.DocumentSelector {
	return c.selector
}

func (c *controller) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	client, err := c.runningClient()
	if err != nil {
		return nil, err
	}
	return client.ExecuteCommand(ctx, params)
}

func (c *controller) Notify(ctx context.Context, method string, params interface{}) error {
	client, err := c.runningClient()
	if err != nil {
		return err
	}
	return client.Notify(ctx, method, params)
}

func (c *controller) runningClient() (lspclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.state != entity.SessionRunning {
		return nil, &errors.PreconditionError{Kind: errors.SessionNotRunning, State: c.state.String()}
	}
	return c.active.client, nil
}

// setState must be called with c.mu held.
func (c *controller) setState(state entity.SessionState, s *entity.Session) {
	c.state = state
	c.stats.Gauge("state").Update(float64(state))

	if err := c.serverInfoFile.UpdateField(_infoKeySessionState, state.String()); err != nil {
		c.logger.Warnf("Failed to publish session state: %v", err)
	}
	if s != nil {
		if err := c.serverInfoFile.UpdateField(_infoKeySessionID, s.UUID.String()); err != nil {
			c.logger.Warnf("Failed to publish session id: %v", err)
		}
	} else if state == entity.SessionStopped {
		if err := c.serverInfoFile.RemoveField(_infoKeySessionID); err != nil {
			c.logger.Warnf("Failed to remove session id: %v", err)
		}
	}
}
