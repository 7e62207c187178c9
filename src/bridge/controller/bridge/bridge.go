// Package bridge implements the editor facing business logic of the microcad bridge.
package bridge

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/microcad-bridge/src/bridge/controller/forwarder"
	"github.com/uber/microcad-bridge/src/bridge/controller/relay"
	"github.com/uber/microcad-bridge/src/bridge/controller/session"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	notifier "github.com/uber/microcad-bridge/src/bridge/gateway/editor-client"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	editorstate "github.com/uber/microcad-bridge/src/bridge/repository/editor-state"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _labelStart = "Starting the microcad language server"

// Controller orchestrates the business logic for each editor request.
type Controller interface {
	// Activate records the workspace folders sent by the editor and starts the language server session.
	// A failed start is reported in the result and shown to the user; it is not returned as an error.
	Activate(ctx context.Context, params *entity.ActivateParams) (*entity.ActivateResult, error)
	// Deactivate stops watching the workspace and stops the session.
	Deactivate(ctx context.Context) error
	// ExecuteCommand relays an editor command. Failures are part of the returned result.
	ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (*entity.CommandResult, error)

	// Editor events.
	ActiveDocumentChanged(ctx context.Context, params *entity.ActiveDocumentChangedParams) error
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error

	// InitSession registers a newly connected editor and returns its id.
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	// EndSession removes a disconnected editor. When no editor is left, the language server session is stopped.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Logger        *zap.SugaredLogger
	Sessions      session.Controller
	Relay         relay.Controller
	Forwarder     forwarder.Controller
	EditorState   editorstate.Repository
	EditorGateway notifier.Gateway
}

type controller struct {
	sessions      session.Controller
	relay         relay.Controller
	forwarder     forwarder.Controller
	editorState   editorstate.Repository
	editorGateway notifier.Gateway
	logger        *zap.SugaredLogger
}

// New constructs a new top-level controller for the bridge.
func New(p Params) Controller {
	return &controller{
		sessions:      p.Sessions,
		relay:         p.Relay,
		forwarder:     p.Forwarder,
		editorState:   p.EditorState,
		editorGateway: p.EditorGateway,
		logger:        p.Logger,
	}
}

func (c *controller) Activate(ctx context.Context, params *entity.ActivateParams) (*entity.ActivateResult, error) {
	if len(params.WorkspaceFolders) > 0 {
		if err := c.editorState.SetWorkspaceFolders(ctx, params.WorkspaceFolders); err != nil {
			return nil, fmt.Errorf("recording workspace folders: %w", err)
		}
	}

	s, err := c.sessions.Start(ctx)
	result := mapper.SessionToActivateResult(s, c.sessions.State(), err)
	if err != nil {
		c.logger.Errorw("Activation failed", "error", err)
		if notifyErr := c.editorGateway.ShowMessage(ctx, mapper.NoticeToShowMessageParams(mapper.ErrorToNotice(_labelStart, err))); notifyErr != nil {
			c.logger.Warnf("Failed to show activation failure: %v", notifyErr)
		}
		return result, nil
	}

	if err := c.forwarder.WatchWorkspace(ctx, c.editorState.WorkspaceFolders(ctx)); err != nil {
		c.logger.Warnf("Workspace file watching is incomplete: %v", err)
	}
	c.logger.Infow("Activated", "session", s.UUID, "transport", s.Transport)
	return result, nil
}

func (c *controller) Deactivate(ctx context.Context) error {
	if err := c.forwarder.StopWatching(ctx); err != nil {
		c.logger.Warnf("Failed to stop workspace watchers: %v", err)
	}
	return c.sessions.Stop(ctx)
}

func (c *controller) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (*entity.CommandResult, error) {
	return c.relay.Execute(ctx, params.Command).CommandResult(), nil
}

func (c *controller) ActiveDocumentChanged(ctx context.Context, params *entity.ActiveDocumentChangedParams) error {
	return c.forwarder.ActiveDocumentChanged(ctx, params.Document)
}

func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return c.forwarder.DidOpen(ctx, params)
}

func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return c.forwarder.DidChange(ctx, params)
}

func (c *controller) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	return c.forwarder.DidSave(ctx, params)
}

func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return c.forwarder.DidClose(ctx, params)
}

func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating editor id: %w", err)
	}
	if err := c.editorGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, fmt.Errorf("registering editor: %w", err)
	}
	c.logger.Infow("Editor connected", "editor", id)
	return id, nil
}

func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	if err := c.editorGateway.DeregisterClient(ctx, id); err != nil {
		return fmt.Errorf("deregistering editor: %w", err)
	}
	c.logger.Infow("Editor disconnected", "editor", id)

	if c.editorGateway.ClientCount() > 0 {
		return nil
	}
	if err := c.Deactivate(ctx); err != nil {
		return err
	}
	c.editorState.Reset(ctx)
	return nil
}
