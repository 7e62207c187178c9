// Package relay maps editor commands to workspace/executeCommand requests against the running session.
package relay

import (
	"context"
	"fmt"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/controller/session"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	notifier "github.com/uber/microcad-bridge/src/bridge/gateway/editor-client"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	editorstate "github.com/uber/microcad-bridge/src/bridge/repository/editor-state"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Result is the outcome of a single relayed command: either the server's payload or the error that stopped it.
type Result struct {
	Command  string
	Document entity.Document
	Payload  interface{}
	Err      error
}

// Notice returns the one-line message shown to the user for this result.
func (r Result) Notice() entity.Notice {
	if r.Err != nil {
		return mapper.ErrorToNotice(r.Command, r.Err)
	}
	return mapper.CommandResultToNotice(r.Command, r.Document)
}

// CommandResult returns the result reported back to the editor host.
func (r Result) CommandResult() *entity.CommandResult {
	return &entity.CommandResult{
		Command: r.Command,
		OK:      r.Err == nil,
		Message: r.Notice().Message,
		Payload: r.Payload,
	}
}

// Controller relays editor commands to the language server.
type Controller interface {
	// Commands returns the commands accepted by Execute.
	Commands() []string
	// Execute relays a single command and shows exactly one notice to the editor, whatever the outcome.
	Execute(ctx context.Context, command string) Result
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config        config.Provider
	Logger        *zap.SugaredLogger
	Stats         tally.Scope
	Sessions      session.Controller
	EditorState   editorstate.Repository
	EditorGateway notifier.Gateway
}

type controller struct {
	sessionConfig entity.SessionConfig
	sessions      session.Controller
	editorState   editorstate.Repository
	editorGateway notifier.Gateway
	logger        *zap.SugaredLogger
	stats         tally.Scope
}

// New creates a new command relay.
func New(p Params) (Controller, error) {
	c := &controller{
		sessions:      p.Sessions,
		editorState:   p.EditorState,
		editorGateway: p.EditorGateway,
		logger:        p.Logger.With("component", "relay"),
		stats:         p.Stats.SubScope("relay"),
	}
	if err := p.Config.Get(entity.SessionConfigKey).Populate(&c.sessionConfig); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.SessionConfigKey, err)
	}
	return c, nil
}

func (c *controller) Commands() []string {
	return []string{entity.CommandShowPreview, entity.CommandHidePreview}
}

func (c *controller) Execute(ctx context.Context, command string) Result {
	result := c.execute(ctx, command)

	if result.Err != nil {
		c.logger.Warnw("Command failed", "command", command, "error", result.Err)
	} else {
		c.logger.Debugw("Command relayed", "command", command)
	}
	if err := c.editorGateway.ShowMessage(ctx, mapper.NoticeToShowMessageParams(result.Notice())); err != nil {
		c.logger.Warnf("Failed to show notice for %q: %v", command, err)
	}
	return result
}

func (c *controller) execute(ctx context.Context, command string) Result {
	result := Result{Command: command}

	var params *protocol.ExecuteCommandParams
	switch command {
	case entity.CommandShowPreview:
		doc, err := c.editorState.ActiveDocument(ctx)
		if err != nil {
			result.Err = err
			return result
		}
		result.Document = doc
		if !c.sessions.DocumentSelector().Matches(doc) {
			result.Err = &errors.PreconditionError{Kind: errors.DocumentNotHandled, Document: doc.URI}
			return result
		}
		params = mapper.CommandToExecuteCommandParams(command, mapper.DocumentToPreviewArgument(doc))
	case entity.CommandHidePreview:
		params = mapper.CommandToExecuteCommandParams(command)
	default:
		result.Err = &errors.PreconditionError{Kind: errors.UnknownCommand, Command: command}
		return result
	}

	if c.sessions.CurrentSession() == nil {
		c.stats.Counter("not_available").Inc(1)
		result.Err = &errors.PreconditionError{Kind: errors.SessionNotRunning, State: c.sessions.State().String()}
		return result
	}

	if timeout := c.sessionConfig.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	payload, err := c.sessions.ExecuteCommand(ctx, params)
	if err == nil {
		err = mapper.ExecuteCommandResultToError(command, payload)
	}
	if errors.IsPrecondition(err, errors.SessionNotRunning) {
		c.stats.Counter("not_available").Inc(1)
		result.Err = err
		return result
	}

	c.stats.Counter("sent").Inc(1)
	if err != nil {
		c.stats.Counter("failed").Inc(1)
		result.Err = err
		return result
	}
	result.Payload = payload
	return result
}
