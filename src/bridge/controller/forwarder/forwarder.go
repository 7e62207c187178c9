// Package forwarder passes editor events on to the running language server session.
package forwarder

import (
	"context"
	"fmt"
	"sync"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/controller/session"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/internal/watcher"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	editorstate "github.com/uber/microcad-bridge/src/bridge/repository/editor-state"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Controller forwards editor events. Events that arrive while no session is running, or that concern documents outside the selector, are dropped and never queued.
type Controller interface {
	// ActiveDocumentChanged records the focused document and announces it to the server with custom/activeFileChanged. A nil document clears it.
	ActiveDocumentChanged(ctx context.Context, doc *entity.Document) error

	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error

	// FilesChanged sends workspace/didChangeWatchedFiles for changes reported by the workspace watcher.
	FilesChanged(ctx context.Context, events []entity.FileEvent) error
	// WatchWorkspace replaces the watched workspace folders. It does nothing when file watching is disabled.
	WatchWorkspace(ctx context.Context, folders []protocol.WorkspaceFolder) error
	// StopWatching stops every workspace watcher.
	StopWatching(ctx context.Context) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config      config.Provider
	Lifecycle   fx.Lifecycle
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
	Sessions    session.Controller
	EditorState editorstate.Repository
}

type controller struct {
	fileWatch   entity.FileWatchConfig
	sessions    session.Controller
	editorState editorstate.Repository
	logger      *zap.SugaredLogger
	stats       tally.Scope

	watchersMu sync.Mutex
	watchers   []*watcher.Watcher
}

// New creates a new event forwarder. Workspace watchers are stopped when the application stops.
func New(p Params) (Controller, error) {
	c := &controller{
		sessions:    p.Sessions,
		editorState: p.EditorState,
		logger:      p.Logger.With("component", "forwarder"),
		stats:       p.Stats.SubScope("forwarder"),
	}
	if err := p.Config.Get(entity.FileWatchConfigKey).Populate(&c.fileWatch); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.FileWatchConfigKey, err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: c.StopWatching,
	})
	return c, nil
}

func (c *controller) ActiveDocumentChanged(ctx context.Context, doc *entity.Document) error {
	if err := c.editorState.SetActiveDocument(ctx, doc); err != nil {
		return fmt.Errorf("recording active document: %w", err)
	}
	if doc == nil {
		return nil
	}
	return c.forwardDocument(ctx, entity.MethodActiveFileChanged, *doc, mapper.DocumentToActiveFileChangedParams(*doc))
}

func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return c.forwardDocument(ctx, protocol.MethodTextDocumentDidOpen, mapper.TextDocumentItemToDocument(params.TextDocument), params)
}

func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return c.forwardDocument(ctx, protocol.MethodTextDocumentDidChange, mapper.URIToDocument(params.TextDocument.URI), params)
}

func (c *controller) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	return c.forwardDocument(ctx, protocol.MethodTextDocumentDidSave, mapper.URIToDocument(params.TextDocument.URI), params)
}

func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return c.forwardDocument(ctx, protocol.MethodTextDocumentDidClose, mapper.URIToDocument(params.TextDocument.URI), params)
}

func (c *controller) FilesChanged(ctx context.Context, events []entity.FileEvent) error {
	if len(events) == 0 {
		return nil
	}
	return c.forward(ctx, protocol.MethodWorkspaceDidChangeWatchedFiles, mapper.FileEventsToDidChangeWatchedFilesParams(events))
}

func (c *controller) WatchWorkspace(ctx context.Context, folders []protocol.WorkspaceFolder) error {
	if err := c.StopWatching(ctx); err != nil {
		c.logger.Warnf("Failed to stop previous workspace watchers: %v", err)
	}
	if !c.fileWatch.Enabled {
		return nil
	}

	var watchers []*watcher.Watcher
	var errs error
	for _, folder := range folders {
		root, ok := mapper.URIToDocument(protocol.DocumentURI(folder.URI)).Filename()
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("workspace folder %q is not a local directory", folder.URI))
			continue
		}
		w, err := watcher.New(watcher.Options{
			Root:     root,
			Selector: c.sessions.DocumentSelector(),
			Debounce: c.fileWatch.Debounce(),
			Handler:  c.handleFileEvents,
			Logger:   c.logger,
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		c.logger.Infow("Watching workspace folder", "root", root)
		watchers = append(watchers, w)
	}

	c.watchersMu.Lock()
	c.watchers = watchers
	c.watchersMu.Unlock()
	return errs
}

func (c *controller) StopWatching(ctx context.Context) error {
	c.watchersMu.Lock()
	watchers := c.watchers
	c.watchers = nil
	c.watchersMu.Unlock()

	var errs error
	for _, w := range watchers {
		errs = multierr.Append(errs, w.Close())
	}
	return errs
}

func (c *controller) handleFileEvents(events []entity.FileEvent) {
	if err := c.FilesChanged(context.Background(), events); err != nil {
		c.logger.Warnf("Failed to forward file changes: %v", err)
	}
}

// forwardDocument drops events for documents outside the selector.
func (c *controller) forwardDocument(ctx context.Context, method string, doc entity.Document, params interface{}) error {
	if !c.sessions.DocumentSelector().Matches(doc) {
		c.drop(method, "document not handled")
		return nil
	}
	return c.forward(ctx, method, params)
}

// forward sends a notification if a session is running, and drops it otherwise.
func (c *controller) forward(ctx context.Context, method string, params interface{}) error {
	if c.sessions.CurrentSession() == nil {
		c.drop(method, "session not running")
		return nil
	}

	if err := c.sessions.Notify(ctx, method, params); err != nil {
		if errors.IsPrecondition(err, errors.SessionNotRunning) {
			c.drop(method, "session not running")
			return nil
		}
		return fmt.Errorf("forwarding %s: %w", method, err)
	}
	c.stats.Counter("sent").Inc(1)
	return nil
}

func (c *controller) drop(method string, reason string) {
	c.stats.Counter("dropped").Inc(1)
	c.logger.Debugw("Dropped editor event", "method", method, "reason", reason)
}
