// Package bridge implements the JSON-RPC handlers for editor hosts.
package bridge

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	controller "github.com/uber/microcad-bridge/src/bridge/controller/bridge"
	"github.com/uber/microcad-bridge/src/bridge/internal/jsonrpcfx"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Handler accepts editor host connections and routes their requests to the bridge controller.
type Handler interface {
	jsonrpcfx.ConnectionManager
}

// Params are inbound parameters to initialize a new handler.
type Params struct {
	fx.In

	Controller    controller.Controller
	JSONRPCModule jsonrpcfx.JSONRPCModule
	Logger        *zap.SugaredLogger
	Stats         tally.Scope
}

type jsonRPCConnectionManager struct {
	ctrl   controller.Controller
	logger *zap.SugaredLogger
	stats  tally.Scope

	routers *routerSet
}

// New constructs a new Handler and registers it with the JSON-RPC module.
func New(p Params) (Handler, error) {
	c := &jsonRPCConnectionManager{
		ctrl:    p.Controller,
		logger:  p.Logger.Named("editor"),
		stats:   p.Stats.SubScope("json_rpc"),
		routers: newRouterSet(),
	}

	if err := p.JSONRPCModule.RegisterConnectionManager(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewConnection registers the editor with the controller and returns a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (jsonrpcfx.Router, error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	r := newRouter(c.ctrl, id, c.logger.With("editor", id.String()), c.stats)
	c.routers.add(r)
	c.stats.Counter("connections").Inc(1)
	return r, nil
}

// RemoveConnection waits for in-flight requests of a closed connection and then removes the editor.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	if r := c.routers.remove(id); r != nil {
		r.close()
	}

	ctx = mapper.EditorUUIDToContext(ctx, id)
	if err := c.ctrl.EndSession(ctx, id); err != nil {
		c.logger.Warnw("Failed to end editor session", "editor", id.String(), "error", err)
	}
}
