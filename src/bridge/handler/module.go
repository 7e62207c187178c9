package handler

import (
	controller "github.com/uber/microcad-bridge/src/bridge/controller"
	handler "github.com/uber/microcad-bridge/src/bridge/handler/bridge"
	editorstate "github.com/uber/microcad-bridge/src/bridge/repository/editor-state"
	"go.uber.org/fx"
)

// Module provides the editor facing JSON-RPC handlers into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(editorstate.New),
	fx.Provide(handler.New),
	fx.Invoke(outputProcessInfo),
	fx.Invoke(func(h handler.Handler) {}),
)
