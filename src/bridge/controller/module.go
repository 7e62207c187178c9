package controller

import (
	"github.com/uber/microcad-bridge/src/bridge/controller/bridge"
	"github.com/uber/microcad-bridge/src/bridge/controller/forwarder"
	"github.com/uber/microcad-bridge/src/bridge/controller/relay"
	"github.com/uber/microcad-bridge/src/bridge/controller/session"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(bridge.New),
	fx.Provide(session.New),
	fx.Provide(relay.New),
	fx.Provide(forwarder.New),
)
