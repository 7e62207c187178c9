package gateway

import (
	notifier "github.com/uber/microcad-bridge/src/bridge/gateway/editor-client"
	"go.uber.org/fx"
)

// Module defines the outbound gateways of the bridge.
var Module = fx.Options(
	fx.Provide(notifier.New),
)
