package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/gateway"
	"github.com/uber/microcad-bridge/src/bridge/handler"
	"github.com/uber/microcad-bridge/src/bridge/internal/core"
	"github.com/uber/microcad-bridge/src/bridge/internal/executor"
	"github.com/uber/microcad-bridge/src/bridge/internal/fs"
	"github.com/uber/microcad-bridge/src/bridge/internal/jsonrpcfx"
	"github.com/uber/microcad-bridge/src/bridge/internal/serverinfofile"
	"github.com/uber/microcad-bridge/src/bridge/internal/transport"
	"go.uber.org/fx"
)

// Module defines the microcad-bridge application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	transport.Module,
	fs.Module,
	executor.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "microcad-bridge",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateConfigProvider),
)
