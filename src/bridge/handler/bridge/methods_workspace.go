package bridge

import (
	"context"

	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) ExecuteCommand(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToExecuteCommandParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	result, err := r.bridge.ExecuteCommand(ctx, params)
	return r.reply(ctx, reply, req, result, err)
}
