package bridge

import (
	"context"

	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
)

// Activate starts the language server session for the editor's workspace.
func (r *jsonRPCRouter) Activate(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToActivateParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	result, err := r.bridge.Activate(ctx, params)
	return r.reply(ctx, reply, req, result, err)
}

// Deactivate stops the language server session.
func (r *jsonRPCRouter) Deactivate(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.bridge.Deactivate(ctx)
	return r.reply(ctx, reply, req, nil, err)
}
