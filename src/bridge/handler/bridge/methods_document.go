package bridge

import (
	"context"

	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) ActiveDocumentChanged(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToActiveDocumentChangedParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	err = r.bridge.ActiveDocumentChanged(ctx, params)
	return r.reply(ctx, reply, req, nil, err)
}

func (r *jsonRPCRouter) DidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidOpenTextDocumentParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	err = r.bridge.DidOpen(ctx, params)
	return r.reply(ctx, reply, req, nil, err)
}

func (r *jsonRPCRouter) DidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeTextDocumentParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	err = r.bridge.DidChange(ctx, params)
	return r.reply(ctx, reply, req, nil, err)
}

func (r *jsonRPCRouter) DidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidSaveTextDocumentParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	err = r.bridge.DidSave(ctx, params)
	return r.reply(ctx, reply, req, nil, err)
}

func (r *jsonRPCRouter) DidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidCloseTextDocumentParams(req)
	if err != nil {
		return r.reply(ctx, reply, req, nil, err)
	}

	err = r.bridge.DidClose(ctx, params)
	return r.reply(ctx, reply, req, nil, err)
}
