package session

import (
	"context"

	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// handleServerMessage answers traffic initiated by the language server.
// Errors are logged and replied, never returned, so a bad message cannot end the connection.
func (c *controller) handleServerMessage(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var err error
	switch req.Method() {
	case protocol.MethodWindowLogMessage:
		err = c.relayLogMessage(ctx, req)
	case protocol.MethodWindowShowMessage:
		err = c.relayShowMessage(ctx, req)
	case protocol.MethodTextDocumentPublishDiagnostics:
		err = c.relayPublishDiagnostics(ctx, req)
	default:
		if replyErr := jsonrpc2.MethodNotFoundHandler(ctx, reply, req); replyErr != nil {
			c.logger.Warnf("Failed to reply to %q: %v", req.Method(), replyErr)
		}
		return nil
	}

	if err != nil {
		c.logger.Warnw("Failed to relay language server message", "method", req.Method(), "error", err)
	}
	if replyErr := reply(ctx, nil, mapper.ToResponseError(err)); replyErr != nil {
		c.logger.Warnf("Failed to reply to %q: %v", req.Method(), replyErr)
	}
	return nil
}

func (c *controller) relayLogMessage(ctx context.Context, req jsonrpc2.Request) error {
	params, err := mapper.RequestToLogMessageParams(req)
	if err != nil {
		return err
	}
	c.logger.Debugw("microcad-lsp", "type", params.Type.String(), "message", params.Message)
	return c.editorGateway.LogMessage(ctx, params)
}

func (c *controller) relayShowMessage(ctx context.Context, req jsonrpc2.Request) error {
	params, err := mapper.RequestToShowMessageParams(req)
	if err != nil {
		return err
	}
	c.logger.Infow("microcad-lsp", "type", params.Type.String(), "message", params.Message)
	return c.editorGateway.ShowMessage(ctx, params)
}

func (c *controller) relayPublishDiagnostics(ctx context.Context, req jsonrpc2.Request) error {
	params, err := mapper.RequestToPublishDiagnosticsParams(req)
	if err != nil {
		return err
	}
	return c.editorGateway.PublishDiagnostics(ctx, params)
}
