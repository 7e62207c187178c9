package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/uber/microcad-bridge/src/bridge/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// RequestToExecuteCommandParams maps the parameters from a jsconrpc2.Request into protocol.ExecuteCommandParams.
// Arguments sent by the editor are dropped; the bridge builds the arguments of each relayed command itself.
func RequestToExecuteCommandParams(req jsonrpc2.Request) (*protocol.ExecuteCommandParams, error) {
	params := protocol.ExecuteCommandParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	params.Arguments = nil
	return &params, nil
}

// RequestToDidChangeTextDocumentParams maps the parameters from a jsconrpc2.Request into protocol.DidChangeTextDocumentParams.
func RequestToDidChangeTextDocumentParams(req jsonrpc2.Request) (*protocol.DidChangeTextDocumentParams, error) {
	params := protocol.DidChangeTextDocumentParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToDidCloseTextDocumentParams maps the parameters from a jsconrpc2.Request into protocol.DidCloseTextDocumentParams.
func RequestToDidCloseTextDocumentParams(req jsonrpc2.Request) (*protocol.DidCloseTextDocumentParams, error) {
	params := protocol.DidCloseTextDocumentParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToDidOpenTextDocumentParams maps the parameters from a jsconrpc2.Request into protocol.DidOpenTextDocumentParams.
func RequestToDidOpenTextDocumentParams(req jsonrpc2.Request) (*protocol.DidOpenTextDocumentParams, error) {
	params := protocol.DidOpenTextDocumentParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToDidSaveTextDocumentParams maps the parameters from a jsconrpc2.Request into protocol.DidSaveTextDocumentParams.
func RequestToDidSaveTextDocumentParams(req jsonrpc2.Request) (*protocol.DidSaveTextDocumentParams, error) {
	params := protocol.DidSaveTextDocumentParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToLogMessageParams maps the parameters from a jsconrpc2.Request into protocol.LogMessageParams.
func RequestToLogMessageParams(req jsonrpc2.Request) (*protocol.LogMessageParams, error) {
	params := protocol.LogMessageParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToShowMessageParams maps the parameters from a jsconrpc2.Request into protocol.ShowMessageParams.
func RequestToShowMessageParams(req jsonrpc2.Request) (*protocol.ShowMessageParams, error) {
	params := protocol.ShowMessageParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToPublishDiagnosticsParams maps the parameters from a jsconrpc2.Request into protocol.PublishDiagnosticsParams.
func RequestToPublishDiagnosticsParams(req jsonrpc2.Request) (*protocol.PublishDiagnosticsParams, error) {
	params := protocol.PublishDiagnosticsParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// TextDocumentItemToDocument maps an opened text document into a Document.
func TextDocumentItemToDocument(item protocol.TextDocumentItem) entity.Document {
	return entity.Document{
		URI:        item.URI,
		LanguageID: item.LanguageID,
	}
}

// URIToDocument maps a bare document URI into a Document, which is then matched by file extension.
func URIToDocument(u protocol.DocumentURI) entity.Document {
	return entity.Document{URI: u}
}

// FileEventsToDidChangeWatchedFilesParams maps watcher events into protocol.DidChangeWatchedFilesParams.
func FileEventsToDidChangeWatchedFilesParams(events []entity.FileEvent) *protocol.DidChangeWatchedFilesParams {
	changes := make([]*protocol.FileEvent, 0, len(events))
	for _, e := range events {
		changes = append(changes, &protocol.FileEvent{
			URI:  uri.File(e.Path),
			Type: e.Type,
		})
	}
	return &protocol.DidChangeWatchedFilesParams{Changes: changes}
}

func unmarshalParams(req jsonrpc2.Request, v interface{}) error {
	if !hasParams(req) {
		return wrapErrParse(errNoParams)
	}
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return wrapErrParse(err)
	}
	return nil
}

func hasParams(req jsonrpc2.Request) bool {
	params := bytes.TrimSpace(req.Params())
	return len(params) > 0 && !bytes.Equal(params, []byte("null"))
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%w: %w", jsonrpc2.ErrParse, err)
}
