package factory

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/uuid"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// JSONRPCNotification is a user-defined factory for a JSON-RPC notification containing the specified method and parameters.
func JSONRPCNotification(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewNotification(method, params)
	return req
}

// Document is a factory for a microcad source document in dir with the given extension.
func Document(dir string, ext string) entity.Document {
	return entity.Document{
		URI: uri.File(filepath.Join(dir, fmt.Sprintf("model-%s.%s", UUID().String()[:8], ext))),
	}
}

// DocumentSelector is a factory for the document selector of the microcad language.
func DocumentSelector() entity.DocumentSelector {
	return entity.DocumentSelector{
		Scheme:     uri.FileScheme,
		Language:   entity.LanguageMicrocad,
		Extensions: []string{"µcad", "mcad", "ucad"},
	}
}

// WorkspaceFolder is a factory for a workspace folder rooted at dir.
func WorkspaceFolder(dir string) protocol.WorkspaceFolder {
	return protocol.WorkspaceFolder{
		URI:  string(uri.File(dir)),
		Name: filepath.Base(dir),
	}
}

// Diagnostic is a factory for an error diagnostic reported by the microcad language server on the first line of a document.
func Diagnostic(message string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: uint32(len(message))},
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   string(entity.LanguageMicrocad),
		Message:  message,
	}
}
