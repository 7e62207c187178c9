package mapper

import (
	"context"
	"encoding/json"

	"github.com/gofrs/uuid"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// ContextToEditorUUID extracts the editor connection UUID from a context.
func ContextToEditorUUID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(entity.EditorContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoEditorFoundError{}
	}
	return id, nil
}

// EditorUUIDToContext returns a copy of ctx that carries the editor connection UUID.
func EditorUUIDToContext(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, entity.EditorContextKey, id)
}

// RequestToActivateParams maps the parameters of microcad/activate. Parameters are optional.
func RequestToActivateParams(req jsonrpc2.Request) (*entity.ActivateParams, error) {
	params := entity.ActivateParams{}
	if !hasParams(req) {
		return &params, nil
	}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToActiveDocumentChangedParams maps the parameters of microcad/activeDocumentChanged.
func RequestToActiveDocumentChangedParams(req jsonrpc2.Request) (*entity.ActiveDocumentChangedParams, error) {
	params := entity.ActiveDocumentChangedParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	if params.Document != nil && params.Document.IsZero() {
		return nil, errors.NoDocumentOnWireError
	}
	return &params, nil
}

// DocumentToPreviewArgument maps a document into the URI object argument of the show preview command.
func DocumentToPreviewArgument(doc entity.Document) entity.PreviewArgument {
	arg := entity.PreviewArgument{
		URI: entity.PreviewURI{External: string(doc.URI)},
	}
	if filename, ok := doc.Filename(); ok {
		arg.URI.FSPath = filename
	}
	return arg
}

// DocumentToActiveFileChangedParams maps a document into the parameters of custom/activeFileChanged.
func DocumentToActiveFileChangedParams(doc entity.Document) *entity.ActiveFileChangedParams {
	return &entity.ActiveFileChangedParams{URI: doc.URI}
}

// CommandToExecuteCommandParams builds the workspace/executeCommand parameters for a relayed command.
// A command without arguments omits the arguments field.
func CommandToExecuteCommandParams(command string, args ...interface{}) *protocol.ExecuteCommandParams {
	params := &protocol.ExecuteCommandParams{Command: command}
	if len(args) > 0 {
		params.Arguments = args
	}
	return params
}

// WorkspaceFoldersToRootURI returns the URI of the first workspace folder, which becomes the root of the session.
func WorkspaceFoldersToRootURI(folders []protocol.WorkspaceFolder) protocol.DocumentURI {
	if len(folders) == 0 {
		return ""
	}
	return protocol.DocumentURI(folders[0].URI)
}

// SessionToActivateResult reports the outcome of an activation.
func SessionToActivateResult(session *entity.Session, state entity.SessionState, err error) *entity.ActivateResult {
	result := &entity.ActivateResult{State: state.String()}
	if session != nil {
		result.SessionID = session.UUID.String()
		result.Transport = session.Transport
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
