package mapper

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/factory"
	bridgeerrors "github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func TestContextToEditorUUID(t *testing.T) {
	t.Run("uuid present", func(t *testing.T) {
		id := factory.UUID()
		result, err := ContextToEditorUUID(EditorUUIDToContext(context.Background(), id))
		require.NoError(t, err)
		assert.Equal(t, id, result)
	})

	t.Run("uuid missing", func(t *testing.T) {
		result, err := ContextToEditorUUID(context.Background())
		var noEditor *bridgeerrors.NoEditorFoundError
		assert.ErrorAs(t, err, &noEditor)
		assert.Equal(t, uuid.Nil, result)
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), entity.EditorContextKey, "not-a-uuid")
		_, err := ContextToEditorUUID(ctx)
		assert.Error(t, err)
	})
}

func TestRequestToActivateParams(t *testing.T) {
	t.Run("with folders", func(t *testing.T) {
		folder := factory.WorkspaceFolder(t.TempDir())
		req := factory.JSONRPCRequest(entity.MethodActivate, entity.ActivateParams{
			WorkspaceFolders: []protocol.WorkspaceFolder{folder},
		})
		result, err := RequestToActivateParams(req)
		require.NoError(t, err)
		assert.Equal(t, []protocol.WorkspaceFolder{folder}, result.WorkspaceFolders)
	})

	t.Run("without params", func(t *testing.T) {
		result, err := RequestToActivateParams(factory.JSONRPCRequest(entity.MethodActivate, nil))
		require.NoError(t, err)
		assert.Empty(t, result.WorkspaceFolders)
	})

	t.Run("invalid params", func(t *testing.T) {
		_, err := RequestToActivateParams(factory.JSONRPCRequest(entity.MethodActivate, "invalid"))
		assert.ErrorIs(t, err, jsonrpc2.ErrParse)
	})
}

func TestRequestToActiveDocumentChangedParams(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		doc := factory.Document(t.TempDir(), "µcad")
		req := factory.JSONRPCNotification(entity.MethodActiveDocumentChanged, entity.ActiveDocumentChangedParams{Document: &doc})
		result, err := RequestToActiveDocumentChangedParams(req)
		require.NoError(t, err)
		require.NotNil(t, result.Document)
		assert.Equal(t, doc.URI, result.Document.URI)
	})

	t.Run("no active document", func(t *testing.T) {
		req := factory.JSONRPCNotification(entity.MethodActiveDocumentChanged, entity.ActiveDocumentChangedParams{})
		result, err := RequestToActiveDocumentChangedParams(req)
		require.NoError(t, err)
		assert.Nil(t, result.Document)
	})

	t.Run("document without uri", func(t *testing.T) {
		req := factory.JSONRPCNotification(entity.MethodActiveDocumentChanged, entity.ActiveDocumentChangedParams{Document: &entity.Document{}})
		_, err := RequestToActiveDocumentChangedParams(req)
		assert.ErrorIs(t, err, bridgeerrors.NoDocumentOnWireError)
	})

	t.Run("missing params", func(t *testing.T) {
		_, err := RequestToActiveDocumentChangedParams(factory.JSONRPCNotification(entity.MethodActiveDocumentChanged, nil))
		assert.ErrorIs(t, err, jsonrpc2.ErrParse)
		assert.ErrorIs(t, err, bridgeerrors.NoParamsOnWireError)
	})
}

func TestDocumentToPreviewArgument(t *testing.T) {
	t.Run("file document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.µcad")
		doc := entity.Document{URI: uri.File(path)}

		arg := DocumentToPreviewArgument(doc)
		assert.Equal(t, string(doc.URI), arg.URI.External)
		assert.Equal(t, path, arg.URI.FSPath)
	})

	t.Run("non file document", func(t *testing.T) {
		doc := entity.Document{URI: "untitled:Untitled-1"}

		arg := DocumentToPreviewArgument(doc)
		assert.Equal(t, "untitled:Untitled-1", arg.URI.External)
		assert.Empty(t, arg.URI.FSPath)
	})
}

func TestDocumentToActiveFileChangedParams(t *testing.T) {
	doc := entity.Document{URI: "file:///workspace/model.mcad"}
	assert.Equal(t, &entity.ActiveFileChangedParams{URI: doc.URI}, DocumentToActiveFileChangedParams(doc))
}

func TestCommandToExecuteCommandParams(t *testing.T) {
	t.Run("with argument", func(t *testing.T) {
		arg := entity.PreviewArgument{URI: entity.PreviewURI{External: "file:///workspace/model.mcad"}}
		params := CommandToExecuteCommandParams(entity.CommandShowPreview, arg)
		assert.Equal(t, entity.CommandShowPreview, params.Command)
		assert.Equal(t, []interface{}{arg}, params.Arguments)
	})

	t.Run("without arguments", func(t *testing.T) {
		params := CommandToExecuteCommandParams(entity.CommandHidePreview)
		assert.Equal(t, entity.CommandHidePreview, params.Command)
		assert.Nil(t, params.Arguments)

		// The arguments field is left off the wire; the language server reads a missing list as empty.
		b, err := json.Marshal(params)
		require.NoError(t, err)
		assert.JSONEq(t, `{"command":"microcad.hidePreview"}`, string(b))
	})
}

func TestWorkspaceFoldersToRootURI(t *testing.T) {
	assert.Empty(t, WorkspaceFoldersToRootURI(nil))

	dir := t.TempDir()
	folders := []protocol.WorkspaceFolder{factory.WorkspaceFolder(dir), factory.WorkspaceFolder(t.TempDir())}
	assert.Equal(t, uri.File(dir), WorkspaceFoldersToRootURI(folders))
}

func TestSessionToActivateResult(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		session := &entity.Session{UUID: factory.UUID(), Transport: entity.TransportStdio}
		result := SessionToActivateResult(session, entity.SessionRunning, nil)
		assert.Equal(t, &entity.ActivateResult{
			State:     "running",
			SessionID: session.UUID.String(),
			Transport: entity.TransportStdio,
		}, result)
	})

	t.Run("failed", func(t *testing.T) {
		result := SessionToActivateResult(nil, entity.SessionStopped, errors.New("spawn failed"))
		assert.Equal(t, &entity.ActivateResult{State: "stopped", Error: "spawn failed"}, result)
	})
}
