package mapper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	bridgeerrors "github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

func TestCallErrorToError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, CallErrorToError(protocol.MethodWorkspaceExecuteCommand, nil))
	})

	t.Run("error response", func(t *testing.T) {
		err := CallErrorToError(protocol.MethodWorkspaceExecuteCommand, jsonrpc2.NewError(jsonrpc2.InvalidParams, "expected uri"))
		protoErr, ok := bridgeerrors.AsProtocol(err)
		require.True(t, ok)
		assert.Equal(t, protocol.MethodWorkspaceExecuteCommand, protoErr.Method)
		assert.Equal(t, int64(jsonrpc2.InvalidParams), protoErr.Code)
		assert.Equal(t, "expected uri", protoErr.Message)
	})

	t.Run("wrapped error response", func(t *testing.T) {
		err := CallErrorToError(protocol.MethodInitialize, fmt.Errorf("calling: %w", jsonrpc2.ErrInternal))
		_, ok := bridgeerrors.AsProtocol(err)
		assert.True(t, ok)
	})

	t.Run("session closed", func(t *testing.T) {
		closed := &bridgeerrors.SessionClosedError{}
		err := CallErrorToError(protocol.MethodWorkspaceExecuteCommand, closed)
		assert.True(t, bridgeerrors.IsSessionClosed(err))
		_, ok := bridgeerrors.AsProtocol(err)
		assert.False(t, ok)
	})

	t.Run("deadline", func(t *testing.T) {
		err := CallErrorToError(protocol.MethodWorkspaceExecuteCommand, context.DeadlineExceeded)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestExecuteCommandResultToError(t *testing.T) {
	tests := []struct {
		name    string
		result  interface{}
		wantErr string
	}{
		{
			name:   "nil result",
			result: nil,
		},
		{
			name:   "success payload",
			result: map[string]interface{}{"ok": true},
		},
		{
			name:   "non object payload",
			result: "done",
		},
		{
			name:   "null error",
			result: map[string]interface{}{"error": nil},
		},
		{
			name:    "error string",
			result:  map[string]interface{}{"error": "no such file"},
			wantErr: "microcad.showPreview: no such file",
		},
		{
			name:    "error value",
			result:  map[string]interface{}{"error": float64(3)},
			wantErr: "microcad.showPreview: 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExecuteCommandResultToError(entity.CommandShowPreview, tt.result)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			_, ok := bridgeerrors.AsProtocol(err)
			assert.True(t, ok)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestToResponseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode jsonrpc2.Code
	}{
		{
			name:     "parse",
			err:      wrapErrParse(errors.New("unexpected token")),
			wantCode: jsonrpc2.ParseError,
		},
		{
			name:     "bad request",
			err:      bridgeerrors.NoDocumentOnWireError,
			wantCode: jsonrpc2.InvalidParams,
		},
		{
			name:     "precondition",
			err:      &bridgeerrors.PreconditionError{Kind: bridgeerrors.UnknownCommand, Command: "microcad.export"},
			wantCode: jsonrpc2.InvalidRequest,
		},
		{
			name:     "other",
			err:      errors.New("sample"),
			wantCode: jsonrpc2.InternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rpcErr *jsonrpc2.Error
			require.ErrorAs(t, ToResponseError(tt.err), &rpcErr)
			assert.Equal(t, tt.wantCode, rpcErr.Code)
			assert.Equal(t, tt.err.Error(), rpcErr.Message)
		})
	}

	assert.NoError(t, ToResponseError(nil))
}
