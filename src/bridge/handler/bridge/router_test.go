package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/controller/bridge/bridgemock"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/factory"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

func TestHandleReq(t *testing.T) {
	ctx := context.Background()
	m := newTestRouter(t, bridgemock.NewMockController(gomock.NewController(t)))

	request, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), "sampleMethod", []string{"val1", "val2"})
	err := m.HandleReq(ctx, newMockReplier(), request)
	assert.Error(t, err)
}

func TestUUID(t *testing.T) {
	sampleUUID := factory.UUID()
	m := jsonRPCRouter{uuid: sampleUUID}
	assert.Equal(t, sampleUUID, m.UUID())
}

func TestHandleReqContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	r := newTestRouter(t, c)

	c.EXPECT().DidSave(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ *protocol.DidSaveTextDocumentParams) error {
		id, err := mapper.ContextToEditorUUID(ctx)
		assert.NoError(t, err)
		assert.Equal(t, r.UUID(), id)
		return nil
	})

	params := protocol.DidSaveTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/a.µcad"}}
	assert.NoError(t, r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCNotification(protocol.MethodTextDocumentDidSave, params)))
}

func TestLongRequestsDoNotBlockNotifications(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	r := newTestRouter(t, c)

	started := make(chan struct{})
	release := make(chan struct{})
	c.EXPECT().ExecuteCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, *protocol.ExecuteCommandParams) (*entity.CommandResult, error) {
		close(started)
		<-release
		return &entity.CommandResult{Command: entity.CommandShowPreview, OK: true}, nil
	})
	c.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(nil)

	replier, replies := newRecordingReplier()
	params := protocol.ExecuteCommandParams{Command: entity.CommandShowPreview}
	require.NoError(t, r.HandleReq(ctx, replier, factory.JSONRPCRequest(protocol.MethodWorkspaceExecuteCommand, params)))
	waitFor(t, started)

	// The notification is handled while the command is still waiting on the language server.
	doc := protocol.DidOpenTextDocumentParams{TextDocument: protocol.TextDocumentItem{URI: "file:///tmp/a.µcad", LanguageID: "microcad"}}
	assert.NoError(t, r.HandleReq(ctx, newMockReplier(), factory.JSONRPCNotification(protocol.MethodTextDocumentDidOpen, doc)))

	close(release)
	reply := waitForReply(t, replies)
	assert.NoError(t, reply.err)
	assert.Equal(t, &entity.CommandResult{Command: entity.CommandShowPreview, OK: true}, reply.result)
	r.close()
}

func TestRequestStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	testScope := tally.NewTestScope("testing", nil)
	r := newRouter(c, factory.UUID(), zaptest.NewLogger(t).Sugar(), testScope)

	c.EXPECT().DidClose(gomock.Any(), gomock.Any()).Return(assert.AnError)

	params := protocol.DidCloseTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/a.µcad"}}
	r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCNotification(protocol.MethodTextDocumentDidClose, params))

	counters := testScope.Snapshot().Counters()
	assert.EqualValues(t, 1, counters["testing.requests+method=textDocument/didClose"].Value())
	assert.EqualValues(t, 1, counters["testing.errors+method=textDocument/didClose"].Value())
}
