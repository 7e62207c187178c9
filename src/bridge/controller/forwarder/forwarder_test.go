package forwarder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/controller/session/sessionmock"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/factory"
	bridgeerrors "github.com/uber/microcad-bridge/src/bridge/internal/errors"
	editorstate "github.com/uber/microcad-bridge/src/bridge/repository/editor-state"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	forwarder   Controller
	sessions    *sessionmock.MockController
	editorState editorstate.Repository
	stats       tally.TestScope
	lifecycle   *fxtest.Lifecycle
}

func newTestEnv(t *testing.T, fileWatch map[string]interface{}) *testEnv {
	ctrl := gomock.NewController(t)
	env := &testEnv{
		sessions:    sessionmock.NewMockController(ctrl),
		editorState: editorstate.New(tally.NoopScope),
		stats:       tally.NewTestScope("testing", make(map[string]string, 0)),
		lifecycle:   fxtest.NewLifecycle(t),
	}
	env.sessions.EXPECT().DocumentSelector().Return(factory.DocumentSelector()).AnyTimes()

	values := map[string]interface{}{}
	if fileWatch != nil {
		values[entity.FileWatchConfigKey] = fileWatch
	}
	cfg, err := config.NewStaticProvider(values)
	require.NoError(t, err)

	env.forwarder, err = New(Params{
		Config:      cfg,
		Lifecycle:   env.lifecycle,
		Logger:      zaptest.NewLogger(t).Sugar(),
		Stats:       env.stats,
		Sessions:    env.sessions,
		EditorState: env.editorState,
	})
	require.NoError(t, err)
	return env
}

func (e *testEnv) counter(name string) int64 {
	c, ok := e.stats.Snapshot().Counters()["testing.forwarder."+name+"+"]
	if !ok {
		return 0
	}
	return c.Value()
}

func running() *entity.Session {
	return &entity.Session{UUID: factory.UUID(), DocumentSelector: factory.DocumentSelector()}
}

func TestActiveDocumentChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("matching document is announced", func(t *testing.T) {
		env := newTestEnv(t, nil)
		doc := factory.Document(t.TempDir(), "µcad")
		env.sessions.EXPECT().CurrentSession().Return(running())
		env.sessions.EXPECT().Notify(gomock.Any(), entity.MethodActiveFileChanged, &entity.ActiveFileChangedParams{URI: doc.URI}).Return(nil)

		require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, &doc))
		active, err := env.editorState.ActiveDocument(ctx)
		require.NoError(t, err)
		assert.Equal(t, doc, active)
		assert.Equal(t, int64(1), env.counter("sent"))
	})

	t.Run("other documents are recorded but dropped", func(t *testing.T) {
		env := newTestEnv(t, nil)
		doc := entity.Document{URI: "file:///workspace/README.md", LanguageID: "markdown"}

		require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, &doc))
		active, err := env.editorState.ActiveDocument(ctx)
		require.NoError(t, err)
		assert.Equal(t, doc, active)
		assert.Equal(t, int64(1), env.counter("dropped"))
	})

	t.Run("dropped while not running", func(t *testing.T) {
		env := newTestEnv(t, nil)
		doc := factory.Document(t.TempDir(), "mcad")
		env.sessions.EXPECT().CurrentSession().Return(nil)

		require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, &doc))
		assert.Equal(t, int64(1), env.counter("dropped"))
		assert.Zero(t, env.counter("sent"))
	})

	t.Run("dropped when the session stops mid flight", func(t *testing.T) {
		env := newTestEnv(t, nil)
		doc := factory.Document(t.TempDir(), "mcad")
		env.sessions.EXPECT().CurrentSession().Return(running())
		env.sessions.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&bridgeerrors.PreconditionError{Kind: bridgeerrors.SessionNotRunning})

		require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, &doc))
		assert.Equal(t, int64(1), env.counter("dropped"))
	})

	t.Run("nil clears the active document", func(t *testing.T) {
		env := newTestEnv(t, nil)
		doc := factory.Document(t.TempDir(), "mcad")
		require.NoError(t, env.editorState.SetActiveDocument(ctx, &doc))

		require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, nil))
		_, err := env.editorState.ActiveDocument(ctx)
		assert.True(t, bridgeerrors.IsPrecondition(err, bridgeerrors.NoActiveDocument))
	})

	t.Run("transport failure is returned", func(t *testing.T) {
		env := newTestEnv(t, nil)
		doc := factory.Document(t.TempDir(), "mcad")
		env.sessions.EXPECT().CurrentSession().Return(running())
		env.sessions.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&bridgeerrors.SessionClosedError{Cause: errors.New("EOF")})

		err := env.forwarder.ActiveDocumentChanged(ctx, &doc)
		assert.True(t, bridgeerrors.IsSessionClosed(err))
	})
}

func TestEventsKeepArrivalOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	first := factory.Document(dir, "mcad")
	second := factory.Document(dir, "ucad")

	env.sessions.EXPECT().CurrentSession().Return(running()).AnyTimes()
	var methods []string
	var uris []protocol.DocumentURI
	env.sessions.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, method string, params interface{}) error {
			methods = append(methods, method)
			switch p := params.(type) {
			case *entity.ActiveFileChangedParams:
				uris = append(uris, p.URI)
			case *protocol.DidOpenTextDocumentParams:
				uris = append(uris, p.TextDocument.URI)
			}
			return nil
		}).Times(3)

	require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, &first))
	require.NoError(t, env.forwarder.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: second.URI, LanguageID: entity.LanguageMicrocad, Text: "part a() {}"},
	}))
	require.NoError(t, env.forwarder.ActiveDocumentChanged(ctx, &second))

	assert.Equal(t, []string{
		entity.MethodActiveFileChanged,
		protocol.MethodTextDocumentDidOpen,
		entity.MethodActiveFileChanged,
	}, methods)
	assert.Equal(t, []protocol.DocumentURI{first.URI, second.URI, second.URI}, uris)
}

func TestDocumentSync(t *testing.T) {
	ctx := context.Background()
	doc := factory.Document(t.TempDir(), "mcad")
	other := protocol.DocumentURI("file:///workspace/notes.txt")

	tests := []struct {
		name    string
		method  string
		matches func(f Controller) error
		dropped func(f Controller) error
	}{
		{
			name:   "didOpen",
			method: protocol.MethodTextDocumentDidOpen,
			matches: func(f Controller) error {
				return f.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
					TextDocument: protocol.TextDocumentItem{URI: doc.URI, LanguageID: entity.LanguageMicrocad},
				})
			},
			dropped: func(f Controller) error {
				return f.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
					TextDocument: protocol.TextDocumentItem{URI: doc.URI, LanguageID: "plaintext"},
				})
			},
		},
		{
			name:   "didChange",
			method: protocol.MethodTextDocumentDidChange,
			matches: func(f Controller) error {
				return f.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
					TextDocument: protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: doc.URI}, Version: 2},
				})
			},
			dropped: func(f Controller) error {
				return f.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
					TextDocument: protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: other}, Version: 2},
				})
			},
		},
		{
			name:   "didSave",
			method: protocol.MethodTextDocumentDidSave,
			matches: func(f Controller) error {
				return f.DidSave(ctx, &protocol.DidSaveTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI}})
			},
			dropped: func(f Controller) error {
				return f.DidSave(ctx, &protocol.DidSaveTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: other}})
			},
		},
		{
			name:   "didClose",
			method: protocol.MethodTextDocumentDidClose,
			matches: func(f Controller) error {
				return f.DidClose(ctx, &protocol.DidCloseTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: doc.URI}})
			},
			dropped: func(f Controller) error {
				return f.DidClose(ctx, &protocol.DidCloseTextDocumentParams{TextDocument: protocol.TextDocumentIdentifier{URI: other}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.sessions.EXPECT().CurrentSession().Return(running())
			env.sessions.EXPECT().Notify(gomock.Any(), tt.method, gomock.Any()).Return(nil)

			require.NoError(t, tt.matches(env.forwarder))
			require.NoError(t, tt.dropped(env.forwarder))
			assert.Equal(t, int64(1), env.counter("sent"))
			assert.Equal(t, int64(1), env.counter("dropped"))
		})
	}
}

func TestFilesChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		env := newTestEnv(t, nil)
		assert.NoError(t, env.forwarder.FilesChanged(ctx, nil))
	})

	t.Run("sent as watched file changes", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.sessions.EXPECT().CurrentSession().Return(running())
		env.sessions.EXPECT().Notify(gomock.Any(), protocol.MethodWorkspaceDidChangeWatchedFiles, &protocol.DidChangeWatchedFilesParams{
			Changes: []*protocol.FileEvent{{URI: uri.File("/workspace/gear.mcad"), Type: protocol.FileChangeTypeDeleted}},
		}).Return(nil)

		require.NoError(t, env.forwarder.FilesChanged(ctx, []entity.FileEvent{{Path: "/workspace/gear.mcad", Type: protocol.FileChangeTypeDeleted}}))
	})
}

func TestWatchWorkspace(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		env := newTestEnv(t, map[string]interface{}{"enabled": false})
		require.NoError(t, env.forwarder.WatchWorkspace(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder(t.TempDir())}))
		assert.NoError(t, env.forwarder.StopWatching(ctx))
	})

	t.Run("missing folder", func(t *testing.T) {
		env := newTestEnv(t, map[string]interface{}{"enabled": true, "debounceMs": 10})
		err := env.forwarder.WatchWorkspace(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder(filepath.Join(t.TempDir(), "missing"))})
		assert.Error(t, err)
		assert.NoError(t, env.forwarder.StopWatching(ctx))
	})

	t.Run("remote folder", func(t *testing.T) {
		env := newTestEnv(t, map[string]interface{}{"enabled": true, "debounceMs": 10})
		folders := []protocol.WorkspaceFolder{
			{URI: "vscode-vfs://github/acme/gears", Name: "gears"},
			factory.WorkspaceFolder(t.TempDir()),
		}

		var err error
		require.NotPanics(t, func() { err = env.forwarder.WatchWorkspace(ctx, folders) })
		assert.ErrorContains(t, err, `workspace folder "vscode-vfs://github/acme/gears" is not a local directory`)
		assert.NoError(t, env.forwarder.StopWatching(ctx))
	})

	t.Run("changes are forwarded", func(t *testing.T) {
		env := newTestEnv(t, map[string]interface{}{"enabled": true, "debounceMs": 10})
		root := t.TempDir()
		file := filepath.Join(root, "gear.µcad")

		received := make(chan *protocol.DidChangeWatchedFilesParams, 4)
		env.sessions.EXPECT().CurrentSession().Return(running()).AnyTimes()
		env.sessions.EXPECT().Notify(gomock.Any(), protocol.MethodWorkspaceDidChangeWatchedFiles, gomock.Any()).DoAndReturn(
			func(ctx context.Context, method string, params interface{}) error {
				received <- params.(*protocol.DidChangeWatchedFilesParams)
				return nil
			}).MinTimes(1)

		env.lifecycle.RequireStart()
		require.NoError(t, env.forwarder.WatchWorkspace(ctx, []protocol.WorkspaceFolder{factory.WorkspaceFolder(root)}))
		require.NoError(t, os.WriteFile(file, []byte("part gear() {}"), 0o644))

		select {
		case params := <-received:
			require.Len(t, params.Changes, 1)
			assert.Equal(t, uri.File(file), params.Changes[0].URI)
			assert.Equal(t, protocol.FileChangeTypeCreated, params.Changes[0].Type)
		case <-time.After(5 * time.Second):
			require.Fail(t, "file change was not forwarded")
		}
		env.lifecycle.RequireStop()
	})
}
