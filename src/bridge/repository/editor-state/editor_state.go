package editorstate

import (
	"context"
	"slices"
	"sync"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/mapper"
	"github.com/uber/microcad-bridge/src/bridge/model"
	"go.lsp.dev/protocol"
)

// Repository keeps the editor state shared by every editor connection: the focused document and the workspace folders.
type Repository interface {
	// ActiveDocument returns the focused document, or a NoActiveDocument precondition error if none is focused.
	ActiveDocument(ctx context.Context) (entity.Document, error)
	// SetActiveDocument records the focused document. A nil document clears it.
	SetActiveDocument(ctx context.Context, doc *entity.Document) error
	WorkspaceFolders(ctx context.Context) []protocol.WorkspaceFolder
	SetWorkspaceFolders(ctx context.Context, folders []protocol.WorkspaceFolder) error
	// Reset forgets everything recorded so far.
	Reset(ctx context.Context)
}

type repository struct {
	mu    sync.Mutex
	state model.EditorState
	stats tally.Scope
}

// New returns a repository holding the editor state in memory.
func New(stats tally.Scope) Repository {
	return &repository{
		stats: stats.SubScope("editor"),
	}
}

func (r *repository) ActiveDocument(ctx context.Context) (entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := mapper.EditorStateToActiveDocument(&r.state)
	if doc.IsZero() {
		return entity.Document{}, &errors.PreconditionError{Kind: errors.NoActiveDocument}
	}
	return doc, nil
}

func (r *repository) SetActiveDocument(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mapper.ActiveDocumentToEditorState(doc, &r.state)
	r.stats.Counter("active_document_changes").Inc(1)
	return nil
}

func (r *repository) WorkspaceFolders(ctx context.Context) []protocol.WorkspaceFolder {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.state.WorkspaceFolders)
}

func (r *repository) SetWorkspaceFolders(ctx context.Context, folders []protocol.WorkspaceFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.WorkspaceFolders = slices.Clone(folders)
	r.stats.Gauge("workspace_folders").Update(float64(len(folders)))
	return nil
}

func (r *repository) Reset(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = model.EditorState{}
	r.stats.Gauge("workspace_folders").Update(0)
}
