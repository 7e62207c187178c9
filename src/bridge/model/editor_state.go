package model

import (
	"go.lsp.dev/protocol"
)

// EditorState is the repository layer model for what the editor host last reported.
type EditorState struct {
	ActiveDocumentURI string
	ActiveLanguageID  string
	WorkspaceFolders  []protocol.WorkspaceFolder
}
