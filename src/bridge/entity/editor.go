package entity

import (
	"go.lsp.dev/protocol"
)

// Commands relayed to the language server through workspace/executeCommand.
const (
	CommandShowPreview = "microcad.showPreview"
	CommandHidePreview = "microcad.hidePreview"
)

// Custom methods exchanged with the editor host and the language server.
const (
	// MethodActivate is sent by the editor host once it is ready, and starts the language server session.
	MethodActivate = "microcad/activate"
	// MethodDeactivate is sent by the editor host on shutdown, and stops the language server session.
	MethodDeactivate = "microcad/deactivate"
	// MethodActiveDocumentChanged is sent by the editor host whenever the focused buffer changes.
	MethodActiveDocumentChanged = "microcad/activeDocumentChanged"
	// MethodActiveFileChanged is sent to the language server when a microcad buffer gains focus.
	MethodActiveFileChanged = "custom/activeFileChanged"
)

// ActivateParams are sent by the editor host with microcad/activate.
type ActivateParams struct {
	WorkspaceFolders []protocol.WorkspaceFolder `json:"workspaceFolders,omitempty"`
}

// ActivateResult reports the session state after activation.
type ActivateResult struct {
	State     string        `json:"state"`
	SessionID string        `json:"sessionId,omitempty"`
	Transport TransportKind `json:"transport,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// ActiveDocumentChangedParams are sent by the editor host with microcad/activeDocumentChanged.
// A nil Document indicates that no editor buffer is active.
type ActiveDocumentChangedParams struct {
	Document *Document `json:"document"`
}

// ActiveFileChangedParams are sent to the language server with custom/activeFileChanged.
type ActiveFileChangedParams struct {
	URI protocol.DocumentURI `json:"uri"`
}

// PreviewURI is the URI object form decoded by the language server for preview commands.
type PreviewURI struct {
	External string `json:"external"`
	FSPath   string `json:"fsPath,omitempty"`
}

// PreviewArgument is the single argument of the show preview command.
type PreviewArgument struct {
	URI PreviewURI `json:"uri"`
}

// CommandResult is the result returned to the editor host for a relayed command.
type CommandResult struct {
	Command string      `json:"command"`
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Payload interface{} `json:"payload,omitempty"`
}

// Notice is a single line message shown to the user.
type Notice struct {
	Type    protocol.MessageType
	Message string
}
