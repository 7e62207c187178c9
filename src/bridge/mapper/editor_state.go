package mapper

import (
	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/model"
	"go.lsp.dev/protocol"
)

// EditorStateToActiveDocument maps the stored active document to its entity equivalent. The result is zero when no document is active.
func EditorStateToActiveDocument(s *model.EditorState) entity.Document {
	return entity.Document{
		URI:        protocol.DocumentURI(s.ActiveDocumentURI),
		LanguageID: protocol.LanguageIdentifier(s.ActiveLanguageID),
	}
}

// ActiveDocumentToEditorState records a document as active in the model. A nil document clears it.
func ActiveDocumentToEditorState(doc *entity.Document, s *model.EditorState) {
	if doc == nil {
		s.ActiveDocumentURI = ""
		s.ActiveLanguageID = ""
		return
	}
	s.ActiveDocumentURI = string(doc.URI)
	s.ActiveLanguageID = string(doc.LanguageID)
}
