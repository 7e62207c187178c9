package entity

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// LanguageMicrocad is the language identifier registered by editors for microcad sources.
const LanguageMicrocad protocol.LanguageIdentifier = "microcad"

// DocumentSelectorConfigKey is the key that contains the document selector.
const DocumentSelectorConfigKey = "documentSelector"

// Document identifies an editor buffer.
type Document struct {
	URI        protocol.DocumentURI        `json:"uri"`
	LanguageID protocol.LanguageIdentifier `json:"languageId,omitempty"`
}

// IsZero reports whether no document is set.
func (d Document) IsZero() bool {
	return d.URI == ""
}

// Scheme returns the URI scheme of the document, or an empty string if the URI cannot be parsed.
func (d Document) Scheme() string {
	u, err := url.Parse(string(d.URI))
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Filename returns the local file system path of a file scheme document.
func (d Document) Filename() (string, bool) {
	if d.Scheme() != uri.FileScheme {
		return "", false
	}
	u, err := url.Parse(string(d.URI))
	if err != nil || u.Path == "" {
		return "", false
	}
	return uri.URI(d.URI).Filename(), true
}

// Extension returns the file extension of the document without the leading dot.
func (d Document) Extension() string {
	u, err := url.Parse(string(d.URI))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(path.Ext(u.Path), ".")
}

// DocumentSelector describes which documents are handled by the language server.
type DocumentSelector struct {
	Scheme     string                      `yaml:"scheme" json:"scheme"`
	Language   protocol.LanguageIdentifier `yaml:"language" json:"language"`
	Extensions []string                    `yaml:"extensions" json:"extensions"`
}

// Matches reports whether the document is handled by the language server.
// Documents without a language identifier are matched by file extension.
func (s DocumentSelector) Matches(doc Document) bool {
	if doc.IsZero() {
		return false
	}
	if s.Scheme != "" && doc.Scheme() != s.Scheme {
		return false
	}

	if doc.LanguageID != "" {
		return doc.LanguageID == s.Language
	}
	return s.MatchesExtension(doc.Extension())
}

// MatchesExtension reports whether the extension, with or without a leading dot, is one of the selector's extensions.
func (s DocumentSelector) MatchesExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return false
	}
	return slices.Contains(s.Extensions, ext)
}
