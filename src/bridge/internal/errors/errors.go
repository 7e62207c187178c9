package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoParamsOnWireError reports that a request or notification arrived without parameters.
	NoParamsOnWireError = New("params are required")
	// NoDocumentOnWireError reports that a document notification is missing its document URI.
	NoDocumentOnWireError = New("document uri is required")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	return stderr.Is(e, NoParamsOnWireError) || stderr.Is(e, NoDocumentOnWireError)
}
