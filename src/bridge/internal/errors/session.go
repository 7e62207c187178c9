package errors

import (
	stderr "errors"
	"fmt"

	"go.lsp.dev/protocol"
)

// TransportError indicates that the connection to the language server could not be established or was lost while being set up.
type TransportError struct {
	Transport string
	Op        string
	Err       error
}

// Error is an implementation of the error interface.
func (t *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %s: %v", t.Transport, t.Op, t.Err)
}

// Unwrap returns the underlying failure.
func (t *TransportError) Unwrap() error {
	return t.Err
}

// IsTransport reports whether a TransportError is part of the error chain.
func IsTransport(e error) bool {
	var te *TransportError
	return stderr.As(e, &te)
}

// ProtocolError indicates that the language server rejected a request or answered it with an error payload.
type ProtocolError struct {
	Method  string
	Code    int64
	Message string
}

// Error is an implementation of the error interface.
func (p *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", p.Method, p.Message)
}

// AsProtocol returns the ProtocolError and true if it is part of the error chain.
func AsProtocol(e error) (*ProtocolError, bool) {
	var pe *ProtocolError
	if !stderr.As(e, &pe) {
		return nil, false
	}
	return pe, true
}

// SessionClosedError indicates that the connection to the language server closed while a call was in flight.
type SessionClosedError struct {
	Cause error
}

// Error is an implementation of the error interface.
func (s *SessionClosedError) Error() string {
	if s.Cause != nil {
		return fmt.Sprintf("language server connection closed: %v", s.Cause)
	}
	return "language server connection closed"
}

// Unwrap returns the error that closed the connection, if any.
func (s *SessionClosedError) Unwrap() error {
	return s.Cause
}

// IsSessionClosed reports whether a SessionClosedError is part of the error chain.
func IsSessionClosed(e error) bool {
	var sc *SessionClosedError
	return stderr.As(e, &sc)
}

// PreconditionKind enumerates the reasons a command is refused before anything is sent.
type PreconditionKind int

const (
	// NoActiveDocument indicates that the editor has no focused buffer.
	NoActiveDocument PreconditionKind = iota + 1
	// DocumentNotHandled indicates that the focused buffer is not handled by the language server.
	DocumentNotHandled
	// SessionNotRunning indicates that no running session exists.
	SessionNotRunning
	// UnknownCommand indicates that the command is not relayed by the bridge.
	UnknownCommand
)

// PreconditionError indicates that a command was refused locally without contacting the language server.
type PreconditionError struct {
	Kind     PreconditionKind
	Document protocol.DocumentURI
	State    string
	Command  string
}

// Error is an implementation of the error interface.
func (p *PreconditionError) Error() string {
	switch p.Kind {
	case NoActiveDocument:
		return "no active document"
	case DocumentNotHandled:
		return fmt.Sprintf("document %q is not handled by the language server", p.Document)
	case SessionNotRunning:
		return fmt.Sprintf("language server session is not running (state %s)", p.State)
	case UnknownCommand:
		return fmt.Sprintf("unknown command %q", p.Command)
	default:
		return "precondition failed"
	}
}

// IsPrecondition reports whether a PreconditionError of the given kind is part of the error chain.
func IsPrecondition(e error, kind PreconditionKind) bool {
	var pe *PreconditionError
	if !stderr.As(e, &pe) {
		return false
	}
	return pe.Kind == kind
}
