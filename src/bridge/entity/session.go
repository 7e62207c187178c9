// Package entity contains the domain types of the microcad bridge.
package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

type keyType string

// SessionConfigKey is the key that contains the session configuration.
const SessionConfigKey = "session"

// EditorContextKey indicates the key to be used to identify the editor connection UUID in the context.
const EditorContextKey keyType = "EditorUUID"

// SessionState is the lifecycle state of the language server session.
type SessionState int32

const (
	// SessionUninitialized indicates that no session has been started yet.
	SessionUninitialized SessionState = iota
	// SessionStarting indicates that a connection is being established and the initialize handshake is in progress.
	SessionStarting
	// SessionRunning indicates that the session accepts requests and notifications.
	SessionRunning
	// SessionStopping indicates that shutdown and exit are being sent.
	SessionStopping
	// SessionStopped indicates that the session has ended, either on request or because the connection closed.
	SessionStopped
)

var _sessionStateNames = map[SessionState]string{
	SessionUninitialized: "uninitialized",
	SessionStarting:      "starting",
	SessionRunning:       "running",
	SessionStopping:      "stopping",
	SessionStopped:       "stopped",
}

// String implements fmt.Stringer.
func (s SessionState) String() string {
	if name, ok := _sessionStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Session entity representing the single live connection to the language server.
// Sessions are immutable once created; the owning manager replaces them rather than mutating.
type Session struct {
	UUID             uuid.UUID        `json:"uuid" zap:"uuid"`
	Transport        TransportKind    `json:"transport" zap:"transport"`
	DocumentSelector DocumentSelector `json:"documentSelector" zap:"documentSelector"`
	ServerName       string           `json:"serverName,omitempty" zap:"serverName"`
	ServerVersion    string           `json:"serverVersion,omitempty" zap:"serverVersion"`
	StartedAt        time.Time        `json:"startedAt" zap:"startedAt"`
}

// String implements fmt.Stringer.
func (s *Session) String() string {
	if s == nil {
		return ""
	}
	return s.UUID.String()
}

// SessionConfig holds the timeouts and client identity used for every session.
type SessionConfig struct {
	ClientName        string `yaml:"clientName"`
	ShutdownTimeoutMs int    `yaml:"shutdownTimeoutMs"`
	RequestTimeoutMs  int    `yaml:"requestTimeoutMs"`
}

// ShutdownTimeout bounds the shutdown request and exit notification sent when a session stops.
func (c SessionConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMs) * time.Millisecond
}

// RequestTimeout bounds each request sent to the language server.
func (c SessionConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
