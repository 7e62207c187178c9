package entity

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// TransportConfigKey is the key that contains the transport configuration.
	TransportConfigKey = "transport"

	// DefaultPipeFlag is the language client convention for passing the socket path to a spawned server.
	DefaultPipeFlag = "--pipe="
)

// TransportKind selects how the bridge reaches the language server.
type TransportKind string

const (
	// TransportStdio spawns the server and exchanges messages over its stdin and stdout.
	TransportStdio TransportKind = "stdio"
	// TransportPipe spawns the server and exchanges messages over a unix domain socket.
	TransportPipe TransportKind = "pipe"
	// TransportTCP dials an already running server over loopback.
	TransportTCP TransportKind = "tcp"
)

// Valid reports whether the kind is one of the supported transports.
func (k TransportKind) Valid() bool {
	return k == TransportStdio || k == TransportPipe || k == TransportTCP
}

// Spawns reports whether the transport launches the server process itself.
func (k TransportKind) Spawns() bool {
	return k == TransportStdio || k == TransportPipe
}

// TransportConfig is the immutable transport configuration loaded at startup.
type TransportConfig struct {
	Kind             TransportKind `yaml:"kind"`
	Command          string        `yaml:"command"`
	Args             []string      `yaml:"args"`
	LogFile          string        `yaml:"logFile"`
	Env              []string      `yaml:"env"`
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ConnectTimeoutMs int           `yaml:"connectTimeoutMs"`
	KillGraceMs      int           `yaml:"killGraceMs"`
	// PipeFlag prefixes the socket path handed to a server spawned by the pipe transport.
	PipeFlag         string        `yaml:"pipeFlag"`
}

// Address is the loopback address dialed by the tcp transport.
func (c TransportConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ConnectTimeout bounds dialing or waiting for a spawned server to connect back.
func (c TransportConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

// KillGrace is how long a spawned server may take to exit after its streams close.
func (c TransportConfig) KillGrace() time.Duration {
	return time.Duration(c.KillGraceMs) * time.Millisecond
}

// PipeArgument is the argument telling a spawned server which socket to connect back to.
func (c TransportConfig) PipeArgument(socketPath string) string {
	if c.PipeFlag == "" {
		return DefaultPipeFlag + socketPath
	}
	return c.PipeFlag + socketPath
}

// Validate checks that the fields required by the selected kind are present.
func (c TransportConfig) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("unsupported transport kind %q", c.Kind)
	}
	if c.ConnectTimeoutMs <= 0 {
		return fmt.Errorf("connectTimeoutMs must be positive, got %d", c.ConnectTimeoutMs)
	}

	if c.Kind.Spawns() {
		if c.Command == "" {
			return fmt.Errorf("transport %q requires a command", c.Kind)
		}
		return nil
	}

	if c.Host == "" {
		return fmt.Errorf("transport %q requires a host", c.Kind)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("transport %q requires a valid port, got %d", c.Kind, c.Port)
	}
	return nil
}
