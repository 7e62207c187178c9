// Package transport establishes the byte stream between the bridge and the microcad language server.
package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"github.com/uber/microcad-bridge/src/bridge/internal/executor"
	"github.com/uber/microcad-bridge/src/bridge/internal/fs"
	"github.com/uber/microcad-bridge/src/bridge/internal/logfilewriter"
	"github.com/uber/microcad-bridge/src/bridge/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_outputName = "microcad-lsp"

	_flagStdio   = "--stdio"
	_flagLogFile = "-l"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Selector builds the connection described by a transport configuration.
type Selector interface {
	// Select spawns the configured server or dials it. Only the configured variant is attempted.
	Select(ctx context.Context, cfg entity.TransportConfig) (Connection, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, cfg entity.TransportConfig) (Connection, error)

// Select calls f.
func (f SelectorFunc) Select(ctx context.Context, cfg entity.TransportConfig) (Connection, error) {
	return f(ctx, cfg)
}

// Connection is an established stream to the language server.
// Close releases everything: streams, the spawned process and any socket file. It is safe to call more than once.
type Connection interface {
	io.ReadWriteCloser
	Kind() entity.TransportKind
	// Pid returns the process id of a spawned server, or 0 for dialed connections.
	Pid() int
}

// Params define the dependencies of the Selector.
type Params struct {
	fx.In

	Executor       executor.Executor
	FS             fs.BridgeFS
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

type selector struct {
	executor executor.Executor
	fs       fs.BridgeFS
	logger   *zap.SugaredLogger
	output   io.Writer
}

// New creates a Selector. Output written by spawned servers is collected in a log file published in the server info file.
func New(p Params) (Selector, error) {
	output, err := logfilewriter.SetupOutputWriter(logfilewriter.Params{
		FS:             p.FS,
		Lifecycle:      p.Lifecycle,
		ServerInfoFile: p.ServerInfoFile,
	}, _outputName)
	if err != nil {
		return nil, fmt.Errorf("setting up language server output: %w", err)
	}

	return &selector{
		executor: p.Executor,
		fs:       p.FS,
		logger:   p.Logger.With("component", "transport"),
		output:   output,
	}, nil
}

func (s *selector) Select(ctx context.Context, cfg entity.TransportConfig) (Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &errors.TransportError{Transport: string(cfg.Kind), Op: "configure", Err: err}
	}

	switch cfg.Kind {
	case entity.TransportStdio:
		return s.spawnStdio(ctx, cfg)
	case entity.TransportPipe:
		return s.spawnPipe(ctx, cfg)
	default:
		return s.dial(ctx, cfg)
	}
}

// command builds the server invocation: configured args, the transport flag, then the log file.
// The process is not tied to ctx since it outlives the call that started it.
func (s *selector) command(cfg entity.TransportConfig, transportArgs ...string) (*exec.Cmd, error) {
	args := append(append([]string{}, cfg.Args...), transportArgs...)
	if cfg.LogFile != "" {
		if err := s.fs.MkdirAll(filepath.Dir(cfg.LogFile)); err != nil {
			return nil, fmt.Errorf("creating language server log directory: %w", err)
		}
		args = append(args, _flagLogFile, cfg.LogFile)
	}

	cmd := exec.Command(cfg.Command, args...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	return cmd, nil
}
