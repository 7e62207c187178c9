package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber/microcad-bridge/src/bridge/entity"
	bridgeerrors "github.com/uber/microcad-bridge/src/bridge/internal/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _fmtSocketName = "microcad-lsp-%s.sock"

func (s *selector) spawnStdio(ctx context.Context, cfg entity.TransportConfig) (Connection, error) {
	cmd, err := s.command(cfg, _flagStdio)
	if err != nil {
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "spawn", Err: err}
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "spawn", Err: err}
	}
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		multierr.AppendInvoke(&err, multierr.Close(stdinR))
		multierr.AppendInvoke(&err, multierr.Close(stdinW))
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "spawn", Err: err}
	}
	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	cmd.Stderr = s.output

	startErr := s.executor.Start(cmd)
	// The child holds its own copies of these ends.
	stdinR.Close()
	stdoutW.Close()
	if startErr != nil {
		stdinW.Close()
		stdoutR.Close()
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "spawn", Err: startErr}
	}

	return &processConn{
		Reader:  stdoutR,
		Writer:  stdinW,
		input:   stdinW,
		output:  stdoutR,
		process: s.watch(cmd, cfg.KillGrace()),
		kind:    cfg.Kind,
	}, nil
}

func (s *selector) spawnPipe(ctx context.Context, cfg entity.TransportConfig) (Connection, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "listen", Err: err}
	}
	socketPath := filepath.Join(os.TempDir(), fmt.Sprintf(_fmtSocketName, id.String()[:8]))
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "listen", Err: err}
	}
	defer func() {
		ln.Close()
		if err := s.fs.Remove(socketPath); err != nil {
			s.logger.Warnw("removing socket file", "path", socketPath, zap.Error(err))
		}
	}()

	cmd, err := s.command(cfg, cfg.PipeArgument(socketPath))
	if err != nil {
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "spawn", Err: err}
	}
	cmd.Stdout = s.output
	cmd.Stderr = s.output

	if err := s.executor.Start(cmd); err != nil {
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "spawn", Err: err}
	}
	p := s.watch(cmd, cfg.KillGrace())

	conn, err := accept(ctx, ln, p.exited, cfg.ConnectTimeout())
	if err != nil {
		p.kill()
		return nil, &bridgeerrors.TransportError{Transport: string(cfg.Kind), Op: "accept", Err: err}
	}
	s.logger.Infow("language server connected", "socket", socketPath, "pid", cmd.Process.Pid)

	return &processConn{
		Reader:  conn,
		Writer:  conn,
		input:   conn,
		process: p,
		kind:    cfg.Kind,
	}, nil
}

// accept waits for the spawned server to connect back, giving up when it exits, the timeout elapses or ctx is cancelled.
func accept(ctx context.Context, ln net.Listener, exited <-chan struct{}, timeout time.Duration) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	accepted := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		accepted <- result{conn: conn, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var err error
	select {
	case r := <-accepted:
		return r.conn, r.err
	case <-exited:
		err = errors.New("language server exited before connecting")
	case <-timer.C:
		err = fmt.Errorf("no connection within %v", timeout)
	case <-ctx.Done():
		err = ctx.Err()
	}

	ln.Close()
	if r := <-accepted; r.conn != nil {
		r.conn.Close()
	}
	return nil, err
}

// process tracks a spawned server until it exits.
type process struct {
	cmd    *exec.Cmd
	logger *zap.SugaredLogger
	grace  time.Duration
	exited chan struct{}
}

func (s *selector) watch(cmd *exec.Cmd, grace time.Duration) *process {
	p := &process{
		cmd:    cmd,
		logger: s.logger,
		grace:  grace,
		exited: make(chan struct{}),
	}
	go func() {
		err := cmd.Wait()
		p.logger.Infow("language server exited", "pid", cmd.Process.Pid, zap.Error(err))
		close(p.exited)
	}()
	return p
}

// stop waits up to the grace period for the process to exit on its own, then kills it.
func (p *process) stop() error {
	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.exited:
		return nil
	case <-timer.C:
	}

	p.logger.Warnw("language server did not exit in time, killing", "pid", p.cmd.Process.Pid, "grace", p.grace)
	return p.kill()
}

func (p *process) kill() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("killing language server: %w", err)
	}
	<-p.exited
	return nil
}

// processConn is a stream to a server spawned by the bridge.
type processConn struct {
	io.Reader
	io.Writer

	// input is closed first so the server sees end of input, output once the process is gone.
	input  io.Closer
	output io.Closer

	process *process
	kind    entity.TransportKind

	closeOnce sync.Once
	closeErr  error
}

func (c *processConn) Kind() entity.TransportKind { return c.kind }

func (c *processConn) Pid() int { return c.process.cmd.Process.Pid }

// Close implements io.Closer.
func (c *processConn) Close() error {
	c.closeOnce.Do(func() {
		err := c.input.Close()
		err = multierr.Append(err, c.process.stop())
		if c.output != nil {
			err = multierr.Append(err, c.output.Close())
		}
		c.closeErr = err
	})
	return c.closeErr
}
