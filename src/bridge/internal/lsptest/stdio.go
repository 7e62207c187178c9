package lsptest

import (
	"io"
	"os"

	"go.uber.org/multierr"
)

type readWriteCloser struct {
	io.ReadCloser
	io.WriteCloser
}

// Close closes both halves of the stream.
func (rwc readWriteCloser) Close() error {
	return multierr.Append(rwc.ReadCloser.Close(), rwc.WriteCloser.Close())
}

// Stdio returns a stream over the process's standard input and output, for helper processes acting as a spawned server.
func Stdio() io.ReadWriteCloser {
	return readWriteCloser{ReadCloser: os.Stdin, WriteCloser: os.Stdout}
}
