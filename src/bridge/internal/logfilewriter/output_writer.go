package logfilewriter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/uber/microcad-bridge/src/bridge/internal/fs"
	"github.com/uber/microcad-bridge/src/bridge/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const _fmtOutputKey = "output:%s"

// Params define the dependencies for SetupOutputWriter.
type Params struct {
	FS             fs.BridgeFS
	Lifecycle      fx.Lifecycle
	ServerInfoFile serverinfofile.ServerInfoFile
}

// SetupOutputWriter creates a writer that stores human readable output in a temporary file for reference by the user.
// It collects output of a child process, such as the language server's stderr, independently of the bridge's own logs.
// The file path will be stored in the server info file for reference by the editor host.
func SetupOutputWriter(p Params, name string) (io.Writer, error) {
	logsDirPath := filepath.Join(os.TempDir(), name)
	err := p.FS.MkdirAll(logsDirPath)
	if err != nil {
		return nil, err
	}

	logFile, err := p.FS.TempFile(logsDirPath, "output-*.log")
	if err != nil {
		return nil, err
	}

	// The editor host can tail the file by getting the file path from the server info file.
	if err := p.ServerInfoFile.UpdateField(fmt.Sprintf(_fmtOutputKey, name), logFile.Name()); err != nil {
		logFile.Close()
		return nil, err
	}

	// Write via a logger for formatting, timestamp, and performance/buffering.
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)
	w := &loggerWriter{logger: zap.New(core).Sugar()}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			w.Flush()
			w.logger.Sync()
			logFile.Close()
			return p.FS.Remove(logFile.Name())
		},
	})

	return w, nil
}

type loggerWriter struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	partial []byte
}

// Write implements the io.Writer interface by sending each complete line to the given logger.
// A trailing line without a newline is held back until the rest of it arrives.
func (o *loggerWriter) Write(p []byte) (n int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data := append(o.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		o.log(data[:i])
		data = data[i+1:]
	}
	o.partial = append([]byte(nil), data...)

	return len(p), nil
}

// Flush logs any incomplete trailing line.
func (o *loggerWriter) Flush() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.log(o.partial)
	o.partial = nil
}

func (o *loggerWriter) log(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) > 0 {
		o.logger.Info(string(line))
	}
}
