package entity

import (
	"time"

	"go.lsp.dev/protocol"
)

// FileEvent is a change to a watched microcad source under the workspace root.
type FileEvent struct {
	Path string                  `json:"path"`
	Type protocol.FileChangeType `json:"type"`
}

// FileWatchConfigKey is the key that contains the workspace file watching configuration.
const FileWatchConfigKey = "fileWatch"

// FileWatchConfig controls watching of microcad sources under the workspace folders.
type FileWatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounceMs"`
}

// Debounce is how long a path must stay quiet before its change is reported.
func (c FileWatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
