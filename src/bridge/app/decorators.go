package app

import (
	"fmt"
	"path"

	"github.com/uber/microcad-bridge/src/bridge/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKeyServerInfoFile = "serverInfoFilePath"

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Cfg config.Provider
	FS  fs.BridgeFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	if err := ensureServerInfoFolder(combined, p.FS); err != nil {
		return nil, fmt.Errorf("ensuring server info folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.BridgeFS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		dir := path.Dir(outputPath)
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}

// The server info file is written before anything else could create its directory.
func ensureServerInfoFolder(cfg config.Provider, fs fs.BridgeFS) error {
	var infoFilePath string
	if err := cfg.Get(_configKeyServerInfoFile).Populate(&infoFilePath); err != nil {
		return fmt.Errorf("loading %q: %v", _configKeyServerInfoFile, err)
	}
	if infoFilePath == "" {
		return nil
	}
	return fs.MkdirAll(path.Dir(infoFilePath))
}
