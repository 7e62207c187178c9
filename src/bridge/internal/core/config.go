package core

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_envConfigDir   = "MICROCAD_BRIDGE_CONFIG_DIR"
	_envEnvironment = "MICROCAD_BRIDGE_ENVIRONMENT"

	_baseConfigFile = "config/base.yaml"
	_metaConfigFile = "meta.yaml"
)

//go:embed config/*.yaml
var _embeddedConfig embed.FS

var ConfigModule = fx.Options(
	fx.Provide(NewEnvironment),
	fx.Provide(NewConfig),
)

// ConfigDir is an optional directory holding a meta.yaml that lists override files.
type ConfigDir string

// Environment selects an embedded configuration overlay.
type Environment string

const (
	// EnvLocal indicates that the bridge runs with the production defaults.
	EnvLocal Environment = "local"
	// EnvDevelopment enables verbose logging and the debug language server log file.
	EnvDevelopment Environment = "development"
)

// NewEnvironment reads the environment from MICROCAD_BRIDGE_ENVIRONMENT, defaulting to local.
func NewEnvironment() Environment {
	if os.Getenv(_envEnvironment) == string(EnvDevelopment) {
		return EnvDevelopment
	}
	return EnvLocal
}

type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

// NewConfig layers the embedded defaults, the environment overlay and any files listed in the config directory's meta.yaml.
func NewConfig(dir ConfigDir, env Environment) (uber_config.Provider, error) {
	base, err := _embeddedConfig.ReadFile(_baseConfigFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded configuration: %w", err)
	}
	options := []uber_config.YAMLOption{uber_config.Source(bytes.NewReader(base))}

	if env != EnvLocal {
		overlay, err := _embeddedConfig.ReadFile(fmt.Sprintf("config/%s.yaml", env))
		if err != nil {
			return nil, fmt.Errorf("reading embedded %q configuration: %w", env, err)
		}
		options = append(options, uber_config.Source(bytes.NewReader(overlay)))
	}

	if configDir := getConfigDir(dir); configDir != "" {
		files, err := overrideFiles(configDir)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			options = append(options, uber_config.File(file))
		}
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

// overrideFiles returns the files listed in meta.yaml that exist in the config directory.
func overrideFiles(configDir string) ([]string, error) {
	metaPath := filepath.Join(configDir, _metaConfigFile)
	metaProvider, err := uber_config.NewYAML(
		uber_config.File(metaPath),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var configFiles []string
	if err := metaProvider.Get("files").Populate(&configFiles); err != nil {
		return nil, fmt.Errorf("failed to read files list from meta.yaml: %w", err)
	}

	var validFiles []string
	for _, file := range configFiles {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			validFiles = append(validFiles, fullPath)
		}
	}

	if len(validFiles) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}
	return validFiles, nil
}

// getConfigDir prefers the directory given on the command line over the environment variable.
func getConfigDir(dir ConfigDir) string {
	if dir != "" {
		return string(dir)
	}
	return os.Getenv(_envConfigDir)
}
