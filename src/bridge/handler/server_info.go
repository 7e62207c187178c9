package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/uber/microcad-bridge/src/bridge/entity"
	"github.com/uber/microcad-bridge/src/bridge/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_errInvalidEntry = "type error or missing field for key %q"

	_infoKeyPid           = "pid"
	_infoKeyTransportKind = "transport-kind"
)

// Output details about the bridge process so that editor hosts can find and identify it.
// The JSON-RPC module independently adds the address it listens on.
func outputProcessInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	var transportCfg entity.TransportConfig
	if err := cfg.Get(entity.TransportConfigKey).Populate(&transportCfg); err != nil {
		return fmt.Errorf("loading transport config: %v", err)
	}
	if !transportCfg.Kind.Valid() {
		return fmt.Errorf(_errInvalidEntry, entity.TransportConfigKey+".kind")
	}

	if err := infofile.UpdateField(_infoKeyPid, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoKeyPid, err)
	}
	if err := infofile.UpdateField(_infoKeyTransportKind, string(transportCfg.Kind)); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoKeyTransportKind, err)
	}

	return nil
}
