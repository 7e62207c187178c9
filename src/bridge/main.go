package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/uber/microcad-bridge/src/bridge/app"
	"github.com/uber/microcad-bridge/src/bridge/internal/core"
	"go.uber.org/fx"
)

var _version = "(to be added by the release build)"

func opts(configDir string) fx.Option {
	return fx.Options(
		fx.Supply(core.ConfigDir(configDir)),
		app.Module,
	)
}

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "microcad-bridge",
		Short: "Connects editor hosts to the microcad language server",
		Long: `Accepts JSON-RPC connections from editor hosts on a loopback port and
manages a single microcad language server session on their behalf.

The address the bridge listens on is published in the server info file.`,
		Version:      _version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fx.New(opts(configDir))
			if err := a.Err(); err != nil {
				return err
			}
			a.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "directory holding a meta.yaml that lists configuration overrides")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
