// Package cmd wires the xtask CLI: pick a network backend with --network,
// then initialize, start, clean or deploy against it.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network/archway"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network/neutron"
)

// Supported --network values.
const (
	NetworkArchwayLocal   = "archway-local"
	NetworkNeutronLocal   = "neutron-local"
	NetworkNeutronTestnet = "neutron-testnet"
)

var (
	flagNetwork  string
	flagLogLevel string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xtask",
		Short: "Deploy and test CosmWasm contracts on local and remote networks",
		Long: `xtask bootstraps disposable chain environments for CosmWasm
development: a dockerized archway localnet, a native neutron localnet
with an IBC-connected gaia chain and relayers, or the public neutron
testnet. On top of whichever backend is selected it stores, instantiates,
executes and queries contracts.

State persists under .xtask in the working directory; set ` + network.StateRootEnv + `
to relocate it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flagNetwork, "network", "n", NetworkNeutronLocal,
		fmt.Sprintf("target network (%s|%s|%s)", NetworkArchwayLocal, NetworkNeutronLocal, NetworkNeutronTestnet))
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"log level (trace|debug|info|warn|error)")

	v := viper.New()
	v.SetEnvPrefix("XTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	cobra.CheckErr(v.BindPFlags(cmd.PersistentFlags()))

	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		flagNetwork = v.GetString("network")
		flagLogLevel = v.GetString("log-level")
		return nil
	}

	cmd.AddCommand(
		initCmd(),
		startCmd(),
		cleanCmd(),
		cleanAllCmd(),
		deployCmd(),
		keysCmd(),
	)
	return cmd
}

// Execute runs the CLI. Errors are logged here; the caller only decides
// the exit code.
func Execute() error {
	err := rootCmd().Execute()
	if err != nil {
		logger := newLogger()
		logger.Error().Err(err).Msg("xtask failed")
	}
	return err
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// initNetwork initializes the backend selected by --network, bootstrapping
// it on first use and resuming persisted state after.
func initNetwork(ctx context.Context, logger zerolog.Logger) (network.Network, error) {
	switch flagNetwork {
	case NetworkArchwayLocal:
		return archway.Initialize(ctx, archway.WithLogger(logger))
	case NetworkNeutronLocal:
		return neutron.InitializeLocal(ctx, neutron.WithLogger(logger))
	case NetworkNeutronTestnet:
		return neutron.InitializeTestnet(ctx, neutron.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown network %q", flagNetwork)
	}
}
