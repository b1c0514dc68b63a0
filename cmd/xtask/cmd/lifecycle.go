package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-local",
		Short: "Initialize the selected network without starting it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			net, err := initNetwork(cmd.Context(), logger)
			if err != nil {
				return err
			}

			logger.Info().
				Str("chain_id", net.ChainID().String()).
				Int("keys", len(net.Keys())).
				Msg("network initialized")
			return nil
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-local",
		Short: "Start the selected local network and follow its logs",
		Long: `Start the selected local network's processes, wait for block
production, then follow the primary chain's logfile. Interrupting the
follow stops all started processes; chain state persists for the next
start.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			net, err := initNetwork(cmd.Context(), logger)
			if err != nil {
				return err
			}

			starter, ok := net.(network.Starter)
			if !ok {
				return fmt.Errorf("network %q is not locally runnable", flagNetwork)
			}

			handle, err := starter.StartLocal(cmd.Context())
			if err != nil {
				return err
			}
			defer handle.Release()

			return handle.Foreground(cmd.Context())
		},
	}
}

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the selected network's chain state",
		Long: `Remove chain state while keeping expensive artifacts (cloned
sources, built binaries, pulled images). The next initialize re-runs
genesis only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clean(cmd, network.ScopeState)
		},
	}
}

func cleanAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean-all",
		Short: "Remove everything the selected network persisted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clean(cmd, network.ScopeAll)
		},
	}
}

func clean(cmd *cobra.Command, scope network.Scope) error {
	logger := newLogger()

	net, err := initNetwork(cmd.Context(), logger)
	if err != nil {
		return err
	}

	cleaner, ok := net.(network.Cleaner)
	if !ok {
		return fmt.Errorf("network %q has no local state", flagNetwork)
	}
	if err := cleaner.Clean(cmd.Context(), scope); err != nil {
		return err
	}

	logger.Info().Str("network", flagNetwork).Msg("cleaned")
	return nil
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the selected network's funded keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			net, err := initNetwork(cmd.Context(), newLogger())
			if err != nil {
				return err
			}

			for _, key := range net.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key.String())
			}
			return nil
		},
	}
}
