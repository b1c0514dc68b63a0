package archway

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

// StartLocal launches the localnet container detached and blocks until the
// chain produces a block. The returned handle stops the container on
// Release; chain state survives in the mounted home directory.
func (n *Network) StartLocal(ctx context.Context) (proc.Handle, error) {
	out, err := n.runner.Run(ctx, cosmoscli.Invocation{
		Bin: "docker",
		Args: []string{
			"run", "-d", "--name", ContainerName,
			"-p", "9090:9090",
			"-p", "26657:26657",
			"-v", n.home() + ":" + containerHome,
			Image,
			"start",
		},
	})
	if err != nil {
		return nil, ErrStart.Wrap(err.Error())
	}
	if !out.Success() {
		return nil, ErrStart.Wrap(string(out.Stderr))
	}

	handle := &containerHandle{runner: n.runner, logger: n.logger, name: ContainerName}

	if _, err := network.WaitForBlocks(ctx, n); err != nil {
		handle.Release()
		return nil, ErrStart.Wrap(err.Error())
	}
	return handle, nil
}

// containerHandle owns a detached docker container.
type containerHandle struct {
	runner cosmoscli.Runner
	logger zerolog.Logger
	name   string
}

// Foreground streams the container's logs until the user interrupts, then
// returns leaving the container running.
func (h *containerHandle) Foreground(ctx context.Context) error {
	ctx, stop := proc.WithInterrupt(ctx)
	defer stop()

	cmd := exec.CommandContext(ctx, "docker", "logs", "-f", h.name)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return ErrStart.Wrapf("follow logs: %v", err)
	}
	return nil
}

// Release stops the container. Failures are logged, not returned.
func (h *containerHandle) Release() {
	out, err := h.runner.Run(context.Background(), cosmoscli.Invocation{
		Bin:  "docker",
		Args: []string{"stop", h.name},
	})
	switch {
	case err != nil:
		h.logger.Error().Err(err).Str("container", h.name).Msg("stop container")
	case !out.Success():
		h.logger.Error().Str("container", h.name).Str("stderr", strings.TrimSpace(string(out.Stderr))).Msg("stop container")
	default:
		h.logger.Info().Str("container", h.name).Msg("stopped")
	}
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
