package archway

import (
	"context"
	"path/filepath"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
)

// Clean removes persisted localnet state. The chain writes files as the
// container's root user, so removal runs inside the debug image over a
// mount of the backend root.
func (n *Network) Clean(ctx context.Context, scope network.Scope) error {
	target := "/state/archway/data"
	if scope == network.ScopeAll {
		target = "/state/archway"
	}

	out, err := n.runner.Run(ctx, cosmoscli.Invocation{
		Bin: "docker",
		Args: []string{
			"run", "--rm",
			"-v", filepath.Clean(n.root) + ":/state",
			"--entrypoint", "rm",
			DebugImage,
			"-rf", target,
		},
	})
	if err != nil {
		return ErrClean.Wrap(err.Error())
	}
	if !out.Success() {
		return ErrClean.Wrap(string(out.Stderr))
	}
	return nil
}
