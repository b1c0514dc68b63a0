// Package archway runs a single-validator archwayd localnet inside docker.
// Every docker invocation goes through cosmoscli.Runner so the whole
// lifecycle is scriptable in tests.
package archway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
)

const (
	// Image is the archwayd release the localnet runs.
	Image = "ghcr.io/archway-network/archwayd:v1.0.0"
	// DebugImage carries a shell for config patching and state removal,
	// which the release image lacks.
	DebugImage = "ghcr.io/archway-network/archwayd-debug:v1.0.0"

	// ContainerName is the detached localnet container.
	ContainerName = "xtask_archwayd"

	chainID = network.ChainID("localnet")
	denom   = "stake"
	moniker = "xtask"

	// containerHome is where the state directory is mounted inside the
	// container; archwayd's default home, so no --home flag is needed.
	containerHome = "/root/.archway"
)

// Network is an initialized archway localnet backend.
type Network struct {
	network.Instance

	runner cosmoscli.Runner
	logger zerolog.Logger
	root   string
}

// Option adjusts Initialize, mainly for tests.
type Option func(*Network)

// WithRootDir overrides where chain state persists.
func WithRootDir(dir string) Option {
	return func(n *Network) { n.root = dir }
}

// WithRunner substitutes the subprocess runner.
func WithRunner(r cosmoscli.Runner) Option {
	return func(n *Network) { n.runner = r }
}

// WithLogger sets the backend's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Network) { n.logger = logger }
}

// home is the host-side state directory mounted into every container.
func (n *Network) home() string { return filepath.Join(n.root, "archway", "data") }

// Initialize returns a ready archway backend, bootstrapping genesis on the
// first call and resuming from persisted state on later ones. A failed
// bootstrap leaves partial state in place; Clean removes it.
func Initialize(ctx context.Context, opts ...Option) (*Network, error) {
	n := &Network{
		runner: cosmoscli.NewExecRunner(zerolog.Nop()),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}

	if n.root == "" {
		root, err := network.StateRoot()
		if err != nil {
			return nil, ErrInitialize.Wrap(err.Error())
		}
		n.root = root
	}

	if n.isInitialized() {
		if err := n.resume(ctx); err != nil {
			return nil, err
		}
		return n, nil
	}

	if err := n.bootstrap(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Network) isInitialized() bool {
	_, err := os.Stat(filepath.Join(n.home(), "config", "genesis.json"))
	return err == nil
}

// resume reloads the key inventory left behind by a previous bootstrap.
func (n *Network) resume(ctx context.Context) error {
	n.logger.Info().Str("home", n.home()).Msg("resuming archway localnet")

	recovered, err := n.Tool().Cmd().ListKeys(ctx, keys.BackendTest)
	if err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	n.AddKeys(recovered...)
	return nil
}

func (n *Network) bootstrap(ctx context.Context) error {
	n.logger.Info().Str("home", n.home()).Msg("bootstrapping archway localnet")

	if err := os.MkdirAll(n.home(), 0o755); err != nil {
		return ErrInitialize.Wrapf("state dir: %v", err)
	}
	if err := n.docker(ctx, "pull", Image); err != nil {
		return err
	}

	cli := n.Tool().Cmd()
	if err := cli.InitChain(ctx, moniker, chainID.String()); err != nil {
		return ErrInitialize.Wrap(err.Error())
	}

	// Two funded accounts; the first doubles as the validator.
	balance := cosmoscli.NewCoin(math.NewIntWithDecimal(1, 21), denom)
	for _, name := range []string{"local0", "local1"} {
		key, err := n.Tool().Cmd().AddKey(ctx, name, keys.BackendTest)
		if err != nil {
			return ErrInitialize.Wrap(err.Error())
		}
		if err := n.Tool().Cmd().AddGenesisAccount(ctx, key, balance); err != nil {
			return ErrInitialize.Wrap(err.Error())
		}
		n.AddKeys(key)
	}

	validator, err := network.Signer(n)
	if err != nil {
		return ErrInitialize.Wrap(err.Error())
	}

	stake := cosmoscli.NewCoin(math.NewIntWithDecimal(1, 20), denom)
	if err := n.Tool().Cmd().GenTx(ctx, validator, stake, 0, chainID.String()); err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	if err := n.Tool().Cmd().CollectGenTxs(ctx); err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	if err := n.Tool().Cmd().ValidateGenesis(ctx); err != nil {
		return ErrInitialize.Wrap(err.Error())
	}

	return n.patchConfig(ctx)
}

// patchConfig opens the RPC and gRPC endpoints to the host. The release
// image has no shell, so edits run in the debug image over the shared
// state mount.
func (n *Network) patchConfig(ctx context.Context) error {
	if err := n.docker(ctx, "pull", DebugImage); err != nil {
		return err
	}

	edits := [][]string{
		{"sed", "-i",
			"s#laddr = \"tcp://127.0.0.1:26657\"#laddr = \"tcp://0.0.0.0:26657\"#",
			containerHome + "/config/config.toml"},
		{"sed", "-i",
			"s#cors_allowed_origins = \\[\\]#cors_allowed_origins = [\"*\"]#",
			containerHome + "/config/config.toml"},
	}
	for _, edit := range edits {
		args := append([]string{
			"run", "--rm",
			"-v", n.home() + ":" + containerHome,
			"--entrypoint", edit[0],
			DebugImage,
		}, edit[1:]...)
		if err := n.docker(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) docker(ctx context.Context, args ...string) error {
	out, err := n.runner.Run(ctx, cosmoscli.Invocation{Bin: "docker", Args: args})
	if err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	if !out.Success() {
		return ErrInitialize.Wrapf("docker %s: %s", args[0], out.Stderr)
	}
	return nil
}

// ChainID implements network.Network.
func (n *Network) ChainID() network.ChainID { return chainID }

// Tool returns a pipeline factory invoking archwayd through an ephemeral
// container with the state directory and working directory mounted.
func (n *Network) Tool() *cosmoscli.Tool {
	cwd, _ := os.Getwd()
	return cosmoscli.NewTool(n.runner, n.logger, "docker",
		"run", "--rm", "-i",
		"-v", n.home()+":"+containerHome,
		"-v", cwd+":/work",
		"-w", "/work",
		Image,
	)
}

// GasPrice implements network.Network. The localnet accepts any bid, so
// tiers just scale a nominal base.
func (n *Network) GasPrice(tier network.Tier) network.Price {
	switch tier {
	case network.High:
		return network.NewPrice("1000", denom)
	case network.Medium:
		return network.NewPrice("100", denom)
	default:
		return network.NewPrice("10", denom)
	}
}

// NodeAddress resolves the running container's bridge IP once and caches
// it.
func (n *Network) NodeAddress(ctx context.Context) (network.NodeAddress, error) {
	return n.NodeAddr.GetOrInit(func() (network.NodeAddress, error) {
		out, err := n.runner.Run(ctx, cosmoscli.Invocation{
			Bin: "docker",
			Args: []string{
				"inspect", "-f",
				"{{range .NetworkSettings.Networks}}{{.IPAddress}}{{end}}",
				ContainerName,
			},
		})
		if err != nil {
			return "", ErrInspect.Wrap(err.Error())
		}
		if !out.Success() {
			return "", ErrInspect.Wrap(string(out.Stderr))
		}

		ip := firstField(string(out.Stdout))
		if ip == "" {
			return "", ErrInspect.Wrap("container has no network address")
		}
		return network.NodeAddress(fmt.Sprintf("tcp://%s:26657", ip)), nil
	})
}
