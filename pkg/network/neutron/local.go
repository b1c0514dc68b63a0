package neutron

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

// Local is the full neutron localnet: neutrond, gaiad, hermes and the ICQ
// relayer, all persisted under one root.
type Local struct {
	network.Instance

	tc       *toolchain
	neutrond *neutrond
	gaiad    *gaiad
	hermes   *hermes
	icq      *icqRelayer
}

// Option adjusts initialization, mainly for tests.
type Option func(*toolchain)

// WithRootDir overrides where sources, binaries and chain homes persist.
func WithRootDir(dir string) Option {
	return func(tc *toolchain) { tc.root = dir }
}

// WithRunner substitutes the subprocess runner.
func WithRunner(r cosmoscli.Runner) Option {
	return func(tc *toolchain) { tc.runner = r }
}

// WithLogger sets the backend's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(tc *toolchain) { tc.logger = logger }
}

func newToolchain(subdir string, opts []Option) (*toolchain, error) {
	tc := &toolchain{
		runner: cosmoscli.NewExecRunner(zerolog.Nop()),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(tc)
	}

	if tc.root == "" {
		stateRoot, err := network.StateRoot()
		if err != nil {
			return nil, ErrInitialize.Wrap(err.Error())
		}
		tc.root = filepath.Join(stateRoot, subdir)
	}
	return tc, nil
}

// InitializeLocal returns a ready localnet backend, building and
// bootstrapping each component that is not already on disk. The key
// inventory is read back from the neutron keyring either way, so a resumed
// backend sees exactly the keys a fresh one does.
func InitializeLocal(ctx context.Context, opts ...Option) (*Local, error) {
	tc, err := newToolchain("neutron-local", opts)
	if err != nil {
		return nil, err
	}

	l := &Local{
		tc:       tc,
		neutrond: newNeutrond(tc),
		gaiad:    newGaiad(tc),
		hermes:   newHermes(tc),
		icq:      newICQRelayer(tc),
	}

	if !l.isInitialized() {
		tc.logger.Info().Str("root", tc.root).Msg("bootstrapping neutron localnet")

		if err := l.neutrond.init(ctx); err != nil {
			return nil, err
		}
		if err := l.gaiad.init(ctx); err != nil {
			return nil, err
		}
		if err := l.hermes.init(ctx, l.neutrond.srcDir); err != nil {
			return nil, err
		}
		if err := l.icq.init(ctx); err != nil {
			return nil, err
		}
	}

	recovered, err := l.Tool().Cmd().ListKeys(ctx, keys.BackendTest)
	if err != nil {
		return nil, ErrInitialize.Wrap(err.Error())
	}
	l.AddKeys(recovered...)

	return l, nil
}

func (l *Local) isInitialized() bool {
	return l.neutrond.isInitialized() &&
		l.gaiad.isInitialized() &&
		l.hermes.isInitialized() &&
		l.icq.isInitialized()
}

// ChainID implements network.Network.
func (l *Local) ChainID() network.ChainID { return LocalChainID }

// NodeAddress implements network.Network.
func (l *Local) NodeAddress(context.Context) (network.NodeAddress, error) {
	return l.neutrond.nodeAddress(), nil
}

// Tool returns a pipeline factory bound to the local neutrond.
func (l *Local) Tool() *cosmoscli.Tool { return l.neutrond.tool() }

// GasPrice implements network.Network.
func (l *Local) GasPrice(tier network.Tier) network.Price {
	switch tier {
	case network.High:
		return network.NewPrice("0.04", Denom)
	case network.Medium:
		return network.NewPrice("0.02", Denom)
	default:
		return network.NewPrice("0.01", Denom)
	}
}

// StartLocal brings the topology up in dependency order: both chains
// first, blocks observed on each, then hermes (connection, channel, relay
// loop) and finally the ICQ relayer. The returned group releases children
// in reverse order; its foreground follows the neutrond logfile.
func (l *Local) StartLocal(ctx context.Context) (proc.Handle, error) {
	group := proc.NewGroup(l.tc.logger, l.neutrond.logPath)

	fail := func(err error) (proc.Handle, error) {
		group.Release()
		return nil, err
	}

	l.tc.logger.Info().Msg("starting neutrond")
	ntrn, err := l.neutrond.start()
	if err != nil {
		return fail(ErrStart.Wrap(err.Error()))
	}
	group.Add(ntrn)

	l.tc.logger.Info().Msg("starting gaiad")
	gaia, err := l.gaiad.start()
	if err != nil {
		return fail(ErrStart.Wrap(err.Error()))
	}
	group.Add(gaia)

	l.tc.logger.Info().Msg("waiting for neutron blocks")
	if _, err := l.waitForChain(ctx, l.neutrond.tool(), l.neutrond.nodeAddress()); err != nil {
		return fail(ErrStart.Wrap(err.Error()))
	}

	l.tc.logger.Info().Msg("waiting for gaia blocks")
	if _, err := l.waitForChain(ctx, l.gaiad.tool(), l.gaiad.nodeAddress()); err != nil {
		return fail(ErrStart.Wrap(err.Error()))
	}

	l.tc.logger.Info().Msg("starting hermes")
	herm, err := l.hermes.start(ctx)
	if err != nil {
		return fail(err)
	}
	group.Add(herm)

	l.tc.logger.Info().Msg("starting ICQ relayer")
	icq, err := l.icq.start(l.neutrond.homeDir, l.gaiad.homeDir)
	if err != nil {
		return fail(ErrStart.Wrap(err.Error()))
	}
	group.Add(icq)

	return group, nil
}

func (l *Local) waitForChain(ctx context.Context, tool *cosmoscli.Tool, node network.NodeAddress) (cosmoscli.BlockHeight, error) {
	return cosmoscli.WaitForBlocks(ctx, func() (*cosmoscli.QueryCmd, error) {
		return tool.Cmd().Query(node.String()), nil
	})
}

// Clean implements network.Cleaner. ScopeState removes chain homes, the
// hermes home and the relayer database but keeps sources and binaries;
// ScopeAll removes the whole root.
func (l *Local) Clean(_ context.Context, scope network.Scope) error {
	if scope == network.ScopeAll {
		return removeAll(l.tc.root)
	}
	return removeAll(
		l.neutrond.homeDir,
		l.gaiad.homeDir,
		l.hermes.homeDir,
		l.icq.dbDir,
	)
}

func removeAll(paths ...string) error {
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			return ErrClean.Wrapf("%s: %v", p, err)
		}
	}
	return nil
}
