package neutron

import (
	"context"
	"path/filepath"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
)

const (
	// TestnetChainID is neutron's public testnet.
	TestnetChainID = network.ChainID("pion-1")

	testnetNode = "https://rpc-t.neutron.nodestake.top:443"
)

// Testnet signs and queries against the public pion-1 testnet with a
// locally built neutrond. Nothing runs locally, so it implements neither
// Starter nor the relayer plumbing.
type Testnet struct {
	network.Instance

	tc      *toolchain
	srcDir  string
	homeDir string
}

// InitializeTestnet returns a pion-1 backend, cloning and building
// neutrond on the first call. The source checkout doubles as the resume
// predicate; the keyring under the home dir survives either way.
func InitializeTestnet(ctx context.Context, opts ...Option) (*Testnet, error) {
	tc, err := newToolchain("neutron-testnet", opts)
	if err != nil {
		return nil, err
	}

	t := &Testnet{
		tc:      tc,
		srcDir:  filepath.Join(tc.root, "src"),
		homeDir: filepath.Join(tc.root, "data"),
	}

	if pathExists(t.srcDir) {
		recovered, err := t.Tool().Cmd().ListKeys(ctx, keys.BackendTest)
		if err != nil {
			return nil, ErrInitialize.Wrap(err.Error())
		}
		t.AddKeys(recovered...)
		return t, nil
	}

	if err := tc.clone(ctx, neutronRepoURL, neutronRepoBranch, t.srcDir); err != nil {
		return nil, err
	}
	if err := tc.run(ctx, t.srcDir, nil, "make", "build"); err != nil {
		return nil, err
	}
	return t, nil
}

// ChainID implements network.Network.
func (t *Testnet) ChainID() network.ChainID { return TestnetChainID }

// NodeAddress implements network.Network.
func (t *Testnet) NodeAddress(context.Context) (network.NodeAddress, error) {
	return testnetNode, nil
}

// Tool returns a pipeline factory bound to the checkout's build output.
func (t *Testnet) Tool() *cosmoscli.Tool {
	bin := filepath.Join(t.srcDir, "build", "neutrond")
	return cosmoscli.NewTool(t.tc.runner, t.tc.logger, bin, "--home", t.homeDir)
}

// GasPrice implements network.Network with pion-1's published tiers.
func (t *Testnet) GasPrice(tier network.Tier) network.Price {
	switch tier {
	case network.High:
		return network.NewPrice("0.004", Denom)
	case network.Medium:
		return network.NewPrice("0.002", Denom)
	default:
		return network.NewPrice("0.001", Denom)
	}
}

// Clean implements network.Cleaner. ScopeState removes the chain home and
// its keyring; ScopeAll also removes the source checkout.
func (t *Testnet) Clean(_ context.Context, scope network.Scope) error {
	if scope == network.ScopeAll {
		return removeAll(t.tc.root)
	}
	return removeAll(t.homeDir)
}

var _ network.Network = (*Testnet)(nil)
var _ network.Cleaner = (*Testnet)(nil)
