package neutron

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/patch"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

const (
	neutronRepoURL    = "https://github.com/neutron-org/neutron.git"
	neutronRepoBranch = "main"

	// LocalChainID is the local neutron consumer chain.
	LocalChainID = network.ChainID("test-1")
	// Denom is neutron's native denom.
	Denom = "untrn"

	neutronP2PPort     = 26656
	neutronRPCPort     = 26657
	neutronRESTPort    = 1317
	neutronGRPCPort    = 8090
	neutronGRPCWebPort = 8091
	neutronRosettaPort = 8080
)

// neutrond is the consumer chain component of the local topology.
type neutrond struct {
	tc      *toolchain
	srcDir  string
	homeDir string
	binPath string
	logPath string
}

func newNeutrond(tc *toolchain) *neutrond {
	return &neutrond{
		tc:      tc,
		srcDir:  filepath.Join(tc.root, "neutron", "src"),
		homeDir: filepath.Join(tc.root, "neutron", "data"),
		binPath: filepath.Join(tc.root, "bin", "neutrond"),
		logPath: filepath.Join(tc.root, "neutron", "neutrond.log"),
	}
}

func (n *neutrond) isInitialized() bool {
	return allExist(n.srcDir, n.homeDir, n.binPath)
}

func (n *neutrond) tool() *cosmoscli.Tool {
	return cosmoscli.NewTool(n.tc.runner, n.tc.logger, n.binPath, "--home", n.homeDir)
}

func (n *neutrond) nodeAddress() network.NodeAddress {
	return network.NodeAddress(fmt.Sprintf("tcp://127.0.0.1:%d", neutronRPCPort))
}

func (n *neutrond) init(ctx context.Context) error {
	if err := n.tc.clone(ctx, neutronRepoURL, neutronRepoBranch, n.srcDir); err != nil {
		return err
	}
	if !pathExists(n.binPath) {
		if err := n.tc.makeInstall(ctx, n.srcDir, "install-test-binary"); err != nil {
			return err
		}
	}

	// Rebuild the chain home from scratch; a partial one is useless.
	os.RemoveAll(n.homeDir)

	_, err := initChain(ctx, func() *cosmoscli.Cmd { return n.tool().Cmd() }, n.homeDir, initParams{
		ChainID:     LocalChainID.String(),
		StakeDenom:  Denom,
		P2PPort:     neutronP2PPort,
		RPCPort:     neutronRPCPort,
		RESTPort:    neutronRESTPort,
		RosettaPort: neutronRosettaPort,
	})
	if err != nil {
		return err
	}

	// Neutron runs as an ICS consumer chain; graft the consumer module
	// state the plain init does not produce.
	err = n.tc.run(ctx, "", nil, n.binPath, "add-consumer-section", "--home", n.homeDir)
	if err != nil {
		return err
	}

	err = patch.File(filepath.Join(n.homeDir, "config", "genesis.json"),
		patch.Replacement{Old: `"allow_messages": []`, New: `"allow_messages": ["*"]`},
		patch.Replacement{Old: `"signed_blocks_window": "100"`, New: `"signed_blocks_window": "140000"`},
		patch.Replacement{Old: `"min_signed_per_window": "0.500000000000000000"`, New: `"min_signed_per_window": "0.050000000000000000"`},
		patch.Replacement{Old: `"slash_fraction_double_sign": "0.050000000000000000"`, New: `"slash_fraction_double_sign": "0.010000000000000000"`},
		patch.Replacement{Old: `"slash_fraction_downtime": "0.010000000000000000"`, New: `"slash_fraction_downtime": "0.000100000000000000"`},
		patch.Replacement{
			Old: `"minimum_gas_prices": []`,
			New: fmt.Sprintf(`"minimum_gas_prices": [{"denom":%q,"amount":"0"},{"denom":%q,"amount":"0"}]`, ibcTransferVoucher, Denom),
		},
	)
	if err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	return nil
}

func (n *neutrond) start() (*proc.Process, error) {
	return proc.Start(n.tc.logger, proc.Spec{
		Name: "neutrond",
		Bin:  n.binPath,
		Args: []string{
			"start",
			"--log_level", "trace",
			"--log_format", "json",
			"--home", n.homeDir,
			"--pruning=nothing",
			fmt.Sprintf("--grpc.address=127.0.0.1:%d", neutronGRPCPort),
			fmt.Sprintf("--grpc-web.address=127.0.0.1:%d", neutronGRPCWebPort),
			"--trace",
		},
		LogPath: n.logPath,
	})
}
