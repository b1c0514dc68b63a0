package neutron

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/math"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/patch"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

const (
	gaiaRepoURL    = "https://github.com/cosmos/gaia.git"
	gaiaRepoBranch = "v9.0.3"

	gaiaChainID = "test-2"
	gaiaDenom   = "uatom"

	gaiaP2PPort     = 16656
	gaiaRPCPort     = 16657
	gaiaRESTPort    = 1316
	gaiaGRPCPort    = 9090
	gaiaGRPCWebPort = 9091
	gaiaRosettaPort = 8081

	gaiaValidatorStake = 7_000_000_000
)

// gaiad is the provider chain the local neutron consumer pairs with over
// IBC. It lives on its own port block so both chains share the host.
type gaiad struct {
	tc      *toolchain
	srcDir  string
	homeDir string
	binPath string
	logPath string
}

func newGaiad(tc *toolchain) *gaiad {
	return &gaiad{
		tc:      tc,
		srcDir:  filepath.Join(tc.root, "gaia", "src"),
		homeDir: filepath.Join(tc.root, "gaia", "data"),
		binPath: filepath.Join(tc.root, "bin", "gaiad"),
		logPath: filepath.Join(tc.root, "gaia", "gaiad.log"),
	}
}

func (g *gaiad) isInitialized() bool {
	return allExist(g.srcDir, g.homeDir, g.binPath)
}

func (g *gaiad) tool() *cosmoscli.Tool {
	return cosmoscli.NewTool(g.tc.runner, g.tc.logger, g.binPath, "--home", g.homeDir)
}

func (g *gaiad) nodeAddress() network.NodeAddress {
	return network.NodeAddress(fmt.Sprintf("tcp://127.0.0.1:%d", gaiaRPCPort))
}

func (g *gaiad) init(ctx context.Context) error {
	if err := g.tc.clone(ctx, gaiaRepoURL, gaiaRepoBranch, g.srcDir); err != nil {
		return err
	}
	if !pathExists(g.binPath) {
		// The pinned gaia release gates its build on the installed Go
		// version; drop the gate rather than chase toolchains.
		err := patch.File(filepath.Join(g.srcDir, "Makefile"), patch.Replacement{
			Old: "$(BUILD_TARGETS): check_version go.sum $(BUILDDIR)/",
			New: "$(BUILD_TARGETS): go.sum $(BUILDDIR)/",
		})
		if err != nil {
			return ErrBuild.Wrap(err.Error())
		}
		if err := g.tc.makeInstall(ctx, g.srcDir, "install"); err != nil {
			return err
		}
	}

	os.RemoveAll(g.homeDir)

	recovered, err := initChain(ctx, func() *cosmoscli.Cmd { return g.tool().Cmd() }, g.homeDir, initParams{
		ChainID:     gaiaChainID,
		StakeDenom:  gaiaDenom,
		P2PPort:     gaiaP2PPort,
		RPCPort:     gaiaRPCPort,
		RESTPort:    gaiaRESTPort,
		RosettaPort: gaiaRosettaPort,
	})
	if err != nil {
		return err
	}

	err = patch.File(filepath.Join(g.homeDir, "config", "genesis.json"), patch.Replacement{
		Old: `"allow_messages": []`,
		New: `"allow_messages": ["/cosmos.bank.v1beta1.MsgSend","/cosmos.staking.v1beta1.MsgDelegate","/cosmos.staking.v1beta1.MsgUndelegate"]`,
	})
	if err != nil {
		return ErrInitialize.Wrap(err.Error())
	}

	validator := recovered[gaiaValidator]
	err = g.tool().Cmd().GenTx(ctx, validator,
		cosmoscli.NewCoin(math.NewInt(gaiaValidatorStake), gaiaDenom), 0, gaiaChainID)
	if err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	if err := g.tool().Cmd().CollectGenTxs(ctx); err != nil {
		return ErrInitialize.Wrap(err.Error())
	}
	return nil
}

func (g *gaiad) start() (*proc.Process, error) {
	return proc.Start(g.tc.logger, proc.Spec{
		Name: "gaiad",
		Bin:  g.binPath,
		Args: []string{
			"start",
			"--log_level", "trace",
			"--log_format", "json",
			"--home", g.homeDir,
			"--pruning=nothing",
			fmt.Sprintf("--grpc.address=127.0.0.1:%d", gaiaGRPCPort),
			fmt.Sprintf("--grpc-web.address=127.0.0.1:%d", gaiaGRPCWebPort),
			"--trace",
		},
		LogPath: g.logPath,
	})
}
