package neutron

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

const (
	icqRepoURL    = "https://github.com/neutron-org/neutron-query-relayer.git"
	icqRepoBranch = "main"
)

// icqRelayer serves neutron interchain queries against the gaia provider.
// It is configured entirely through environment variables.
type icqRelayer struct {
	tc      *toolchain
	srcDir  string
	binPath string
	dbDir   string
	logPath string
}

func newICQRelayer(tc *toolchain) *icqRelayer {
	return &icqRelayer{
		tc:      tc,
		srcDir:  filepath.Join(tc.root, "icq_rly", "src"),
		binPath: filepath.Join(tc.root, "bin", "neutron_query_relayer"),
		dbDir:   filepath.Join(tc.root, "icq_rly", "db"),
		logPath: filepath.Join(tc.root, "icq_rly", "icq_rly.log"),
	}
}

func (r *icqRelayer) isInitialized() bool {
	return allExist(r.srcDir, r.binPath)
}

func (r *icqRelayer) init(ctx context.Context) error {
	if err := r.tc.clone(ctx, icqRepoURL, icqRepoBranch, r.srcDir); err != nil {
		return err
	}
	if pathExists(r.binPath) {
		return nil
	}
	return r.tc.makeInstall(ctx, r.srcDir, "install")
}

func (r *icqRelayer) start(neutronHome, gaiaHome string) (*proc.Process, error) {
	env := []string{
		"RELAYER_NEUTRON_CHAIN_CHAIN_PREFIX=neutron",
		fmt.Sprintf("RELAYER_NEUTRON_CHAIN_RPC_ADDR=tcp://127.0.0.1:%d", neutronRPCPort),
		fmt.Sprintf("RELAYER_NEUTRON_CHAIN_REST_ADDR=http://127.0.0.1:%d", neutronRESTPort),
		"RELAYER_NEUTRON_CHAIN_CHAIN_ID=" + LocalChainID.String(),
		"RELAYER_NEUTRON_CHAIN_GAS_PRICES=0.5" + Denom,
		"RELAYER_NEUTRON_CHAIN_SIGN_KEY_NAME=local3",
		"RELAYER_NEUTRON_CHAIN_TIMEOUT=1000s",
		"RELAYER_NEUTRON_CHAIN_GAS_ADJUSTMENT=2.0",
		"RELAYER_NEUTRON_CHAIN_TX_BROADCAST_TYPE=BroadcastTxCommit",
		"RELAYER_NEUTRON_CHAIN_CONNECTION_ID=connection-0",
		"RELAYER_NEUTRON_CHAIN_CLIENT_ID=07-tendermint-0",
		"RELAYER_NEUTRON_CHAIN_DEBUG=true",
		"RELAYER_NEUTRON_CHAIN_KEY=local1",
		"RELAYER_NEUTRON_CHAIN_ACCOUNT_PREFIX=neutron",
		"RELAYER_NEUTRON_CHAIN_KEYRING_BACKEND=test",
		"RELAYER_NEUTRON_CHAIN_OUTPUT_FORMAT=json",
		"RELAYER_NEUTRON_CHAIN_SIGN_MODE_STR=direct",
		"RELAYER_NEUTRON_CHAIN_ALLOW_KV_CALLBACKS=true",
		"RELAYER_NEUTRON_CHAIN_HOME_DIR=" + neutronHome,
		fmt.Sprintf("RELAYER_TARGET_CHAIN_RPC_ADDR=tcp://127.0.0.1:%d", gaiaRPCPort),
		"RELAYER_TARGET_CHAIN_CHAIN_ID=" + gaiaChainID,
		"RELAYER_TARGET_CHAIN_GAS_PRICES=0.5" + gaiaDenom,
		"RELAYER_TARGET_CHAIN_TIMEOUT=1000s",
		"RELAYER_TARGET_CHAIN_GAS_ADJUSTMENT=1.0",
		"RELAYER_TARGET_CHAIN_CONNECTION_ID=connection-0",
		"RELAYER_TARGET_CHAIN_CLIENT_ID=07-tendermint-0",
		"RELAYER_TARGET_CHAIN_DEBUG=true",
		"RELAYER_TARGET_CHAIN_KEYRING_BACKEND=test",
		"RELAYER_TARGET_CHAIN_OUTPUT_FORMAT=json",
		"RELAYER_TARGET_CHAIN_SIGN_MODE_STR=direct",
		"RELAYER_TARGET_CHAIN_HOME_DIR=" + gaiaHome,
		"RELAYER_REGISTRY_ADDRESSES=",
		"RELAYER_ALLOW_TX_QUERIES=true",
		"RELAYER_ALLOW_KV_CALLBACKS=true",
		"RELAYER_MIN_KV_UPDATE_PERIOD=1",
		"RELAYER_QUERIES_TASK_QUEUE_CAPACITY=10000",
		"RELAYER_CHECK_SUBMITTED_TX_STATUS_DELAY=10s",
		"RELAYER_WEBSERVER_PORT=127.0.0.1:9999",
		"RELAYER_STORAGE_PATH=" + r.dbDir,
	}

	return proc.Start(r.tc.logger, proc.Spec{
		Name:    "icq-relayer",
		Bin:     r.binPath,
		Args:    []string{"start"},
		Env:     env,
		LogPath: r.logPath,
	})
}
