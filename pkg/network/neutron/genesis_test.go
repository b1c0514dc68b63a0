package neutron

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/testutil/testrunner"
)

// seedChainHome writes the config files genesis bootstrap patches, with
// the stock values a cosmos-sdk init produces.
func seedChainHome(t *testing.T, homeDir string) {
	t.Helper()
	configDir := filepath.Join(homeDir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	files := map[string]string{
		"config.toml": `timeout_commit = "5s"
timeout_propose = "3s"
index_all_keys = false
laddr = "tcp://0.0.0.0:26656"
laddr = "tcp://127.0.0.1:26657"
`,
		"app.toml": `minimum-gas-prices = ""
enable = false
swagger = false
prometheus-retention-time = 0
address = "tcp://0.0.0.0:1317"
address = ":8080"
`,
		"genesis.json": `{
  "denom": "stake",
  "mint_denom": "stake",
  "bond_denom": "stake",
  "allow_messages": [],
  "signed_blocks_window": "100",
  "minimum_gas_prices": []
}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(configDir, name), []byte(content), 0o644))
	}
}

// initChainRunner scripts init plus seven recover/fund pairs.
func initChainRunner() *testrunner.Runner {
	runner := testrunner.New().RespondOK(1)
	for i, account := range wellKnownAccounts {
		runner.RespondJSON(keys.Raw{Name: account.Name, Address: "neutron1" + string(rune('a'+i))})
		runner.RespondOK(1)
	}
	return runner
}

func TestInitChainBootstrap(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), "data")
	seedChainHome(t, homeDir)
	runner := initChainRunner()

	tool := cosmoscli.NewTool(runner, zerolog.Nop(), "neutrond", "--home", homeDir)
	recovered, err := initChain(context.Background(),
		func() *cosmoscli.Cmd { return tool.Cmd() },
		homeDir,
		initParams{
			ChainID:     "test-1",
			StakeDenom:  "untrn",
			P2PPort:     26656,
			RPCPort:     26657,
			RESTPort:    1317,
			RosettaPort: 8080,
		})
	require.NoError(t, err)
	require.Len(t, recovered, 7)
	require.Equal(t, "local1", recovered[0].Name)
	require.Equal(t, "rly2", recovered[6].Name)
	require.Equal(t, keys.BackendTest, recovered[0].Backend)

	cmds := runner.Commands()
	require.Len(t, cmds, 15)
	require.Contains(t, cmds[0], "init test --chain-id test-1")
	require.Contains(t, cmds[1], "keys add local1 --keyring-backend test --recover")
	require.Equal(t, wellKnownAccounts[0].Mnemonic, runner.Recorded[1].Stdin)
	require.Contains(t, cmds[2],
		"add-genesis-account local1 100000000000000untrn,100000000000000uibcatom,100000000000000uibcusdc")

	config, err := os.ReadFile(filepath.Join(homeDir, "config", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(config), `timeout_commit = "1s"`)
	require.Contains(t, string(config), "index_all_keys = true")
	require.NotContains(t, string(config), `timeout_commit = "5s"`)

	app, err := os.ReadFile(filepath.Join(homeDir, "config", "app.toml"))
	require.NoError(t, err)
	require.Contains(t, string(app), `minimum-gas-prices = "0.0025untrn,0.0025`+ibcTransferVoucher+`"`)
	require.Contains(t, string(app), "enable = true")

	genesis, err := os.ReadFile(filepath.Join(homeDir, "config", "genesis.json"))
	require.NoError(t, err)
	require.Contains(t, string(genesis), `"denom": "untrn"`)
	require.Contains(t, string(genesis), `"bond_denom": "untrn"`)
}

func TestInitChainDisjointPortBlocks(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), "data")
	seedChainHome(t, homeDir)

	tool := cosmoscli.NewTool(initChainRunner(), zerolog.Nop(), "gaiad", "--home", homeDir)
	_, err := initChain(context.Background(),
		func() *cosmoscli.Cmd { return tool.Cmd() },
		homeDir,
		initParams{
			ChainID:     "test-2",
			StakeDenom:  "uatom",
			P2PPort:     16656,
			RPCPort:     16657,
			RESTPort:    1316,
			RosettaPort: 8081,
		})
	require.NoError(t, err)

	config, err := os.ReadFile(filepath.Join(homeDir, "config", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(config), "tcp://127.0.0.1:16656")
	require.Contains(t, string(config), "tcp://127.0.0.1:16657")

	app, err := os.ReadFile(filepath.Join(homeDir, "config", "app.toml"))
	require.NoError(t, err)
	require.Contains(t, string(app), `address = ":8081"`)
}
