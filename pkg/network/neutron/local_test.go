package neutron

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/testutil/testrunner"
)

// seedLocalState creates every path the four components' initialization
// predicates check.
func seedLocalState(t *testing.T, root string) {
	t.Helper()
	for _, dir := range []string{
		filepath.Join(root, "neutron", "src"),
		filepath.Join(root, "neutron", "data"),
		filepath.Join(root, "gaia", "src"),
		filepath.Join(root, "gaia", "data"),
		filepath.Join(root, ".hermes"),
		filepath.Join(root, "icq_rly", "src"),
	} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	for _, bin := range []string{"neutrond", "gaiad", "hermes", "neutron_query_relayer"} {
		writeFile(t, filepath.Join(root, "bin", bin), "#!/bin/sh\n")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func TestInitializeLocalResumesPersistedState(t *testing.T) {
	root := t.TempDir()
	seedLocalState(t, root)

	runner := testrunner.New().RespondJSON([]keys.Raw{
		{Name: "local1", Address: "neutron1aaa"},
		{Name: "local2", Address: "neutron1bbb"},
	})

	l, err := InitializeLocal(context.Background(),
		WithRootDir(root),
		WithRunner(runner),
	)
	require.NoError(t, err)

	// Everything on disk: only the inventory reload runs.
	require.Len(t, runner.Recorded, 1)
	require.Contains(t, runner.Commands()[0], "keys list --keyring-backend test")
	require.Contains(t, runner.Commands()[0], filepath.Join(root, "bin", "neutrond"))

	inventory := l.Keys()
	require.Len(t, inventory, 2)
	require.Equal(t, keys.BackendTest, inventory[0].Backend)
}

func TestComponentPredicates(t *testing.T) {
	root := t.TempDir()
	tc := &toolchain{root: root}

	n := newNeutrond(tc)
	require.False(t, n.isInitialized())

	require.NoError(t, os.MkdirAll(n.srcDir, 0o755))
	require.NoError(t, os.MkdirAll(n.homeDir, 0o755))
	require.False(t, n.isInitialized(), "binary still missing")

	writeFile(t, n.binPath, "")
	require.True(t, n.isInitialized())

	h := newHermes(tc)
	require.False(t, h.isInitialized())
	writeFile(t, h.binPath, "")
	require.NoError(t, os.MkdirAll(h.homeDir, 0o755))
	require.True(t, h.isInitialized())
}

func TestLocalNetworkSurface(t *testing.T) {
	root := t.TempDir()
	seedLocalState(t, root)

	l, err := InitializeLocal(context.Background(),
		WithRootDir(root),
		WithRunner(testrunner.New().RespondJSON([]keys.Raw{})),
	)
	require.NoError(t, err)

	require.Equal(t, network.ChainID("test-1"), l.ChainID())

	node, err := l.NodeAddress(context.Background())
	require.NoError(t, err)
	require.Equal(t, network.NodeAddress("tcp://127.0.0.1:26657"), node)

	require.Equal(t, "0.010000000000000000untrn", l.GasPrice(network.Low).String())
	require.Equal(t, "0.020000000000000000untrn", l.GasPrice(network.Medium).String())
	require.Equal(t, "0.040000000000000000untrn", l.GasPrice(network.High).String())
}

func TestLocalCleanScopes(t *testing.T) {
	root := t.TempDir()
	seedLocalState(t, root)
	ctx := context.Background()

	l, err := InitializeLocal(ctx,
		WithRootDir(root),
		WithRunner(testrunner.New().RespondJSON([]keys.Raw{})),
	)
	require.NoError(t, err)

	require.NoError(t, l.Clean(ctx, network.ScopeState))

	// Chain homes and relayer state gone, sources and binaries kept.
	require.False(t, pathExists(filepath.Join(root, "neutron", "data")))
	require.False(t, pathExists(filepath.Join(root, "gaia", "data")))
	require.False(t, pathExists(filepath.Join(root, ".hermes")))
	require.True(t, pathExists(filepath.Join(root, "neutron", "src")))
	require.True(t, pathExists(filepath.Join(root, "bin", "neutrond")))

	require.NoError(t, l.Clean(ctx, network.ScopeAll))
	require.False(t, pathExists(root))
}

func TestInitializeTestnetBuildsOnFirstRun(t *testing.T) {
	root := t.TempDir()
	runner := testrunner.New().RespondOK(2)

	tn, err := InitializeTestnet(context.Background(),
		WithRootDir(root),
		WithRunner(runner),
	)
	require.NoError(t, err)
	require.Empty(t, tn.Keys())

	cmds := runner.Commands()
	require.Len(t, cmds, 2)
	require.Contains(t, cmds[0], "git clone --depth 1 --branch main")
	require.Contains(t, cmds[1], "make build")
}

func TestInitializeTestnetSurfacesBuildStderr(t *testing.T) {
	runner := testrunner.New().
		RespondOK(1). // git clone
		RespondExit(2, "make: *** [build] Error 1")

	_, err := InitializeTestnet(context.Background(),
		WithRootDir(t.TempDir()),
		WithRunner(runner),
	)
	require.ErrorIs(t, err, ErrBuild)
	require.Contains(t, err.Error(), "make: *** [build] Error 1")
}

func TestInitializeTestnetResumes(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	runner := testrunner.New().RespondJSON([]keys.Raw{
		{Name: "deployer", Address: "neutron1dep"},
	})

	tn, err := InitializeTestnet(context.Background(),
		WithRootDir(root),
		WithRunner(runner),
	)
	require.NoError(t, err)

	require.Len(t, runner.Recorded, 1)
	require.Contains(t, runner.Commands()[0], "keys list")
	require.Len(t, tn.Keys(), 1)

	require.Equal(t, network.ChainID("pion-1"), tn.ChainID())

	node, err := tn.NodeAddress(context.Background())
	require.NoError(t, err)
	require.Equal(t, network.NodeAddress("https://rpc-t.neutron.nodestake.top:443"), node)

	require.Equal(t, "0.002000000000000000untrn", tn.GasPrice(network.Medium).String())
}

var _ network.Starter = (*Local)(nil)
var _ network.Cleaner = (*Local)(nil)
