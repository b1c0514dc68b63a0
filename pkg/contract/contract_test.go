package contract_test

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/contract"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/testutil/testrunner"
)

// fakeNetwork satisfies network.Network on top of a scripted runner.
type fakeNetwork struct {
	network.Instance
	runner *testrunner.Runner
}

func newFakeNetwork(runner *testrunner.Runner) *fakeNetwork {
	net := &fakeNetwork{runner: runner}
	net.AddKeys(keys.Raw{Name: "local1", Address: "neutron1abc"}.WithBackend(keys.BackendTest))
	return net
}

func (f *fakeNetwork) ChainID() network.ChainID { return "test-1" }

func (f *fakeNetwork) NodeAddress(context.Context) (network.NodeAddress, error) {
	return "tcp://127.0.0.1:26657", nil
}

func (f *fakeNetwork) GasPrice(network.Tier) network.Price {
	return network.NewPrice("0.02", "untrn")
}

func (f *fakeNetwork) Tool() *cosmoscli.Tool {
	return cosmoscli.NewTool(f.runner, zerolog.Nop(), "neutrond")
}

// txData builds the hex response envelope for a single message response.
func txData(msgType string, payload []byte) string {
	var inner []byte
	inner = protowire.AppendTag(inner, 1, protowire.BytesType)
	inner = protowire.AppendBytes(inner, []byte(msgType))
	inner = protowire.AppendTag(inner, 2, protowire.BytesType)
	inner = protowire.AppendBytes(inner, payload)

	var envelope []byte
	envelope = protowire.AppendTag(envelope, 1, protowire.BytesType)
	envelope = protowire.AppendBytes(envelope, inner)
	return hex.EncodeToString(envelope)
}

func varintPayload(value uint64) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, value)
	return b
}

func bytesPayload(value []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, value)
	return b
}

func TestStoreRoundTrip(t *testing.T) {
	runner := testrunner.New().
		RespondJSON(cosmoscli.TxResult{TxHash: "STORE1"}).
		RespondJSON(cosmoscli.TxResult{
			TxHash: "STORE1",
			Data:   txData("/cosmwasm.wasm.v1.MsgStoreCodeResponse", varintPayload(42)),
		})
	net := newFakeNetwork(runner)
	signer, err := network.Signer(net)
	require.NoError(t, err)

	codeID, err := contract.Store("artifacts/cw20_base.wasm").
		Send(context.Background(), net, signer)
	require.NoError(t, err)
	require.Equal(t, cosmoscli.CodeID(42), codeID)

	broadcast := runner.Commands()[0]
	require.Contains(t, broadcast, "tx wasm store artifacts/cw20_base.wasm")
	require.Contains(t, broadcast, "--from local1 --keyring-backend test --chain-id test-1 --node tcp://127.0.0.1:26657 --yes")
	require.Contains(t, broadcast, "--gas 100000000 --gas-prices 0.020000000000000000untrn")

	require.Contains(t, runner.Commands()[1], "query tx STORE1")
}

func TestInstantiateRoundTrip(t *testing.T) {
	runner := testrunner.New().
		RespondJSON(cosmoscli.TxResult{TxHash: "INIT1"}).
		RespondJSON(cosmoscli.TxResult{
			TxHash: "INIT1",
			Data:   txData("/cosmwasm.wasm.v1.MsgInstantiateContractResponse", bytesPayload([]byte("neutron1contract"))),
		})
	net := newFakeNetwork(runner)
	signer, _ := network.Signer(net)

	type initMsg struct {
		Name string `json:"name"`
	}

	addr, err := contract.Instantiate(42, "demo", initMsg{Name: "token"}).
		WithGas(50_000_000).
		Send(context.Background(), net, signer)
	require.NoError(t, err)
	require.Equal(t, cosmoscli.Contract("neutron1contract"), addr)

	broadcast := runner.Commands()[0]
	require.Contains(t, broadcast, "tx wasm instantiate 42")
	require.Contains(t, broadcast, `"name": "token"`)
	require.Contains(t, broadcast, "--label demo")
	require.Contains(t, broadcast, "--no-admin")
	require.Contains(t, broadcast, "--gas 50000000")
}

func TestInstantiateWithAdmin(t *testing.T) {
	runner := testrunner.New().
		RespondJSON(cosmoscli.TxResult{TxHash: "INIT2"}).
		RespondJSON(cosmoscli.TxResult{
			TxHash: "INIT2",
			Data:   txData("/cosmwasm.wasm.v1.MsgInstantiateContractResponse", bytesPayload([]byte("neutron1other"))),
		})
	net := newFakeNetwork(runner)
	signer, _ := network.Signer(net)

	_, err := contract.Instantiate(7, "demo", struct{}{}).
		WithAdmin("neutron1admin").
		Send(context.Background(), net, signer)
	require.NoError(t, err)
	require.Contains(t, runner.Commands()[0], "--admin neutron1admin")
	require.NotContains(t, runner.Commands()[0], "--no-admin")
}

func TestExecuteRoundTrip(t *testing.T) {
	runner := testrunner.New().
		RespondJSON(cosmoscli.TxResult{TxHash: "EXEC1"}).
		RespondJSON(cosmoscli.TxResult{
			TxHash: "EXEC1",
			Data:   txData("/cosmwasm.wasm.v1.MsgExecuteContractResponse", bytesPayload([]byte(`{"minted":"1000"}`))),
		})
	net := newFakeNetwork(runner)
	signer, _ := network.Signer(net)

	type mintMsg struct {
		Recipient string `json:"recipient"`
		Amount    string `json:"amount"`
	}
	type msg struct {
		Mint mintMsg `json:"mint"`
	}

	res, err := contract.Execute("neutron1contract", msg{Mint: mintMsg{Recipient: "neutron1abc", Amount: "1000"}}).
		WithAmount(cosmoscli.NewCoin(math.NewInt(500), "untrn")).
		Send(context.Background(), net, signer)
	require.NoError(t, err)
	require.JSONEq(t, `{"minted":"1000"}`, string(res.Bytes()))

	broadcast := runner.Commands()[0]
	require.Contains(t, broadcast, "tx wasm execute neutron1contract")
	require.Contains(t, broadcast, `"recipient": "neutron1abc"`)
	require.Contains(t, broadcast, "--amount 500untrn")
}

func TestExecuteSurfacesOnChainFailure(t *testing.T) {
	runner := testrunner.New().
		RespondJSON(cosmoscli.TxResult{TxHash: "EXEC2"}).
		RespondJSON(cosmoscli.TxResult{
			TxHash: "EXEC2",
			Code:   5,
			RawLog: "execute wasm contract failed: Unauthorized",
		})
	net := newFakeNetwork(runner)
	signer, _ := network.Signer(net)

	_, err := contract.Execute("neutron1contract", struct{}{}).
		Send(context.Background(), net, signer)
	require.ErrorIs(t, err, cosmoscli.ErrTxFailed)
	require.Contains(t, err.Error(), "Unauthorized")
}

func TestPreSubmitHookAppendsArgs(t *testing.T) {
	runner := testrunner.New().
		RespondJSON(cosmoscli.TxResult{TxHash: "EXEC3"}).
		RespondJSON(cosmoscli.TxResult{
			TxHash: "EXEC3",
			Data:   txData("/cosmwasm.wasm.v1.MsgExecuteContractResponse", bytesPayload(nil)),
		})
	net := newFakeNetwork(runner)
	signer, _ := network.Signer(net)

	_, err := contract.Execute("neutron1contract", struct{}{}).
		WithPreSubmit(func(cmd *cosmoscli.ReadyTxCmd) {
			cmd.Args("--note", "deploy-demo")
		}).
		Send(context.Background(), net, signer)
	require.NoError(t, err)
	require.Contains(t, runner.Commands()[0], "--note deploy-demo")
}

func TestQueryUnwrapsDataEnvelope(t *testing.T) {
	runner := testrunner.New().
		RespondText(`{"data":{"balance":"1000000000000"}}`)
	net := newFakeNetwork(runner)

	type balance struct {
		Balance string `json:"balance"`
	}
	type query struct {
		Balance struct {
			Address string `json:"address"`
		} `json:"balance"`
	}

	var q query
	q.Balance.Address = "neutron1abc"

	res, err := contract.Query[balance](context.Background(), net, "neutron1contract", q)
	require.NoError(t, err)
	require.Equal(t, "1000000000000", res.Balance)

	cmd := runner.Commands()[0]
	require.Contains(t, cmd, "query wasm contract-state smart neutron1contract")
	require.Contains(t, cmd, `"address": "neutron1abc"`)
}

func TestDistWorkspaceSurfacesOptimizerStderr(t *testing.T) {
	t.Setenv(contract.ArtifactsDirEnv, filepath.Join(t.TempDir(), "artifacts"))
	runner := testrunner.New().RespondExit(1, "error[E0433]: failed to resolve")

	err := contract.DistWorkspace(context.Background(), runner)
	require.ErrorIs(t, err, contract.ErrDist)
	require.Contains(t, err.Error(), "failed to resolve")
}

func TestDistWorkspaceMountsCaches(t *testing.T) {
	t.Setenv(contract.ArtifactsDirEnv, filepath.Join(t.TempDir(), "artifacts"))
	runner := testrunner.New().RespondOK(1)

	require.NoError(t, contract.DistWorkspace(context.Background(), runner))

	cmd := runner.Commands()[0]
	require.Contains(t, cmd, "workspace-optimizer")
	require.Contains(t, cmd, "target=/code/target")
	require.Contains(t, cmd, "target=/usr/local/cargo/registry")
}
