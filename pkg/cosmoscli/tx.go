package cosmoscli

import (
	"context"
	"strconv"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
)

// TxID is the opaque transaction hash returned on broadcast, before the
// transaction has been confirmed.
type TxID string

func (id TxID) String() string { return string(id) }

// Tx narrows the pipeline into the transaction sub-pipeline, binding the
// signer identity, chain id and node address that every signed submission
// needs.
func (c *Cmd) Tx(from keys.Key, chainID, node string) *TxCmd {
	return &TxCmd{cmd: c, from: from, chainID: chainID, node: node}
}

// TxCmd is a transaction pipeline awaiting its operation variant.
type TxCmd struct {
	cmd     *Cmd
	from    keys.Key
	chainID string
	node    string
}

func (c *TxCmd) ready() *ReadyTxCmd {
	c.cmd.add(
		"--from", c.from.Name,
		"--keyring-backend", c.from.Backend.String(),
		"--chain-id", c.chainID,
		"--node", c.node,
		"--yes",
	)
	return &ReadyTxCmd{cmd: c.cmd}
}

// WasmStore uploads WASM bytecode from wasmPath.
func (c *TxCmd) WasmStore(wasmPath string) *ReadyTxCmd {
	c.cmd.add("tx", "wasm", "store", wasmPath)
	return c.ready()
}

// WasmInstantiate instantiates stored code with the JSON-encoded msg. An
// empty admin pins the contract without one (--no-admin).
func (c *TxCmd) WasmInstantiate(codeID CodeID, msg, label, admin string) *ReadyTxCmd {
	c.cmd.add("tx", "wasm", "instantiate", codeID.String(), msg, "--label", label)
	if admin != "" {
		c.cmd.add("--admin", admin)
	} else {
		c.cmd.add("--no-admin")
	}
	return c.ready()
}

// WasmExecute executes contract with the JSON-encoded msg.
func (c *TxCmd) WasmExecute(contract Contract, msg string) *ReadyTxCmd {
	c.cmd.add("tx", "wasm", "execute", contract.String(), msg)
	return c.ready()
}

// ReadyTxCmd is a fully-formed transaction command awaiting broadcast.
type ReadyTxCmd struct {
	cmd *Cmd
}

// Amount attaches funds to the transaction.
func (c *ReadyTxCmd) Amount(coin Coin) *ReadyTxCmd {
	c.cmd.add("--amount", coin.String())
	return c
}

// Args appends raw flags to the submission. It exists so a backend can
// inject backend-specific arguments (an extra fee flag, for instance)
// immediately before broadcast.
func (c *ReadyTxCmd) Args(args ...string) *ReadyTxCmd {
	c.cmd.add(args...)
	return c
}

// Broadcast signs and submits the transaction, returning its TxID. The
// returned id is not yet confirmed; hand it to WaitForTx. A broadcast
// envelope with a non-zero code fails with the raw log verbatim.
func (c *ReadyTxCmd) Broadcast(ctx context.Context, gasUnits uint64, gasPrices string) (TxID, error) {
	c.cmd.add(
		"--gas", strconv.FormatUint(gasUnits, 10),
		"--gas-prices", gasPrices,
		"--output", "json",
	)

	c.cmd.tool.logger.Info().Str("command", c.cmd.invocation().String()).Msg("broadcasting tx")

	var res TxResult
	if err := c.cmd.readJSON(ctx, &res); err != nil {
		return "", err
	}
	if res.Code > 0 {
		return "", ErrTxFailed.Wrap(res.RawLog)
	}
	return TxID(res.TxHash), nil
}
