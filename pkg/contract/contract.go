// Package contract stores, instantiates, executes and queries CosmWasm
// contracts on any network backend. Transaction builders bid the network's
// medium gas price, broadcast through the backend's command pipeline, wait
// for inclusion, and decode the operation's typed response from the
// transaction's message-response frames.
package contract

import (
	"context"
	"encoding/json"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
)

// DefaultGasUnits is the unit budget a builder bids unless overridden.
const DefaultGasUnits = 100_000_000

// PreSubmit hooks into a fully built command just before broadcast, e.g.
// to append flags the builders do not model.
type PreSubmit func(*cosmoscli.ReadyTxCmd)

type txOpts struct {
	gasUnits  uint64
	amount    *cosmoscli.Coin
	preSubmit PreSubmit
}

func defaultTxOpts() txOpts {
	return txOpts{gasUnits: DefaultGasUnits}
}

// send drives the shared broadcast path: resolve the backend's node and
// medium gas price, build the variant command, apply the options,
// broadcast, wait for inclusion and return the first response frame.
func send(
	ctx context.Context,
	net network.Network,
	from keys.Key,
	opts txOpts,
	build func(*cosmoscli.TxCmd) *cosmoscli.ReadyTxCmd,
) (cosmoscli.MsgResponse, error) {
	node, err := net.NodeAddress(ctx)
	if err != nil {
		return cosmoscli.MsgResponse{}, err
	}

	ready := build(net.Tool().Cmd().Tx(from, net.ChainID().String(), node.String()))
	if opts.amount != nil {
		ready = ready.Amount(*opts.amount)
	}
	if opts.preSubmit != nil {
		opts.preSubmit(ready)
	}

	txID, err := ready.Broadcast(ctx, opts.gasUnits, net.GasPrice(network.Medium).String())
	if err != nil {
		return cosmoscli.MsgResponse{}, err
	}

	res, err := network.WaitForTx(ctx, net, txID)
	if err != nil {
		return cosmoscli.MsgResponse{}, err
	}
	return res.FirstMsgResponse()
}

// encodeMsg renders a contract message as indented JSON, the same shape a
// caller would paste into the CLI by hand.
func encodeMsg(msg any) (string, error) {
	encoded, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", ErrEncode.Wrap(err.Error())
	}
	return string(encoded), nil
}

// StoreTx uploads contract bytecode.
type StoreTx struct {
	wasmPath string
	opts     txOpts
}

// Store begins a bytecode upload of the wasm file at wasmPath.
func Store(wasmPath string) *StoreTx {
	return &StoreTx{wasmPath: wasmPath, opts: defaultTxOpts()}
}

// WithGas overrides the gas unit budget.
func (t *StoreTx) WithGas(units uint64) *StoreTx {
	t.opts.gasUnits = units
	return t
}

// WithPreSubmit registers a hook run on the built command before
// broadcast.
func (t *StoreTx) WithPreSubmit(hook PreSubmit) *StoreTx {
	t.opts.preSubmit = hook
	return t
}

// Send broadcasts the upload signed by from and returns the stored code's
// id.
func (t *StoreTx) Send(ctx context.Context, net network.Network, from keys.Key) (cosmoscli.CodeID, error) {
	frame, err := send(ctx, net, from, t.opts, func(tx *cosmoscli.TxCmd) *cosmoscli.ReadyTxCmd {
		return tx.WasmStore(t.wasmPath)
	})
	if err != nil {
		return 0, err
	}
	return cosmoscli.DecodeStoreCodeResponse(frame)
}

// InstantiateTx creates a contract from stored code.
type InstantiateTx struct {
	codeID cosmoscli.CodeID
	label  string
	msg    any
	admin  string
	opts   txOpts
}

// Instantiate begins instantiation of codeID under label with the given
// init message. Without WithAdmin the contract is instantiated
// admin-less, permanently.
func Instantiate(codeID cosmoscli.CodeID, label string, msg any) *InstantiateTx {
	return &InstantiateTx{codeID: codeID, label: label, msg: msg, opts: defaultTxOpts()}
}

// WithAdmin sets the contract's migration admin address.
func (t *InstantiateTx) WithAdmin(admin string) *InstantiateTx {
	t.admin = admin
	return t
}

// WithGas overrides the gas unit budget.
func (t *InstantiateTx) WithGas(units uint64) *InstantiateTx {
	t.opts.gasUnits = units
	return t
}

// WithAmount attaches funds to the instantiation.
func (t *InstantiateTx) WithAmount(coin cosmoscli.Coin) *InstantiateTx {
	t.opts.amount = &coin
	return t
}

// WithPreSubmit registers a hook run on the built command before
// broadcast.
func (t *InstantiateTx) WithPreSubmit(hook PreSubmit) *InstantiateTx {
	t.opts.preSubmit = hook
	return t
}

// Send broadcasts the instantiation signed by from and returns the new
// contract's address.
func (t *InstantiateTx) Send(ctx context.Context, net network.Network, from keys.Key) (cosmoscli.Contract, error) {
	msg, err := encodeMsg(t.msg)
	if err != nil {
		return "", err
	}

	frame, err := send(ctx, net, from, t.opts, func(tx *cosmoscli.TxCmd) *cosmoscli.ReadyTxCmd {
		return tx.WasmInstantiate(t.codeID, msg, t.label, t.admin)
	})
	if err != nil {
		return "", err
	}
	return cosmoscli.DecodeInstantiateResponse(frame)
}

// ExecuteTx invokes a deployed contract.
type ExecuteTx struct {
	contract cosmoscli.Contract
	msg      any
	opts     txOpts
}

// Execute begins an execution of contract with the given message.
func Execute(contract cosmoscli.Contract, msg any) *ExecuteTx {
	return &ExecuteTx{contract: contract, msg: msg, opts: defaultTxOpts()}
}

// WithGas overrides the gas unit budget.
func (t *ExecuteTx) WithGas(units uint64) *ExecuteTx {
	t.opts.gasUnits = units
	return t
}

// WithAmount attaches funds to the execution.
func (t *ExecuteTx) WithAmount(coin cosmoscli.Coin) *ExecuteTx {
	t.opts.amount = &coin
	return t
}

// WithPreSubmit registers a hook run on the built command before
// broadcast.
func (t *ExecuteTx) WithPreSubmit(hook PreSubmit) *ExecuteTx {
	t.opts.preSubmit = hook
	return t
}

// Send broadcasts the execution signed by from and returns the contract's
// response.
func (t *ExecuteTx) Send(ctx context.Context, net network.Network, from keys.Key) (*cosmoscli.ExecuteResponse, error) {
	msg, err := encodeMsg(t.msg)
	if err != nil {
		return nil, err
	}

	frame, err := send(ctx, net, from, t.opts, func(tx *cosmoscli.TxCmd) *cosmoscli.ReadyTxCmd {
		return tx.WasmExecute(t.contract, msg)
	})
	if err != nil {
		return nil, err
	}
	return cosmoscli.DecodeExecuteResponse(frame)
}

// Query runs a wasm smart query against contract and decodes the response
// payload into Resp. The node wraps the payload in a data envelope, which
// is unwrapped here.
func Query[Resp any](ctx context.Context, net network.Network, contract cosmoscli.Contract, msg any) (Resp, error) {
	var zero Resp

	encoded, err := encodeMsg(msg)
	if err != nil {
		return zero, err
	}

	node, err := net.NodeAddress(ctx)
	if err != nil {
		return zero, err
	}

	raw, err := net.Tool().Cmd().Query(node.String()).WasmSmart(ctx, contract, encoded)
	if err != nil {
		return zero, err
	}

	var envelope struct {
		Data Resp `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return zero, ErrEncode.Wrapf("query response: %v", err)
	}
	return envelope.Data, nil
}
