package network

import (
	"context"

	"cosmossdk.io/math"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

// ChainID identifies a chain ("test-1", "pion-1", "localnet").
type ChainID string

func (id ChainID) String() string { return string(id) }

// NodeAddress is the RPC endpoint transactions and queries are sent to.
type NodeAddress string

func (a NodeAddress) String() string { return string(a) }

// Tier selects how aggressively a transaction bids for block space.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Price is a per-gas-unit price in a single denom.
type Price struct {
	Amount math.LegacyDec
	Denom  string
}

// NewPrice builds a Price from a decimal string, panicking on malformed
// input. Backends declare their tiers with literal amounts, so a bad amount
// is a programming error.
func NewPrice(amount, denom string) Price {
	return Price{Amount: math.LegacyMustNewDecFromStr(amount), Denom: denom}
}

// String renders the price the way the CLI's --gas-prices flag expects.
func (p Price) String() string { return p.Amount.String() + p.Denom }

// Gas pairs a unit budget with the price bid per unit.
type Gas struct {
	Units uint64
	Price Price
}

// Network is the capability set every backend exposes.
type Network interface {
	// ChainID returns the backend's chain identifier.
	ChainID() ChainID
	// NodeAddress resolves the RPC endpoint. Backends may resolve it
	// lazily (e.g. from a running container) and memoize the result.
	NodeAddress(ctx context.Context) (NodeAddress, error)
	// Keys returns the funded key inventory in recovery order.
	Keys() []keys.Key
	// GasPrice returns the per-unit gas price for the given tier.
	GasPrice(tier Tier) Price
	// Tool returns a command pipeline factory bound to the backend's
	// chain binary.
	Tool() *cosmoscli.Tool
}

// Starter is implemented by backends that run their chain locally.
type Starter interface {
	Network
	// StartLocal launches the backend's processes and returns a handle
	// owning them. The chain is producing blocks when it returns.
	StartLocal(ctx context.Context) (proc.Handle, error)
}

// Scope selects how much persisted state Clean removes.
type Scope int

const (
	// ScopeState removes chain state but keeps expensive artifacts
	// (cloned sources, built binaries, pulled images).
	ScopeState Scope = iota
	// ScopeAll removes everything under the backend's root.
	ScopeAll
)

// Cleaner is implemented by backends with persisted local state.
type Cleaner interface {
	Clean(ctx context.Context, scope Scope) error
}

// Signer returns the conventional signing key of net: the first entry of
// its inventory.
func Signer(net Network) (keys.Key, error) {
	inventory := net.Keys()
	if len(inventory) == 0 {
		return keys.Key{}, ErrNoSigner
	}
	return inventory[0], nil
}

// WaitForTx polls net until txID lands in a block.
func WaitForTx(ctx context.Context, net Network, txID cosmoscli.TxID, opts ...cosmoscli.PollOption) (*cosmoscli.TxResult, error) {
	return cosmoscli.WaitForTx(ctx, queryFactory(ctx, net), txID, opts...)
}

// WaitForBlocks polls net until it produces a block past the current
// height, returning the new height.
func WaitForBlocks(ctx context.Context, net Network, opts ...cosmoscli.PollOption) (cosmoscli.BlockHeight, error) {
	return cosmoscli.WaitForBlocks(ctx, queryFactory(ctx, net), opts...)
}

func queryFactory(ctx context.Context, net Network) cosmoscli.QueryFactory {
	return func() (*cosmoscli.QueryCmd, error) {
		node, err := net.NodeAddress(ctx)
		if err != nil {
			return nil, err
		}
		return net.Tool().Cmd().Query(node.String()), nil
	}
}
