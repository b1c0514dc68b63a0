package network

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
)

// StateRootEnv overrides where backends persist their state.
const StateRootEnv = "XTASK_HOME"

// StateRoot returns the directory backends persist state under: the
// StateRootEnv override when set, otherwise .xtask below the working
// directory.
func StateRoot() (string, error) {
	if root := os.Getenv(StateRootEnv); root != "" {
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", ErrState.Wrapf("resolve working directory: %v", err)
	}
	return filepath.Join(cwd, ".xtask"), nil
}

// Instance carries the state common to every backend: an append-only key
// inventory and a memoized node address. Backends embed it.
type Instance struct {
	mu        sync.Mutex
	inventory []keys.Key

	// NodeAddr memoizes the backend's resolved RPC endpoint.
	NodeAddr Memo[NodeAddress]
}

// AddKeys appends recovered or created keys to the inventory, preserving
// order. Keys are never removed.
func (i *Instance) AddKeys(ks ...keys.Key) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.inventory = append(i.inventory, ks...)
}

// Keys returns a copy of the inventory in the order keys were added.
func (i *Instance) Keys() []keys.Key {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]keys.Key, len(i.inventory))
	copy(out, i.inventory)
	return out
}
