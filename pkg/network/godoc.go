// Package network defines the capability model a chain backend exposes to
// callers: identity (chain id, node address), the key inventory funded at
// genesis, gas price tiers, and a bound command pipeline factory. Local
// backends additionally start processes and clean persisted state.
package network
