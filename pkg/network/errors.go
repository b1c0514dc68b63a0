package network

import "cosmossdk.io/errors"

const codespace = "network"

var (
	ErrNoSigner = errors.Register(codespace, 1, "no signing key in inventory")
	ErrState    = errors.Register(codespace, 2, "network state")
)
