package archway

import "cosmossdk.io/errors"

const codespace = "archway"

var (
	ErrInitialize = errors.Register(codespace, 1, "initialize archway localnet")
	ErrStart      = errors.Register(codespace, 2, "start archway localnet")
	ErrClean      = errors.Register(codespace, 3, "clean archway state")
	ErrInspect    = errors.Register(codespace, 4, "inspect archway container")
)
