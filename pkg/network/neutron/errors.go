package neutron

import "cosmossdk.io/errors"

const codespace = "neutron"

var (
	ErrInitialize = errors.Register(codespace, 1, "initialize neutron network")
	ErrBuild      = errors.Register(codespace, 2, "build component")
	ErrStart      = errors.Register(codespace, 3, "start local topology")
	ErrClean      = errors.Register(codespace, 4, "clean neutron state")
)
