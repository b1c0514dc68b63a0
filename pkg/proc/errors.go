package proc

import "cosmossdk.io/errors"

const codespace = "proc"

var (
	ErrStart  = errors.Register(codespace, 1, "start process")
	ErrFollow = errors.Register(codespace, 2, "follow logfile")
)
