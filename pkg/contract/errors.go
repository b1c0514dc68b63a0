package contract

import "cosmossdk.io/errors"

const codespace = "contract"

var (
	ErrEncode = errors.Register(codespace, 1, "encode contract message")
	ErrDist   = errors.Register(codespace, 2, "dist workspace")
)
