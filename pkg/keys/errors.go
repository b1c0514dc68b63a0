package keys

import sdkerrors "cosmossdk.io/errors"

const codespace = "keys"

var (
	ErrInvalidBackend  = sdkerrors.Register(codespace, 1, "invalid keyring backend")
	ErrParseKey        = sdkerrors.Register(codespace, 2, "failed to parse key output")
	ErrInvalidMnemonic = sdkerrors.Register(codespace, 3, "invalid mnemonic")
)
