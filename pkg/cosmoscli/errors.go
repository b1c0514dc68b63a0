package cosmoscli

import sdkerrors "cosmossdk.io/errors"

const codespace = "cosmoscli"

var (
	ErrCommandFailed = sdkerrors.Register(codespace, 1, "command failed")
	ErrDecode        = sdkerrors.Register(codespace, 2, "failed to decode command output")
	ErrTxFailed      = sdkerrors.Register(codespace, 3, "transaction failed")
	ErrNoMsgResponse = sdkerrors.Register(codespace, 4, "expected at least one message response in transaction data")
	ErrPollExhausted = sdkerrors.Register(codespace, 5, "poll attempt budget exhausted")
)
