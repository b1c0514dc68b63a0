package patch

import sdkerrors "cosmossdk.io/errors"

const codespace = "patch"

var ErrPatchFile = sdkerrors.Register(codespace, 1, "failed to patch file")
