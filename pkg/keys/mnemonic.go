package keys

import (
	bip39 "github.com/cosmos/go-bip39"
)

// mnemonicEntropyBits yields a 24-word mnemonic, matching what the chain
// CLIs generate for new keys.
const mnemonicEntropyBits = 256

// NewMnemonic generates a fresh bip39 mnemonic suitable for key recovery.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", ErrInvalidMnemonic.Wrap(err.Error())
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", ErrInvalidMnemonic.Wrap(err.Error())
	}

	return mnemonic, nil
}

// ValidateMnemonic checks that mnemonic is a well-formed bip39 phrase.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}
