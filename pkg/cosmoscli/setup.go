package cosmoscli

import (
	"context"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
)

// ListKeys lists the keys held in the given keyring backend, stamping each
// parsed key with that backend (the CLI output does not carry it).
func (c *Cmd) ListKeys(ctx context.Context, backend keys.KeyringBackend) ([]keys.Key, error) {
	text, err := c.add(
		"keys", "list",
		"--keyring-backend", backend.String(),
		"--output", "json",
	).readText(ctx)
	if err != nil {
		return nil, err
	}

	raws, err := keys.ParseRawList([]byte(text))
	if err != nil {
		return nil, err
	}

	out := make([]keys.Key, len(raws))
	for i, raw := range raws {
		out[i] = raw.WithBackend(backend)
	}
	return out, nil
}

// AddKey creates a new key under name in the given keyring backend.
func (c *Cmd) AddKey(ctx context.Context, name string, backend keys.KeyringBackend) (keys.Key, error) {
	text, err := c.add(
		"keys", "add", name,
		"--keyring-backend", backend.String(),
		"--output", "json",
	).readText(ctx)
	if err != nil {
		return keys.Key{}, err
	}

	raw, err := keys.ParseRaw([]byte(text))
	if err != nil {
		return keys.Key{}, err
	}
	return raw.WithBackend(backend), nil
}

// RecoverKey recreates a key under name from a bip39 mnemonic, which is fed
// to the CLI over stdin.
func (c *Cmd) RecoverKey(ctx context.Context, name, mnemonic string, backend keys.KeyringBackend) (keys.Key, error) {
	c.stdin = mnemonic

	text, err := c.add(
		"keys", "add", name,
		"--keyring-backend", backend.String(),
		"--recover",
		"--output", "json",
	).readText(ctx)
	if err != nil {
		return keys.Key{}, err
	}

	raw, err := keys.ParseRaw([]byte(text))
	if err != nil {
		return keys.Key{}, err
	}
	return raw.WithBackend(backend), nil
}

// InitChain creates the chain's genesis and config skeleton in the tool's
// home directory.
func (c *Cmd) InitChain(ctx context.Context, moniker, chainID string) error {
	return c.add("init", moniker, "--chain-id", chainID).run(ctx)
}

// AddGenesisAccount funds key with the given coins at genesis.
func (c *Cmd) AddGenesisAccount(ctx context.Context, key keys.Key, coins ...Coin) error {
	return c.add(
		"add-genesis-account", key.Name, formatCoins(coins),
		"--keyring-backend", key.Backend.String(),
	).run(ctx)
}

// GenTx generates the validator genesis transaction for key, self-delegating
// amount. A zero gasUnits omits the --gas flag.
func (c *Cmd) GenTx(ctx context.Context, key keys.Key, amount Coin, gasUnits uint64, chainID string) error {
	c.add("gentx", key.Name, amount.String())
	if gasUnits > 0 {
		c.add("--gas", strconv.FormatUint(gasUnits, 10))
	}
	return c.add(
		"--chain-id", chainID,
		"--keyring-backend", key.Backend.String(),
	).run(ctx)
}

// CollectGenTxs folds all generated validator transactions into genesis.
func (c *Cmd) CollectGenTxs(ctx context.Context) error {
	return c.add("collect-gentxs").run(ctx)
}

// ValidateGenesis checks the genesis file for consistency.
func (c *Cmd) ValidateGenesis(ctx context.Context) error {
	return c.add("validate-genesis").run(ctx)
}

// BuildAddress derives the predictable address a contract would be
// instantiated at from its code hash, creator and salt. The salt is
// hex-encoded for the CLI; the address is the first whitespace-delimited
// token of the plain-text output.
func (c *Cmd) BuildAddress(ctx context.Context, codeHash string, from keys.Key, salt string) (string, error) {
	out, err := c.add(
		"query", "wasm", "build-address",
		codeHash, from.Address, hex.EncodeToString([]byte(salt)),
	).readText(ctx)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", ErrDecode.Wrap("build-address returned no output")
	}
	return fields[0], nil
}
