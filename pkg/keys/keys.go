package keys

import (
	"encoding/json"
	"fmt"
)

// KeyringBackend classifies where a signing key's secret material lives.
type KeyringBackend string

const (
	// BackendOs stores key material in the operating system's native keyring.
	BackendOs KeyringBackend = "os"
	// BackendTest stores key material in an unencrypted, ephemeral test store.
	BackendTest KeyringBackend = "test"
)

// String returns the backend name as passed to the chain CLI's
// --keyring-backend flag.
func (b KeyringBackend) String() string { return string(b) }

// Validate returns an error if b is not a known keyring backend.
func (b KeyringBackend) Validate() error {
	switch b {
	case BackendOs, BackendTest:
		return nil
	}
	return ErrInvalidBackend.Wrapf("%q", string(b))
}

// Raw is a key as printed by the chain CLI's key commands. The CLI output
// does not include the keyring backend it was asked to operate on, so a Raw
// key must be stamped with it via WithBackend before use.
type Raw struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// WithBackend stamps the raw key with the keyring backend that was requested
// when it was created or listed.
func (r Raw) WithBackend(backend KeyringBackend) Key {
	return Key{Name: r.Name, Address: r.Address, Backend: backend}
}

// Key is a named signing identity held in a keyring backend. It is immutable
// once created.
type Key struct {
	Name    string
	Address string
	Backend KeyringBackend
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s (%s)", k.Name, k.Address, k.Backend)
}

// ParseRaw decodes a single key object from CLI JSON output.
func ParseRaw(data []byte) (Raw, error) {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return Raw{}, ErrParseKey.Wrap(err.Error())
	}
	return raw, nil
}

// ParseRawList decodes a key list from CLI JSON output. Chain CLI versions
// differ on the list shape, so both the bare array and the wrapped
// {"keys": [...]} form are accepted.
func ParseRawList(data []byte) ([]Raw, error) {
	var raws []Raw
	if err := json.Unmarshal(data, &raws); err == nil {
		return raws, nil
	}

	var wrapped struct {
		Keys []Raw `json:"keys"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, ErrParseKey.Wrap(err.Error())
	}
	if wrapped.Keys == nil {
		return nil, ErrParseKey.Wrapf("no key list in %q", string(data))
	}
	return wrapped.Keys, nil
}
