package neutron

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/proc"
)

const (
	hermesCrate        = "ibc-relayer-cli"
	hermesCrateVersion = "1.6.0"
	hermesCrateBin     = "hermes"

	// hermesConfigInRepo is the relayer config the neutron checkout
	// ships for exactly this two-chain layout.
	hermesConfigInRepo = "network/hermes/config.toml"
)

// hermes relays IBC packets between the two local chains. The binary is
// installed once with cargo; keys are recreated from the well-known
// relayer mnemonics on every initialize.
type hermes struct {
	tc         *toolchain
	homeDir    string
	configPath string
	binPath    string
	logPath    string
}

func newHermes(tc *toolchain) *hermes {
	home := filepath.Join(tc.root, ".hermes")
	return &hermes{
		tc:         tc,
		homeDir:    home,
		configPath: filepath.Join(home, "config.toml"),
		binPath:    filepath.Join(tc.root, "bin", "hermes"),
		logPath:    filepath.Join(home, "hermes.log"),
	}
}

func (h *hermes) isInitialized() bool {
	return allExist(h.binPath, h.homeDir)
}

func (h *hermes) init(ctx context.Context, neutronSrcDir string) error {
	if !pathExists(h.binPath) {
		err := h.tc.run(ctx, "", nil, "cargo",
			"install", hermesCrate,
			"--bin", hermesCrateBin,
			"--version", hermesCrateVersion,
			"--locked",
			"--root", h.tc.root,
		)
		if err != nil {
			return err
		}
	}

	os.RemoveAll(h.homeDir)
	if err := os.MkdirAll(h.homeDir, 0o755); err != nil {
		return ErrInitialize.Wrapf("hermes home: %v", err)
	}
	if err := copyFile(filepath.Join(neutronSrcDir, hermesConfigInRepo), h.configPath); err != nil {
		return ErrInitialize.Wrapf("hermes config: %v", err)
	}

	// hermes only takes mnemonics from a file.
	chains := []struct {
		chainID  string
		keyName  string
		mnemonic string
		file     string
	}{
		{LocalChainID.String(), "testkey_1", wellKnownAccounts[relayerMnemonicNeutron].Mnemonic, "mnemonic1.txt"},
		{gaiaChainID, "testkey_2", wellKnownAccounts[relayerMnemonicGaia].Mnemonic, "mnemonic2.txt"},
	}

	env := []string{"HOME=" + h.tc.root}
	for _, chain := range chains {
		mnemonicPath := filepath.Join(h.homeDir, chain.file)
		if err := os.WriteFile(mnemonicPath, []byte(chain.mnemonic), 0o600); err != nil {
			return ErrInitialize.Wrapf("write mnemonic: %v", err)
		}

		err := h.tc.run(ctx, "", env, h.binPath,
			"--config", h.configPath,
			"keys", "delete", "--chain", chain.chainID, "--all")
		if err != nil {
			return err
		}

		err = h.tc.run(ctx, "", env, h.binPath,
			"--config", h.configPath,
			"keys", "add",
			"--key-name", chain.keyName,
			"--chain", chain.chainID,
			"--mnemonic-file", mnemonicPath)
		if err != nil {
			return err
		}
	}
	return nil
}

// start opens the IBC connection and transfer channel between the two
// chains, then launches the relay loop. The setup commands log into the
// same file the loop appends to.
func (h *hermes) start(ctx context.Context) (*proc.Process, error) {
	// hermes rejects chains whose first blocks are too fresh; give them
	// a moment.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
	}

	setup := []struct {
		name string
		args []string
	}{
		{"hermes-create-connection", []string{
			"--config", h.configPath,
			"create", "connection",
			"--a-chain", LocalChainID.String(),
			"--b-chain", gaiaChainID,
		}},
		{"hermes-create-channel", []string{
			"--config", h.configPath,
			"create", "channel",
			"--a-chain", LocalChainID.String(),
			"--a-connection", "connection-0",
			"--a-port", "transfer",
			"--b-port", "transfer",
		}},
	}

	for i, step := range setup {
		p, err := proc.Start(h.tc.logger, proc.Spec{
			Name:      step.name,
			Bin:       h.binPath,
			Args:      step.args,
			Env:       []string{"HOME=" + h.tc.root},
			LogPath:   h.logPath,
			AppendLog: i > 0,
		})
		if err != nil {
			return nil, ErrStart.Wrap(err.Error())
		}
		if err := p.Wait(); err != nil {
			return nil, ErrStart.Wrapf("%s: %v", step.name, err)
		}
	}

	return proc.Start(h.tc.logger, proc.Spec{
		Name:      "hermes",
		Bin:       h.binPath,
		Args:      []string{"--config", h.configPath, "start"},
		Env:       []string{"HOME=" + h.tc.root},
		LogPath:   h.logPath,
		AppendLog: true,
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
