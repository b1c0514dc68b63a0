package contract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
)

const (
	optimizerImage = "cosmwasm/workspace-optimizer:0.14.0"

	// ArtifactsDirEnv overrides where optimized wasm binaries land.
	ArtifactsDirEnv = "COSMWASM_ARTIFACTS_DIR"

	defaultArtifactsDir = "artifacts"
)

// DistWorkspace builds and optimizes every contract crate in the current
// workspace with the cosmwasm workspace-optimizer image. Build and
// registry caches persist in named docker volumes keyed by the workspace
// directory name.
func DistWorkspace(ctx context.Context, runner cosmoscli.Runner) error {
	cwd, err := os.Getwd()
	if err != nil {
		return ErrDist.Wrap(err.Error())
	}
	cwd, err = filepath.EvalSymlinks(cwd)
	if err != nil {
		return ErrDist.Wrap(err.Error())
	}

	artifactsDir := os.Getenv(ArtifactsDirEnv)
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return ErrDist.Wrapf("artifacts dir: %v", err)
	}

	out, err := runner.Run(ctx, cosmoscli.Invocation{
		Bin: "docker",
		Args: []string{
			"run", "--rm",
			"-v", cwd + ":/code",
			"--mount", "type=volume,source=" + filepath.Base(cwd) + "_cache,target=/code/target",
			"--mount", "type=volume,source=registry_cache,target=/usr/local/cargo/registry",
			optimizerImage,
		},
	})
	if err != nil {
		return ErrDist.Wrap(err.Error())
	}
	if !out.Success() {
		return ErrDist.Wrap(strings.TrimSpace(string(out.Stderr)))
	}
	return nil
}
