package neutron

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
)

// toolchain runs the build commands (git, make, cargo) components need,
// routing them through the same Runner the chain CLIs use so tests can
// script entire bootstraps.
type toolchain struct {
	runner cosmoscli.Runner
	logger zerolog.Logger
	root   string
}

func (tc *toolchain) run(ctx context.Context, dir string, env []string, bin string, args ...string) error {
	out, err := tc.runner.Run(ctx, cosmoscli.Invocation{
		Bin:  bin,
		Args: args,
		Dir:  dir,
		Env:  env,
	})
	if err != nil {
		return ErrBuild.Wrapf("%s: %v", bin, err)
	}
	if !out.Success() {
		return ErrBuild.Wrapf("%s %s: %s", bin, strings.Join(args, " "), strings.TrimSpace(string(out.Stderr)))
	}
	return nil
}

// clone fetches a single-branch shallow checkout into srcDir unless it is
// already there.
func (tc *toolchain) clone(ctx context.Context, repoURL, branch, srcDir string) error {
	if pathExists(srcDir) {
		return nil
	}
	return tc.run(ctx, "", nil, "git",
		"clone", "--depth", "1", "--branch", branch, repoURL, srcDir)
}

// makeInstall builds a cloned Go component. GOPATH points at the backend
// root so `make install` drops binaries into <root>/bin; -modcacherw keeps
// the module cache removable by Clean.
func (tc *toolchain) makeInstall(ctx context.Context, srcDir, target string) error {
	return tc.run(ctx, srcDir,
		[]string{"GOPATH=" + tc.root, "GOFLAGS=-modcacherw"},
		"make", target)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func allExist(paths ...string) bool {
	for _, p := range paths {
		if !pathExists(p) {
			return false
		}
	}
	return true
}
