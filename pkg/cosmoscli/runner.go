package cosmoscli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Invocation is a single external command invocation: a binary, its
// arguments, and the environment it runs in.
type Invocation struct {
	Bin   string
	Args  []string
	Dir   string
	Env   []string // extra KEY=VALUE pairs appended to the inherited environment
	Stdin string
}

func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Bin}, inv.Args...), " ")
}

// Output is the captured result of a completed invocation.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the invocation exited zero.
func (o Output) Success() bool { return o.ExitCode == 0 }

// Runner executes invocations. Implementations must run the process to
// completion synchronously and capture its output; a non-zero exit status is
// reported through Output.ExitCode, not the error. The error is reserved for
// failures to run the process at all.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Output, error)
}

// ExecRunner runs invocations as local subprocesses via os/exec.
type ExecRunner struct {
	logger zerolog.Logger
}

var _ Runner = (*ExecRunner)(nil)

func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Output, error) {
	cmd := exec.CommandContext(ctx, inv.Bin, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	if inv.Stdin != "" {
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().Str("command", inv.String()).Msg("running")

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, ErrCommandFailed.Wrapf("%s: %v", inv.String(), err)
	}

	return out, nil
}
