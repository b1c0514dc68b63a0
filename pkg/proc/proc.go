package proc

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
)

// Handle owns a running process or process tree.
type Handle interface {
	// Foreground streams the process's output to stdout until ctx is
	// done or the user interrupts, then returns without stopping
	// anything.
	Foreground(ctx context.Context) error
	// Release stops everything the handle owns. Termination failures
	// are logged, never returned; state on disk is left intact.
	Release()
}

// Spec describes a process to start.
type Spec struct {
	// Name labels the process in logs.
	Name string
	Bin  string
	Args []string
	// Env entries ("KEY=value") are appended to the parent environment.
	Env []string
	Dir string
	// LogPath receives the child's combined stdout and stderr.
	LogPath string
	// AppendLog opens LogPath in append mode instead of truncating it.
	AppendLog bool
}

// Process is a started child in its own process group.
type Process struct {
	spec    Spec
	cmd     *exec.Cmd
	logfile *os.File
	logger  zerolog.Logger
}

// Start launches the process described by spec. The child is placed in its
// own process group so Release can take down anything it forks.
func Start(logger zerolog.Logger, spec Spec) (*Process, error) {
	if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0o755); err != nil {
		return nil, ErrStart.Wrapf("%s: log dir: %v", spec.Name, err)
	}

	mode := os.O_CREATE | os.O_WRONLY
	if spec.AppendLog {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}
	logfile, err := os.OpenFile(spec.LogPath, mode, 0o644)
	if err != nil {
		return nil, ErrStart.Wrapf("%s: open log: %v", spec.Name, err)
	}

	cmd := exec.Command(spec.Bin, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdout = logfile
	cmd.Stderr = logfile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		logfile.Close()
		return nil, ErrStart.Wrapf("%s: %v", spec.Name, err)
	}

	logger.Info().
		Str("process", spec.Name).
		Int("pid", cmd.Process.Pid).
		Str("log", spec.LogPath).
		Msg("started")

	return &Process{spec: spec, cmd: cmd, logfile: logfile, logger: logger}, nil
}

// Pid returns the child's process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Wait blocks until the child exits on its own.
func (p *Process) Wait() error {
	defer p.logfile.Close()
	return p.cmd.Wait()
}

// Foreground follows the child's logfile until ctx is done or the user
// interrupts. The child keeps running when it returns.
func (p *Process) Foreground(ctx context.Context) error {
	ctx, stop := WithInterrupt(ctx)
	defer stop()
	return FollowFile(ctx, p.spec.LogPath, os.Stdout)
}

// Release kills the child's process group and reaps it. Kill failures are
// logged and swallowed so teardown of sibling processes continues.
func (p *Process) Release() {
	defer p.logfile.Close()

	if err := syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL); err != nil {
		p.logger.Error().
			Err(err).
			Str("process", p.spec.Name).
			Int("pid", p.cmd.Process.Pid).
			Msg("kill process group")
		return
	}

	// Reap; the error is the kill we just sent.
	_ = p.cmd.Wait()

	p.logger.Info().
		Str("process", p.spec.Name).
		Int("pid", p.cmd.Process.Pid).
		Msg("stopped")
}

// WithInterrupt derives a context that is cancelled on SIGINT or SIGTERM.
func WithInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
