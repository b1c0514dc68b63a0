// Package testrunner provides a scripted cosmoscli.Runner for unit tests.
// Responses are consumed in FIFO order, one per invocation; once the script
// is exhausted every further invocation succeeds with empty output. All
// invocations are recorded for assertion.
package testrunner

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
)

type response struct {
	out cosmoscli.Output
	err error
}

// Runner is a scripted, recording implementation of cosmoscli.Runner.
type Runner struct {
	mu       sync.Mutex
	script   []response
	Recorded []cosmoscli.Invocation
}

var _ cosmoscli.Runner = (*Runner)(nil)

func New() *Runner { return &Runner{} }

// Respond enqueues a raw scripted response.
func (r *Runner) Respond(out cosmoscli.Output, err error) *Runner {
	r.script = append(r.script, response{out: out, err: err})
	return r
}

// RespondText enqueues a successful response with the given stdout.
func (r *Runner) RespondText(stdout string) *Runner {
	return r.Respond(cosmoscli.Output{Stdout: []byte(stdout)}, nil)
}

// RespondJSON enqueues a successful response whose stdout is v marshalled to
// JSON.
func (r *Runner) RespondJSON(v any) *Runner {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return r.Respond(cosmoscli.Output{Stdout: data}, nil)
}

// RespondExit enqueues a non-zero exit with the given stderr.
func (r *Runner) RespondExit(code int, stderr string) *Runner {
	return r.Respond(cosmoscli.Output{ExitCode: code, Stderr: []byte(stderr)}, nil)
}

// RespondOK enqueues n successful empty responses.
func (r *Runner) RespondOK(n int) *Runner {
	for i := 0; i < n; i++ {
		r.RespondText("")
	}
	return r
}

func (r *Runner) Run(_ context.Context, inv cosmoscli.Invocation) (cosmoscli.Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Recorded = append(r.Recorded, inv)

	if len(r.script) == 0 {
		return cosmoscli.Output{}, nil
	}
	next := r.script[0]
	r.script = r.script[1:]
	return next.out, next.err
}

// Commands renders every recorded invocation as a single command line.
func (r *Runner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.Recorded))
	for i, inv := range r.Recorded {
		out[i] = inv.String()
	}
	return out
}

// LastArgs returns the argument list of the most recent invocation.
func (r *Runner) LastArgs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Recorded) == 0 {
		return nil
	}
	return r.Recorded[len(r.Recorded)-1].Args
}

// ContainsCommand reports whether any recorded command line contains the
// given substring.
func (r *Runner) ContainsCommand(substr string) bool {
	for _, line := range r.Commands() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
