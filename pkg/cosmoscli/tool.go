package cosmoscli

import (
	"context"
	"encoding/json"
	"strings"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
)

// Tool binds a Runner to one chain binary invocation: either the binary
// itself (`neutrond --home <dir>`) or a container wrapper around it
// (`docker run ... archwayd --home /home`). Tools are cheap and reusable;
// every Cmd produced by one is independent and single-use.
type Tool struct {
	runner   Runner
	logger   zerolog.Logger
	bin      string
	baseArgs []string
	dir      string
	env      []string
}

func NewTool(runner Runner, logger zerolog.Logger, bin string, baseArgs ...string) *Tool {
	return &Tool{
		runner:   runner,
		logger:   logger,
		bin:      bin,
		baseArgs: baseArgs,
	}
}

// WithDir sets the working directory for every invocation of the tool.
func (t *Tool) WithDir(dir string) *Tool {
	t.dir = dir
	return t
}

// WithEnv appends KEY=VALUE pairs to the environment of every invocation.
func (t *Tool) WithEnv(kv ...string) *Tool {
	t.env = append(t.env, kv...)
	return t
}

// Cmd starts a fresh pipeline. Each Cmd executes exactly one subprocess when
// a terminal operation is called and must not be reused afterwards.
func (t *Tool) Cmd() *Cmd {
	args := make([]string, len(t.baseArgs), len(t.baseArgs)+16)
	copy(args, t.baseArgs)
	return &Cmd{tool: t, args: args}
}

// Cmd is a pending invocation being narrowed towards a terminal operation.
type Cmd struct {
	tool  *Tool
	args  []string
	stdin string
}

func (c *Cmd) add(args ...string) *Cmd {
	c.args = append(c.args, args...)
	return c
}

func (c *Cmd) invocation() Invocation {
	return Invocation{
		Bin:   c.tool.bin,
		Args:  c.args,
		Dir:   c.tool.dir,
		Env:   c.tool.env,
		Stdin: c.stdin,
	}
}

// output executes the invocation and returns the raw captured output without
// interpreting the exit status.
func (c *Cmd) output(ctx context.Context) (Output, error) {
	return c.tool.runner.Run(ctx, c.invocation())
}

// run executes the invocation and fails unless it exits zero.
func (c *Cmd) run(ctx context.Context) error {
	out, err := c.output(ctx)
	if err != nil {
		return err
	}
	if !out.Success() {
		return ErrCommandFailed.Wrapf("%s: %s", c.invocation().String(), strings.TrimSpace(string(out.Stderr)))
	}
	if len(out.Stdout) > 0 {
		c.tool.logger.Debug().Str("stdout", strings.TrimSpace(string(out.Stdout))).Msg("command output")
	}
	return nil
}

// readText executes the invocation and returns its stdout as text.
func (c *Cmd) readText(ctx context.Context) (string, error) {
	out, err := c.output(ctx)
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", ErrCommandFailed.Wrapf("%s: %s", c.invocation().String(), strings.TrimSpace(string(out.Stderr)))
	}
	return string(out.Stdout), nil
}

// readJSON executes the invocation and unmarshals its stdout into v.
func (c *Cmd) readJSON(ctx context.Context, v any) error {
	text, err := c.readText(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return ErrDecode.Wrapf("%s: %v", c.invocation().String(), err)
	}
	return nil
}

// Coin is a denomination-qualified amount formatted the way the CLI expects
// (e.g. "1000000untrn").
type Coin struct {
	Amount math.Int
	Denom  string
}

func NewCoin(amount math.Int, denom string) Coin {
	return Coin{Amount: amount, Denom: denom}
}

func (c Coin) String() string { return c.Amount.String() + c.Denom }

func formatCoins(coins []Coin) string {
	parts := make([]string, len(coins))
	for i, c := range coins {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
