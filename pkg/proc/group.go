package proc

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Group owns an ordered set of handles started as one topology. Release
// stops them newest-first, the reverse of startup order, so dependents go
// down before what they depend on.
type Group struct {
	logger     zerolog.Logger
	followPath string
	handles    []Handle
}

// NewGroup returns an empty group. Foreground follows followPath, the
// logfile of the topology's primary process.
func NewGroup(logger zerolog.Logger, followPath string) *Group {
	return &Group{logger: logger, followPath: followPath}
}

// Add appends a started handle. Later additions are released first.
func (g *Group) Add(h Handle) { g.handles = append(g.handles, h) }

// Foreground follows the primary logfile until ctx is done or the user
// interrupts. Children keep running when it returns.
func (g *Group) Foreground(ctx context.Context) error {
	ctx, stop := WithInterrupt(ctx)
	defer stop()
	return FollowFile(ctx, g.followPath, os.Stdout)
}

// Release stops every owned handle, newest first.
func (g *Group) Release() {
	for i := len(g.handles) - 1; i >= 0; i-- {
		g.handles[i].Release()
	}
	g.handles = nil
}
