package cosmoscli

import (
	"context"
	"time"
)

const (
	// DefaultTxPollInterval is the sleep between tx-by-id lookups.
	DefaultTxPollInterval = 250 * time.Millisecond
	// DefaultBlockPollInterval is the sleep between block-height lookups
	// once the node is reachable.
	DefaultBlockPollInterval = 500 * time.Millisecond
)

// QueryFactory produces a fresh query pipeline per poll attempt. It may fail
// (e.g. the node address cannot be resolved), which aborts the poll.
type QueryFactory func() (*QueryCmd, error)

type pollConfig struct {
	interval      time.Duration
	blockInterval time.Duration
	maxAttempts   int
}

// PollOption tunes a polling loop at the call site.
type PollOption func(*pollConfig)

// WithInterval overrides the sleep between poll attempts.
func WithInterval(d time.Duration) PollOption {
	return func(cfg *pollConfig) { cfg.interval = d }
}

// WithBlockInterval overrides the sleep between block-height lookups in
// WaitForBlocks' second phase.
func WithBlockInterval(d time.Duration) PollOption {
	return func(cfg *pollConfig) { cfg.blockInterval = d }
}

// WithMaxAttempts bounds a polling loop. Zero (the default) polls without
// bound, so a permanently unavailable node blocks forever unless the caller
// imposes a limit here or cancels the context.
func WithMaxAttempts(n int) PollOption {
	return func(cfg *pollConfig) { cfg.maxAttempts = n }
}

func newPollConfig(opts []PollOption) pollConfig {
	cfg := pollConfig{
		interval:      DefaultTxPollInterval,
		blockInterval: DefaultBlockPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WaitForTx polls the tx-by-id query until txID is observed included in a
// block, returning its finalized record. "Not yet found" retries; any other
// query failure, including a found transaction with a non-zero code, is
// final.
func WaitForTx(ctx context.Context, query QueryFactory, txID TxID, opts ...PollOption) (*TxResult, error) {
	cfg := newPollConfig(opts)

	for attempts := 0; ; {
		q, err := query()
		if err != nil {
			return nil, err
		}

		res, err := q.Tx(ctx, txID)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}

		attempts++
		if cfg.maxAttempts > 0 && attempts >= cfg.maxAttempts {
			return nil, ErrPollExhausted.Wrapf("tx %s not found after %d attempts", txID, attempts)
		}
		if err := sleep(ctx, cfg.interval); err != nil {
			return nil, err
		}
	}
}

// WaitForBlocks polls node status until the chain produces a block. Phase
// one retries while the node's endpoint is unreachable; once a status is
// obtained its height becomes the baseline, and phase two polls at the
// slower block interval until a strictly greater height is observed, which
// is returned. A node that becomes unreachable again during phase two is
// retried the same way as in phase one.
func WaitForBlocks(ctx context.Context, query QueryFactory, opts ...PollOption) (BlockHeight, error) {
	cfg := newPollConfig(opts)

	status, err := waitForStatus(ctx, query, cfg)
	if err != nil {
		return 0, err
	}

	baseline := status.SyncInfo.LatestBlockHeight

	for attempts := 0; ; {
		if err := sleep(ctx, cfg.blockInterval); err != nil {
			return 0, err
		}

		q, err := query()
		if err != nil {
			return 0, err
		}

		status, err := q.Status(ctx)
		if err != nil {
			return 0, err
		}
		if status != nil && status.SyncInfo.LatestBlockHeight > baseline {
			return status.SyncInfo.LatestBlockHeight, nil
		}

		attempts++
		if cfg.maxAttempts > 0 && attempts >= cfg.maxAttempts {
			return 0, ErrPollExhausted.Wrapf("no block after height %d in %d attempts", baseline, attempts)
		}
	}
}

func waitForStatus(ctx context.Context, query QueryFactory, cfg pollConfig) (*Status, error) {
	for attempts := 0; ; {
		q, err := query()
		if err != nil {
			return nil, err
		}

		status, err := q.Status(ctx)
		if err != nil {
			return nil, err
		}
		if status != nil {
			return status, nil
		}

		attempts++
		if cfg.maxAttempts > 0 && attempts >= cfg.maxAttempts {
			return nil, ErrPollExhausted.Wrapf("node unreachable after %d attempts", attempts)
		}
		if err := sleep(ctx, cfg.interval); err != nil {
			return nil, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
