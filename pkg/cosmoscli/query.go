package cosmoscli

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Query narrows the pipeline into the query sub-pipeline against node.
func (c *Cmd) Query(node string) *QueryCmd {
	c.add("--node", node)
	return &QueryCmd{cmd: c}
}

// QueryCmd is a query pipeline bound to a node address.
type QueryCmd struct {
	cmd *Cmd
}

// Tx looks a transaction up by id. A nil result with a nil error means the
// transaction is not yet found and the caller should retry; any other
// failure is final. A found transaction with a non-zero code fails with its
// raw log.
func (q *QueryCmd) Tx(ctx context.Context, txID TxID) (*TxResult, error) {
	out, err := q.cmd.add("query", "tx", txID.String(), "--output", "json").output(ctx)
	if err != nil {
		return nil, err
	}
	if !out.Success() {
		stderr := strings.TrimSpace(string(out.Stderr))
		if strings.Contains(stderr, "not found") {
			return nil, nil
		}
		return nil, ErrTxFailed.Wrap(stderr)
	}

	var res TxResult
	if err := json.Unmarshal(out.Stdout, &res); err != nil {
		return nil, ErrDecode.Wrapf("query tx %s: %v", txID, err)
	}
	if res.Code > 0 {
		return nil, ErrTxFailed.Wrap(res.RawLog)
	}
	return &res, nil
}

// Status queries the node's sync status. A nil result with a nil error means
// the node has not opened its RPC endpoint yet and the caller should retry.
func (q *QueryCmd) Status(ctx context.Context) (*Status, error) {
	out, err := q.cmd.add("status").output(ctx)
	if err != nil {
		return nil, err
	}
	if !out.Success() {
		stderr := strings.TrimSpace(string(out.Stderr))
		if strings.Contains(stderr, "connection refused") {
			return nil, nil
		}
		return nil, ErrCommandFailed.Wrap(stderr)
	}

	var status Status
	if err := json.Unmarshal(out.Stdout, &status); err != nil {
		return nil, ErrDecode.Wrapf("node status: %v", err)
	}
	return &status, nil
}

// WasmSmart runs a smart query against contract and returns the raw JSON
// response envelope.
func (q *QueryCmd) WasmSmart(ctx context.Context, contract Contract, msg string) ([]byte, error) {
	text, err := q.cmd.add(
		"query", "wasm", "contract-state", "smart",
		contract.String(), msg,
		"--output", "json",
	).readText(ctx)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// CodeInfo returns the stored metadata for codeID.
func (q *QueryCmd) CodeInfo(ctx context.Context, codeID CodeID) (*CodeInfo, error) {
	var info CodeInfo
	err := q.cmd.add(
		"query", "wasm", "code-info", codeID.String(),
		"--output", "json",
	).readJSON(ctx, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// CodeInfo is the stored-code metadata returned by the code-info query.
type CodeInfo struct {
	Creator  string `json:"creator"`
	DataHash string `json:"data_hash"`
}

// BlockHeight is a chain block height. Node status encodes it as a quoted
// decimal string.
type BlockHeight uint64

func (h *BlockHeight) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return ErrDecode.Wrapf("block height %q: %v", s, err)
	}
	*h = BlockHeight(v)
	return nil
}

// SyncInfo is the sync portion of a node status response.
type SyncInfo struct {
	LatestBlockHeight BlockHeight `json:"latest_block_height"`
}

// Status is a node status response. Different chain binary generations emit
// the sync info under "SyncInfo" or "sync_info"; both are accepted.
type Status struct {
	SyncInfo SyncInfo
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var probe struct {
		Legacy *SyncInfo `json:"SyncInfo"`
		Modern *SyncInfo `json:"sync_info"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch {
	case probe.Legacy != nil:
		s.SyncInfo = *probe.Legacy
	case probe.Modern != nil:
		s.SyncInfo = *probe.Modern
	default:
		return ErrDecode.Wrap("node status carried no sync info")
	}
	return nil
}
