package cosmoscli

import (
	"encoding/hex"
	"encoding/json"
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"
)

// Attribute is a single event attribute from a transaction's event log.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TxEvent is a typed event emitted during transaction execution.
type TxEvent struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// MsgLog groups the events emitted by one message in a transaction.
type MsgLog struct {
	Events []TxEvent `json:"events"`
}

// TxResult is the broadcast/query envelope for a transaction. Code zero
// means on-chain success; any other code carries the failure's raw log.
// Data holds the hex-encoded, length-delimited message response frames of a
// confirmed transaction.
type TxResult struct {
	TxHash string   `json:"txhash"`
	Code   uint32   `json:"code"`
	RawLog string   `json:"raw_log"`
	Logs   []MsgLog `json:"logs"`
	Data   string   `json:"data"`
}

// Attributes flattens the event log into a single attribute list.
func (r *TxResult) Attributes() []Attribute {
	var out []Attribute
	for _, log := range r.Logs {
		for _, ev := range log.Events {
			out = append(out, ev.Attributes...)
		}
	}
	return out
}

// MsgResponse is one typed message response frame from a confirmed
// transaction's data field.
type MsgResponse struct {
	MsgType string
	Data    []byte
}

// MsgResponses decodes the envelope's hex data into its message response
// frames. The wire layout is a repeated length-delimited message, each
// carrying the message type name (field 1) and the response payload
// (field 2).
func (r *TxResult) MsgResponses() ([]MsgResponse, error) {
	raw, err := hex.DecodeString(r.Data)
	if err != nil {
		return nil, ErrDecode.Wrapf("tx data hex: %v", err)
	}

	var responses []MsgResponse
	for len(raw) > 0 {
		frame, rest, err := consumeBytesField(raw, 1)
		if err != nil {
			return nil, err
		}
		raw = rest

		resp, err := parseMsgResponse(frame)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// FirstMsgResponse returns the first message response frame, which carries
// the result of the transaction's (single) message.
func (r *TxResult) FirstMsgResponse() (MsgResponse, error) {
	responses, err := r.MsgResponses()
	if err != nil {
		return MsgResponse{}, err
	}
	if len(responses) == 0 {
		return MsgResponse{}, ErrNoMsgResponse
	}
	return responses[0], nil
}

func parseMsgResponse(frame []byte) (MsgResponse, error) {
	var resp MsgResponse
	for len(frame) > 0 {
		num, typ, n := protowire.ConsumeTag(frame)
		if n < 0 {
			return MsgResponse{}, ErrDecode.Wrapf("msg response tag: %v", protowire.ParseError(n))
		}
		frame = frame[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(frame)
			if m < 0 {
				return MsgResponse{}, ErrDecode.Wrapf("msg response type: %v", protowire.ParseError(m))
			}
			resp.MsgType = string(v)
			frame = frame[m:]
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(frame)
			if m < 0 {
				return MsgResponse{}, ErrDecode.Wrapf("msg response data: %v", protowire.ParseError(m))
			}
			resp.Data = v
			frame = frame[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, frame)
			if m < 0 {
				return MsgResponse{}, ErrDecode.Wrapf("msg response field %d: %v", num, protowire.ParseError(m))
			}
			frame = frame[m:]
		}
	}
	return resp, nil
}

func consumeBytesField(b []byte, want protowire.Number) ([]byte, []byte, error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 {
		return nil, nil, ErrDecode.Wrapf("tx data tag: %v", protowire.ParseError(n))
	}
	b = b[n:]

	if num != want || typ != protowire.BytesType {
		m := protowire.ConsumeFieldValue(num, typ, b)
		if m < 0 {
			return nil, nil, ErrDecode.Wrapf("tx data field %d: %v", num, protowire.ParseError(m))
		}
		return nil, b[m:], nil
	}

	v, m := protowire.ConsumeBytes(b)
	if m < 0 {
		return nil, nil, ErrDecode.Wrapf("tx data frame: %v", protowire.ParseError(m))
	}
	return v, b[m:], nil
}

// CodeID is the numeric handle of stored WASM bytecode.
type CodeID uint64

func (c CodeID) String() string { return strconv.FormatUint(uint64(c), 10) }

// Contract is a chain-native contract address.
type Contract string

func (c Contract) String() string { return string(c) }

// ExecuteResponse wraps the opaque bytes a contract returned from execution,
// decodable by the caller into any structured type.
type ExecuteResponse struct {
	data []byte
}

// Bytes returns the raw response payload.
func (r *ExecuteResponse) Bytes() []byte { return r.data }

// Decode unmarshals the response payload JSON into v.
func (r *ExecuteResponse) Decode(v any) error {
	if err := json.Unmarshal(r.data, v); err != nil {
		return ErrDecode.Wrapf("execute response: %v", err)
	}
	return nil
}

// DecodeStoreCodeResponse extracts the code id from a store-code message
// response frame (varint field 1).
func DecodeStoreCodeResponse(resp MsgResponse) (CodeID, error) {
	var codeID CodeID
	data := resp.Data
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return 0, ErrDecode.Wrapf("store code response: %v", protowire.ParseError(n))
		}
		data = data[n:]

		if num == 1 && typ == protowire.VarintType {
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return 0, ErrDecode.Wrapf("store code id: %v", protowire.ParseError(m))
			}
			codeID = CodeID(v)
			data = data[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return 0, ErrDecode.Wrapf("store code response field %d: %v", num, protowire.ParseError(m))
		}
		data = data[m:]
	}
	return codeID, nil
}

// DecodeInstantiateResponse extracts the contract address from an
// instantiate message response frame (string field 1).
func DecodeInstantiateResponse(resp MsgResponse) (Contract, error) {
	var contract Contract
	data := resp.Data
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", ErrDecode.Wrapf("instantiate response: %v", protowire.ParseError(n))
		}
		data = data[n:]

		if num == 1 && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return "", ErrDecode.Wrapf("instantiate address: %v", protowire.ParseError(m))
			}
			contract = Contract(v)
			data = data[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return "", ErrDecode.Wrapf("instantiate response field %d: %v", num, protowire.ParseError(m))
		}
		data = data[m:]
	}
	return contract, nil
}

// DecodeExecuteResponse extracts the contract's response bytes from an
// execute message response frame (bytes field 1).
func DecodeExecuteResponse(resp MsgResponse) (*ExecuteResponse, error) {
	out := &ExecuteResponse{}
	data := resp.Data
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, ErrDecode.Wrapf("execute response: %v", protowire.ParseError(n))
		}
		data = data[n:]

		if num == 1 && typ == protowire.BytesType {
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, ErrDecode.Wrapf("execute response data: %v", protowire.ParseError(m))
			}
			out.data = v
			data = data[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return nil, ErrDecode.Wrapf("execute response field %d: %v", num, protowire.ParseError(m))
		}
		data = data[m:]
	}
	return out, nil
}
