package cosmoscli_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
)

// encodeTxMsgData builds the hex envelope a chain node returns in the tx
// result data field: repeated frames of {1: msgType, 2: payload}.
func encodeTxMsgData(t *testing.T, frames ...[2][]byte) string {
	t.Helper()

	var envelope []byte
	for _, frame := range frames {
		var inner []byte
		inner = protowire.AppendTag(inner, 1, protowire.BytesType)
		inner = protowire.AppendBytes(inner, frame[0])
		inner = protowire.AppendTag(inner, 2, protowire.BytesType)
		inner = protowire.AppendBytes(inner, frame[1])

		envelope = protowire.AppendTag(envelope, 1, protowire.BytesType)
		envelope = protowire.AppendBytes(envelope, inner)
	}
	return hex.EncodeToString(envelope)
}

func TestDecodeStoreCodeResponse(t *testing.T) {
	var payload []byte
	payload = protowire.AppendTag(payload, 1, protowire.VarintType)
	payload = protowire.AppendVarint(payload, 42)

	res := &cosmoscli.TxResult{
		Data: encodeTxMsgData(t, [2][]byte{
			[]byte("/cosmwasm.wasm.v1.MsgStoreCodeResponse"),
			payload,
		}),
	}

	first, err := res.FirstMsgResponse()
	require.NoError(t, err)
	require.Equal(t, "/cosmwasm.wasm.v1.MsgStoreCodeResponse", first.MsgType)

	codeID, err := cosmoscli.DecodeStoreCodeResponse(first)
	require.NoError(t, err)
	require.Equal(t, cosmoscli.CodeID(42), codeID)
}

func TestDecodeInstantiateResponse(t *testing.T) {
	var payload []byte
	payload = protowire.AppendTag(payload, 1, protowire.BytesType)
	payload = protowire.AppendBytes(payload, []byte("neutron1contractaddr"))

	res := &cosmoscli.TxResult{
		Data: encodeTxMsgData(t, [2][]byte{
			[]byte("/cosmwasm.wasm.v1.MsgInstantiateContractResponse"),
			payload,
		}),
	}

	first, err := res.FirstMsgResponse()
	require.NoError(t, err)

	addr, err := cosmoscli.DecodeInstantiateResponse(first)
	require.NoError(t, err)
	require.Equal(t, cosmoscli.Contract("neutron1contractaddr"), addr)
}

func TestDecodeExecuteResponse(t *testing.T) {
	var payload []byte
	payload = protowire.AppendTag(payload, 1, protowire.BytesType)
	payload = protowire.AppendBytes(payload, []byte(`{"minted":"1000"}`))

	res := &cosmoscli.TxResult{
		Data: encodeTxMsgData(t, [2][]byte{
			[]byte("/cosmwasm.wasm.v1.MsgExecuteContractResponse"),
			payload,
		}),
	}

	first, err := res.FirstMsgResponse()
	require.NoError(t, err)

	exec, err := cosmoscli.DecodeExecuteResponse(first)
	require.NoError(t, err)
	require.JSONEq(t, `{"minted":"1000"}`, string(exec.Bytes()))

	var decoded struct {
		Minted string `json:"minted"`
	}
	require.NoError(t, exec.Decode(&decoded))
	require.Equal(t, "1000", decoded.Minted)
}

func TestFirstMsgResponseTakesLeadingFrame(t *testing.T) {
	res := &cosmoscli.TxResult{
		Data: encodeTxMsgData(t,
			[2][]byte{[]byte("/first.Msg"), []byte("one")},
			[2][]byte{[]byte("/second.Msg"), []byte("two")},
		),
	}

	first, err := res.FirstMsgResponse()
	require.NoError(t, err)
	require.Equal(t, "/first.Msg", first.MsgType)
	require.Equal(t, []byte("one"), first.Data)

	all, err := res.MsgResponses()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "/second.Msg", all[1].MsgType)
}

func TestFirstMsgResponseEmptyData(t *testing.T) {
	_, err := (&cosmoscli.TxResult{Data: ""}).FirstMsgResponse()
	require.ErrorIs(t, err, cosmoscli.ErrNoMsgResponse)
}

func TestMsgResponsesRejectsBadHex(t *testing.T) {
	_, err := (&cosmoscli.TxResult{Data: "not-hex"}).MsgResponses()
	require.ErrorIs(t, err, cosmoscli.ErrDecode)
}

func TestAttributesFlattensLogs(t *testing.T) {
	res := &cosmoscli.TxResult{
		Logs: []cosmoscli.MsgLog{
			{Events: []cosmoscli.TxEvent{{
				Type: "wasm",
				Attributes: []cosmoscli.Attribute{
					{Key: "action", Value: "mint"},
				},
			}}},
			{Events: []cosmoscli.TxEvent{{
				Type: "transfer",
				Attributes: []cosmoscli.Attribute{
					{Key: "amount", Value: "500untrn"},
				},
			}}},
		},
	}

	attrs := res.Attributes()
	require.Len(t, attrs, 2)
	require.Equal(t, "action", attrs[0].Key)
	require.Equal(t, "amount", attrs[1].Key)
}
