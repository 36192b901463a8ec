package indexer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/availproject/avail-indexer/external/avail"
)

// appIDHex is the compact byte encoding of app id 5: 5<<2 in one byte.
const appIDHex = "0x14"

func submitDataExtrinsic(signer, payload string) avail.Extrinsic {
	return avail.Extrinsic{
		Module:    "dataAvailability",
		Call:      "submitData",
		IsSigned:  true,
		Signer:    signer,
		Hash:      "0xext",
		ArgsName:  []string{"data"},
		ArgsValue: []string{payload},
		Raw:       "0xraw",
		Inspect: &avail.Inspect{
			Name: "extrinsic",
			Inner: []avail.Inspect{
				{Name: "appId", Outer: []string{appIDHex}},
				{Name: "data", Outer: []string{payload}},
			},
		},
	}
}

// a 2 KiB submission paying 1 AVL is recorded with a 512 per-MiB fee
func TestBuildDataSubmission(t *testing.T) {
	payload := "0x" + strings.Repeat("ab", 2048)
	ext := submitDataExtrinsic("alice", payload)
	block := makeBlock(1000, []avail.Extrinsic{ext}, []avail.Event{
		appliedEvent(0, "transactionPayment", "TransactionFeePaid", "alice", "1000000000000000000", "0"),
		appliedEvent(0, "system", "ExtrinsicSuccess"),
	})

	idx := &Indexer{client: newFakeClient()}
	res, err := linkEvents(block)
	require.NoError(t, err)

	extrinsics, submissions, err := idx.buildExtrinsics(context.Background(), block, res.Aggregates)
	require.NoError(t, err)
	require.Len(t, extrinsics, 1)
	require.Len(t, submissions, 1)

	record := extrinsics[0]
	assert.Equal(t, "1000-0", record.ID)
	assert.True(t, record.Success)
	assert.Equal(t, "1000000000000000000", record.Fees)
	require.NotNil(t, record.FeesRounded)
	assert.Equal(t, 1.0, *record.FeesRounded)
	assert.Equal(t, 2, record.NbEvents)
	// stored payload argument is a 64-character prefix
	assert.Contains(t, record.ArgsValue, payload[:DataTruncateLen])
	assert.NotContains(t, record.ArgsValue, payload)

	sub := submissions[0]
	assert.Equal(t, record.ID, sub.ExtrinsicID)
	// size is derived from the untruncated payload
	assert.Equal(t, 2048, sub.ByteSize)
	assert.Equal(t, uint64(5), sub.AppID)
	assert.Equal(t, "alice", sub.Signer)
	require.NotNil(t, sub.Fees)
	assert.Equal(t, 1.0, *sub.Fees)
	require.NotNil(t, sub.FeesPerMb)
	assert.Equal(t, 512.0, *sub.FeesPerMb)
}

func TestBuildDataSubmissionEmptyPayload(t *testing.T) {
	ext := submitDataExtrinsic("alice", "0x")
	block := makeBlock(10, []avail.Extrinsic{ext}, nil)

	idx := &Indexer{client: newFakeClient()}
	_, submissions, err := idx.buildExtrinsics(context.Background(), block, map[int]*extrinsicAggregate{})
	require.NoError(t, err)
	assert.Empty(t, submissions)
}

func TestBuildExtrinsicFeeQueryFallback(t *testing.T) {
	client := newFakeClient()
	client.feeDetails = &avail.FeeDetails{BaseFee: "2000000000000000000"}

	ext := avail.Extrinsic{
		Module:   "balances",
		Call:     "transferKeepAlive",
		IsSigned: true,
		Raw:      "0xraw",
	}
	// no fee-paid event, so the node is consulted
	block := makeBlock(10, []avail.Extrinsic{ext}, nil)

	idx := &Indexer{client: client}
	extrinsics, _, err := idx.buildExtrinsics(context.Background(), block, map[int]*extrinsicAggregate{})
	require.NoError(t, err)
	require.Len(t, extrinsics, 1)
	assert.Equal(t, 1, client.feeQueries)
	assert.Equal(t, "2000000000000000000", extrinsics[0].Fees)
	require.NotNil(t, extrinsics[0].FeesRounded)
	assert.Equal(t, 2.0, *extrinsics[0].FeesRounded)
}

func TestBuildExtrinsicFeeExemptSkipsQuery(t *testing.T) {
	client := newFakeClient()
	ext := avail.Extrinsic{Module: "timestamp", Call: "set", IsSigned: true, Raw: "0xraw"}
	block := makeBlock(10, []avail.Extrinsic{ext}, nil)

	idx := &Indexer{client: client}
	extrinsics, _, err := idx.buildExtrinsics(context.Background(), block, map[int]*extrinsicAggregate{})
	require.NoError(t, err)
	assert.Zero(t, client.feeQueries)
	assert.Equal(t, "0", extrinsics[0].Fees)
}

func TestBuildExtrinsicUnsignedSkipsQuery(t *testing.T) {
	client := newFakeClient()
	ext := avail.Extrinsic{Module: "timestamp", Call: "set"}
	block := makeBlock(10, []avail.Extrinsic{ext}, nil)

	idx := &Indexer{client: client}
	extrinsics, _, err := idx.buildExtrinsics(context.Background(), block, map[int]*extrinsicAggregate{})
	require.NoError(t, err)
	assert.Zero(t, client.feeQueries)
	assert.Equal(t, "0", extrinsics[0].Fees)
	require.NotNil(t, extrinsics[0].FeesRounded)
	assert.Zero(t, *extrinsics[0].FeesRounded)
}

func TestReencodeSendMessage(t *testing.T) {
	in := `{"fungibleToken":{"assetId":"0x0","amount":1000000000000000000},"to":"0xbeef","domain":2}`
	out := reencodeSendMessage(in)
	assert.Contains(t, out, `"amount":"0xde0b6b3a7640000"`)
	assert.Contains(t, out, `"to":"0xbeef"`)

	// already-hex amounts and non-token messages pass through verbatim
	hexIn := `{"fungibleToken":{"amount":"0xff"}}`
	assert.Equal(t, hexIn, reencodeSendMessage(hexIn))
	plain := `{"arbitraryMessage":{"data":"0x01"}}`
	assert.Equal(t, plain, reencodeSendMessage(plain))
	assert.Equal(t, "not json", reencodeSendMessage("not json"))
}

func TestReencodeExecuteMessage(t *testing.T) {
	in := `{"message":{"fungibleToken":{"amount":"255"}},"proof":"0x00"}`
	out := reencodeExecuteMessage(in)
	assert.Contains(t, out, `"amount":"0xff"`)
	assert.Contains(t, out, `"proof":"0x00"`)

	noMsg := `{"proof":"0x00"}`
	assert.Equal(t, noMsg, reencodeExecuteMessage(noMsg))
}

func TestFindAppIDNested(t *testing.T) {
	inspect := &avail.Inspect{
		Name: "extrinsic",
		Inner: []avail.Inspect{
			{Name: "signature", Outer: []string{"0x01"}},
			{Name: "era", Inner: []avail.Inspect{
				// 12<<2 in two little-endian bytes
				{Name: "appId", Outer: []string{"0x3000"}},
			}},
		},
	}
	assert.Equal(t, uint64(12), appIDFromInspect(inspect))
}

func TestFindAppIDMissingDefaultsToZero(t *testing.T) {
	assert.Zero(t, appIDFromInspect(nil))
	assert.Zero(t, appIDFromInspect(&avail.Inspect{Name: "extrinsic"}))
	// a present but undecodable appId also falls back to 0
	assert.Zero(t, appIDFromInspect(&avail.Inspect{Name: "appId", Outer: []string{"0xzz"}}))
}
