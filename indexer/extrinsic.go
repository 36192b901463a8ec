package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/logging"
	"github.com/availproject/avail-indexer/metrics"
	"github.com/availproject/avail-indexer/types"
	"github.com/availproject/avail-indexer/util"
)

// argTransform rewrites the stringified argument values of one call before
// they are stored. The dispatch table keyed by {module}_{method} makes new
// special cases additive.
type argTransform func(args []string) []string

var argTransforms = map[string]argTransform{
	// The submitted payload is stored as a 64-character hex prefix only.
	CallSubmitData: func(args []string) []string {
		return truncateArg(args, 0)
	},
	// Bridge messages re-encode their decimal token amount as 0x hex.
	CallVectorExecute: func(args []string) []string {
		return transformArg(args, 1, reencodeExecuteMessage)
	},
	CallVectorSendMessage: func(args []string) []string {
		return transformArg(args, 0, reencodeSendMessage)
	},
}

// buildExtrinsics turns every decoded extrinsic of the block into its record,
// consuming the linker aggregates, and collects the block's data submissions.
func (i *Indexer) buildExtrinsics(ctx context.Context, block *avail.DecodedBlock, aggregates map[int]*extrinsicAggregate) ([]*db.Extrinsic, []*db.DataSubmission, error) {
	extrinsics := make([]*db.Extrinsic, 0, len(block.Extrinsics))
	submissions := make([]*db.DataSubmission, 0)

	for idx, ext := range block.Extrinsics {
		agg := aggregates[idx]
		if agg == nil {
			agg = &extrinsicAggregate{}
		}

		record, err := i.buildExtrinsic(ctx, block, ext, agg)
		if err != nil {
			return nil, nil, err
		}
		extrinsics = append(extrinsics, record)

		if submission := buildDataSubmission(block, ext, record); submission != nil {
			submissions = append(submissions, submission)
			metrics.DataSubmissionCounter.Inc()
		}
	}
	return extrinsics, submissions, nil
}

func (i *Indexer) buildExtrinsic(ctx context.Context, block *avail.DecodedBlock, ext avail.Extrinsic, agg *extrinsicAggregate) (*db.Extrinsic, error) {
	height := block.Header.Number
	key := eventKey(ext.Module, ext.Call)

	argsValue := ext.ArgsValue
	if transform, ok := argTransforms[key]; ok {
		argsValue = transform(argsValue)
	}

	// Event-reported fees are preferred; they save one fee query per extrinsic.
	fees := "0"
	feesRounded := float64(0)
	haveRounded := true
	switch {
	case agg.Fees != "":
		fees = agg.Fees
		feesRounded = agg.FeesRounded
	case ext.IsSigned && shouldQueryFees(ext.Module):
		fees = i.queryFees(ctx, ext.Raw, block.Header.Hash)
		feesRounded, haveRounded = util.RoundPrice(fees)
	}

	record := &db.Extrinsic{
		ID:             types.ExtrinsicID(height, ext.Index),
		Module:         ext.Module,
		Call:           ext.Call,
		BlockID:        types.BlockID(height),
		BlockHeight:    height,
		Success:        agg.Success,
		IsSigned:       ext.IsSigned,
		ExtrinsicIndex: ext.Index,
		Hash:           ext.Hash,
		Timestamp:      block.Timestamp,
		DescriptionID:  key,
		Signer:         ext.Signer,
		Signature:      ext.Signature,
		Nonce:          ext.Nonce,
		ArgsName:       marshalArgs(ext.ArgsName),
		ArgsValue:      marshalArgs(argsValue),
		Fees:           fees,
		NbEvents:       agg.NbEvents,
	}
	if haveRounded {
		record.FeesRounded = &feesRounded
	}
	return record, nil
}

// buildDataSubmission fires only for submitData calls with a nonzero payload.
// The payload size is derived from the untruncated hex argument; the app id
// from the structured byte inspection of the raw extrinsic, defaulting to 0.
func buildDataSubmission(block *avail.DecodedBlock, ext avail.Extrinsic, record *db.Extrinsic) *db.DataSubmission {
	if eventKey(ext.Module, ext.Call) != CallSubmitData {
		return nil
	}
	byteSize := 0
	if len(ext.ArgsValue) > 0 {
		byteSize = len(util.TrimHexPrefix(ext.ArgsValue[0])) / 2
	}
	if byteSize == 0 {
		return nil
	}

	submission := &db.DataSubmission{
		ID:          record.ID,
		ExtrinsicID: record.ID,
		Timestamp:   block.Timestamp,
		ByteSize:    byteSize,
		AppID:       appIDFromInspect(ext.Inspect),
		Signer:      ext.Signer,
	}
	if record.FeesRounded != nil {
		fees := *record.FeesRounded
		perMb := feePerMb(fees, byteSize)
		submission.Fees = &fees
		submission.FeesPerMb = &perMb
	}
	logging.Logger.Debugf("new data submission recorded, app_id=%d, size=%d", submission.AppID, byteSize)
	return submission
}

// appIDFromInspect locates the appId field in the byte inspection and decodes
// its compact encoding. A missing field or a decode failure falls back to 0.
func appIDFromInspect(inspect *avail.Inspect) uint64 {
	id, _ := findAppID(inspect)
	return id
}

func findAppID(inspect *avail.Inspect) (uint64, bool) {
	if inspect == nil {
		return 0, false
	}
	if inspect.Name == "appId" {
		if len(inspect.Outer) == 0 {
			return 0, true
		}
		id, err := util.DecodeAppIDHex(inspect.Outer[0])
		if err != nil {
			logging.Logger.Errorf("failed to decode app id %q, err=%s", inspect.Outer[0], err.Error())
			return 0, true
		}
		return id, true
	}
	for idx := range inspect.Inner {
		if id, ok := findAppID(&inspect.Inner[idx]); ok {
			return id, true
		}
	}
	return 0, false
}

func marshalArgs(args []string) string {
	if args == nil {
		args = []string{}
	}
	bz, err := json.Marshal(args)
	if err != nil {
		return "[]"
	}
	return string(bz)
}

func truncateArg(args []string, idx int) []string {
	if idx >= len(args) || len(args[idx]) <= DataTruncateLen {
		return args
	}
	out := make([]string, len(args))
	copy(out, args)
	out[idx] = out[idx][:DataTruncateLen]
	return out
}

func transformArg(args []string, idx int, fn func(string) string) []string {
	if idx >= len(args) {
		return args
	}
	out := make([]string, len(args))
	copy(out, args)
	out[idx] = fn(out[idx])
	return out
}

// reencodeSendMessage rewrites a decimal fungible-token amount inside a bridge
// message to 0x-prefixed hex, leaving every other field untouched. Messages
// without a fungible token, or already hex-encoded, pass through verbatim.
func reencodeSendMessage(value string) string {
	msg, changed := reencodeFungibleToken(value)
	if !changed {
		return value
	}
	return msg
}

// reencodeExecuteMessage is reencodeSendMessage for the execute call, whose
// fungible token nests one level deeper under "message".
func reencodeExecuteMessage(value string) string {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &outer); err != nil {
		return value
	}
	inner, ok := outer["message"]
	if !ok {
		return value
	}
	msg, changed := reencodeFungibleToken(string(inner))
	if !changed {
		return value
	}
	outer["message"] = json.RawMessage(msg)
	bz, err := json.Marshal(outer)
	if err != nil {
		return value
	}
	return string(bz)
}

func reencodeFungibleToken(value string) (string, bool) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(value)))
	decoder.UseNumber()
	var msg map[string]interface{}
	if err := decoder.Decode(&msg); err != nil {
		return value, false
	}
	token, ok := msg["fungibleToken"].(map[string]interface{})
	if !ok {
		return value, false
	}
	amount, ok := token["amount"]
	if !ok {
		return value, false
	}
	hexAmount, ok := amountToHex(amount)
	if !ok {
		return value, false
	}
	token["amount"] = hexAmount
	bz, err := json.Marshal(msg)
	if err != nil {
		return value, false
	}
	return string(bz), true
}

func amountToHex(amount interface{}) (string, bool) {
	var raw string
	switch v := amount.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = v
	default:
		return "", false
	}
	if len(raw) >= 2 && raw[:2] == "0x" {
		return "", false
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("0x%s", n.Text(16)), true
}
