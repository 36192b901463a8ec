package indexer

import (
	"context"
	"math/big"

	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/logging"
	"github.com/availproject/avail-indexer/util"
)

// feeExemptModules never carry transaction fees; the fee-detail query must not
// be issued for their extrinsics.
var feeExemptModules = map[string]struct{}{
	"timestamp":  {},
	"authorship": {},
}

func shouldQueryFees(module string) bool {
	_, exempt := feeExemptModules[module]
	return !exempt
}

// feesFromEvent computes an extrinsic's total fee from the positional argument
// list of its fee-paid event: fee is argument 1, tip argument 2. It fails soft
// to ("0", 0) on any malformed payload.
func feesFromEvent(args []string) (string, float64) {
	if len(args) < 3 {
		return "0", 0
	}
	fee, ok := new(big.Int).SetString(args[1], 10)
	if !ok {
		return "0", 0
	}
	tip, ok := new(big.Int).SetString(args[2], 10)
	if !ok {
		return "0", 0
	}
	total := new(big.Int).Add(fee, tip).String()
	rounded, _ := util.RoundPrice(total)
	return total, rounded
}

// queryFees resolves an extrinsic's total fee through the node's fee-detail
// query: the sum of the optional base, length and adjusted weight components.
// It returns "" when the node reports no inclusion fee, and degrades to ""
// (logged) when the query itself fails.
func (i *Indexer) queryFees(ctx context.Context, extHex, blockHash string) string {
	details, err := i.client.QueryFeeDetails(ctx, extHex, blockHash)
	if err != nil {
		logging.Logger.Errorf("failed to query fee details, block_hash=%s, err=%s", blockHash, err.Error())
		return ""
	}
	if details == nil || details.NoInclusionFee {
		return ""
	}
	return sumFeeDetails(details)
}

func sumFeeDetails(details *avail.FeeDetails) string {
	total := new(big.Int)
	for _, component := range []string{details.BaseFee, details.LenFee, details.AdjustedWeightFee} {
		if component == "" {
			continue
		}
		v, ok := new(big.Int).SetString(component, 10)
		if !ok {
			logging.Logger.Errorf("malformed fee component %q", component)
			continue
		}
		total.Add(total, v)
	}
	return total.String()
}

// feePerMb scales a rounded fee to a per-megabyte metric for a payload of
// byteSize bytes. Only meaningful for nonzero payloads.
func feePerMb(feesRounded float64, byteSize int) float64 {
	if byteSize == 0 {
		return 0
	}
	return feesRounded / float64(byteSize) * (1 << 20)
}
