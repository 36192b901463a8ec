package indexer

import (
	"fmt"

	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/types"
	"github.com/availproject/avail-indexer/util"
)

// extrinsicAggregate accumulates the per-extrinsic side effects of a block's
// events. The Extrinsic record consumes it, so the linker pass must complete
// before extrinsics are built.
type extrinsicAggregate struct {
	NbEvents    int
	Success     bool
	Fees        string // "" until a fee-paid event is seen
	FeesRounded float64
}

// linkResult is the output of the single pass over a block's event list.
type linkResult struct {
	Aggregates map[int]*extrinsicAggregate
	Events     []*db.Event
	Transfers  []*db.Transfer
	Touched    []string // addresses to enqueue for balance reconciliation, deduplicated
	touchedSet map[string]struct{}
}

func (r *linkResult) aggregate(extIdx int) *extrinsicAggregate {
	agg, ok := r.Aggregates[extIdx]
	if !ok {
		agg = &extrinsicAggregate{}
		r.Aggregates[extIdx] = agg
	}
	return agg
}

func (r *linkResult) touch(address string) {
	if address == "" {
		return
	}
	if _, ok := r.touchedSet[address]; ok {
		return
	}
	r.touchedSet[address] = struct{}{}
	r.Touched = append(r.Touched, address)
}

// linkEvents walks a block's events in their in-block order, mapping each to
// its originating extrinsic via phase data, accumulating per-extrinsic
// aggregates, classifying events for materialization, and collecting transfers
// and balance-touched addresses.
func linkEvents(block *avail.DecodedBlock) (*linkResult, error) {
	res := &linkResult{
		Aggregates: make(map[int]*extrinsicAggregate),
		touchedSet: make(map[string]struct{}),
	}

	for _, evt := range block.Events {
		key := eventKey(evt.Module, evt.Method)

		extIdx := -1
		if evt.Phase.IsApplyExtrinsic {
			extIdx = evt.Phase.ExtrinsicIndex
		}

		if extIdx >= 0 {
			agg := res.aggregate(extIdx)
			agg.NbEvents++
			switch key {
			case EventExtrinsicSuccess:
				agg.Success = true
			case EventFeePaid:
				agg.Fees, agg.FeesRounded = feesFromEvent(evt.ArgsValue)
			}
		}

		// Balance-affecting events enqueue their subject address regardless of
		// whether the event record itself is materialized.
		_, isBalance := balanceEvents[key]
		if (isBalance || key == EventFeePaid) && len(evt.ArgsValue) > 0 {
			res.touch(evt.ArgsValue[0])
		}

		if key == EventTransfer {
			transfer, err := buildTransfer(block, evt, extIdx)
			if err != nil {
				return nil, err
			}
			res.Transfers = append(res.Transfers, transfer)
			res.touch(transfer.From)
			res.touch(transfer.To)
		}

		if !isExcludedEvent(key) {
			res.Events = append(res.Events, buildEvent(block, evt, extIdx))
		}
	}

	return res, nil
}

// buildEvent maps one decoded event to its record. Events of the data-submitted
// announcement keep only a 64-character prefix of their payload argument.
func buildEvent(block *avail.DecodedBlock, evt avail.Event, extIdx int) *db.Event {
	height := block.Header.Number
	key := eventKey(evt.Module, evt.Method)

	argsValue := evt.ArgsValue
	if key == EventDataSubmitted {
		argsValue = truncateArg(argsValue, 1)
	}

	extrinsicID := ""
	if extIdx >= 0 {
		extrinsicID = types.ExtrinsicID(height, extIdx)
	}

	return &db.Event{
		ID:            types.EventID(height, evt.Index),
		BlockID:       types.BlockID(height),
		BlockHeight:   height,
		ExtrinsicID:   extrinsicID,
		Module:        evt.Module,
		Event:         evt.Method,
		EventIndex:    evt.Index,
		DescriptionID: key,
		ArgsName:      marshalArgs(evt.ArgsName),
		ArgsValue:     marshalArgs(argsValue),
		Timestamp:     block.Timestamp,
	}
}

// buildTransfer maps a balances transfer event to its record. A malformed
// argument list is a schema mismatch and propagates.
func buildTransfer(block *avail.DecodedBlock, evt avail.Event, extIdx int) (*db.Transfer, error) {
	if len(evt.ArgsValue) < 3 {
		return nil, fmt.Errorf("malformed transfer event at block %d index %d: %d args",
			block.Header.Number, evt.Index, len(evt.ArgsValue))
	}
	height := block.Header.Number
	from, to, amount := evt.ArgsValue[0], evt.ArgsValue[1], evt.ArgsValue[2]
	rounded, _ := util.RoundPrice(amount)

	extrinsicID := ""
	if extIdx >= 0 {
		extrinsicID = types.ExtrinsicID(height, extIdx)
	}

	return &db.Transfer{
		ID:            types.EventID(height, evt.Index),
		BlockID:       types.BlockID(height),
		BlockHash:     block.Header.Hash,
		ExtrinsicID:   extrinsicID,
		Timestamp:     block.Timestamp,
		From:          from,
		To:            to,
		Currency:      TransferCurrency,
		Amount:        amount,
		AmountRounded: rounded,
	}, nil
}
