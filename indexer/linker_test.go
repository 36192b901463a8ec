package indexer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/availproject/avail-indexer/external/avail"
)

var testTimestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func makeBlock(height uint64, extrinsics []avail.Extrinsic, events []avail.Event) *avail.DecodedBlock {
	for idx := range extrinsics {
		extrinsics[idx].Index = idx
	}
	for idx := range events {
		events[idx].Index = idx
	}
	return &avail.DecodedBlock{
		Header: avail.Header{
			Number:         height,
			Hash:           "0xabc",
			ParentHash:     "0xdef",
			StateRoot:      "0x111",
			ExtrinsicsRoot: "0x222",
		},
		Extrinsics:  extrinsics,
		Events:      events,
		Timestamp:   testTimestamp,
		SpecVersion: 30,
	}
}

func appliedEvent(extIdx int, module, method string, args ...string) avail.Event {
	return avail.Event{
		Module:    module,
		Method:    method,
		Phase:     avail.Phase{IsApplyExtrinsic: true, ExtrinsicIndex: extIdx},
		ArgsValue: args,
	}
}

func blockEvent(module, method string, args ...string) avail.Event {
	return avail.Event{
		Module:    module,
		Method:    method,
		Phase:     avail.Phase{IsApplyExtrinsic: false, ExtrinsicIndex: 0},
		ArgsValue: args,
	}
}

func TestLinkEventsAggregates(t *testing.T) {
	block := makeBlock(42, nil, []avail.Event{
		appliedEvent(0, "dataAvailability", "DataSubmitted", "addr", "0xffff"),
		appliedEvent(0, "transactionPayment", "TransactionFeePaid", "addr", "1000000000000000000", "0"),
		appliedEvent(0, "system", "ExtrinsicSuccess"),
		appliedEvent(1, "system", "ExtrinsicFailed"),
		blockEvent("session", "NewSession", "7"),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)

	agg0 := res.Aggregates[0]
	require.NotNil(t, agg0)
	assert.Equal(t, 3, agg0.NbEvents)
	assert.True(t, agg0.Success)
	assert.Equal(t, "1000000000000000000", agg0.Fees)
	assert.Equal(t, 1.0, agg0.FeesRounded)

	agg1 := res.Aggregates[1]
	require.NotNil(t, agg1)
	assert.Equal(t, 1, agg1.NbEvents)
	assert.False(t, agg1.Success)
	assert.Empty(t, agg1.Fees)
}

// the sum of per-extrinsic event counts plus block-level events covers the
// whole event list
func TestLinkEventsCountSum(t *testing.T) {
	block := makeBlock(10, nil, []avail.Event{
		appliedEvent(0, "system", "ExtrinsicSuccess"),
		appliedEvent(0, "balances", "Deposit", "addr1", "5"),
		appliedEvent(1, "system", "ExtrinsicSuccess"),
		blockEvent("session", "NewSession", "3"),
		blockEvent("grandpa", "NewAuthorities", "[]"),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)

	owned := 0
	for _, agg := range res.Aggregates {
		owned += agg.NbEvents
	}
	blockLevel := 0
	for _, evt := range block.Events {
		if !evt.Phase.IsApplyExtrinsic {
			blockLevel++
		}
	}
	assert.Equal(t, len(block.Events), owned+blockLevel)
}

func TestLinkEventsExclusion(t *testing.T) {
	block := makeBlock(10, nil, []avail.Event{
		appliedEvent(0, "system", "ExtrinsicSuccess"),
		appliedEvent(0, "transactionPayment", "TransactionFeePaid", "addr", "10", "0"),
		appliedEvent(0, "balances", "Withdraw", "addr", "10"),
		appliedEvent(0, "treasury", "Deposit", "5"),
		appliedEvent(0, "dataAvailability", "DataSubmitted", "addr", "0xdead"),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)

	// only the data-submitted announcement is materialized
	require.Len(t, res.Events, 1)
	assert.Equal(t, "dataAvailability", res.Events[0].Module)
	// aggregation side effects of excluded events still apply
	assert.Equal(t, 5, res.Aggregates[0].NbEvents)
	assert.True(t, res.Aggregates[0].Success)
	assert.Equal(t, "10", res.Aggregates[0].Fees)
	// balance-affecting excluded events still enqueue their subject
	assert.Contains(t, res.Touched, "addr")
}

func TestLinkEventsTransfer(t *testing.T) {
	block := makeBlock(77, nil, []avail.Event{
		appliedEvent(0, "balances", "Transfer", "alice", "bob", "2000000000000000000"),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)

	// a transfer is excluded as an Event record but still yields its entity
	assert.Empty(t, res.Events)
	require.Len(t, res.Transfers, 1)
	transfer := res.Transfers[0]
	assert.Equal(t, "77-0", transfer.ID)
	assert.Equal(t, "77-0", transfer.ExtrinsicID)
	assert.Equal(t, "alice", transfer.From)
	assert.Equal(t, "bob", transfer.To)
	assert.Equal(t, "AVL", transfer.Currency)
	assert.Equal(t, "2000000000000000000", transfer.Amount)
	assert.Equal(t, 2.0, transfer.AmountRounded)

	// both sides enqueued, exactly once
	assert.ElementsMatch(t, []string{"alice", "bob"}, res.Touched)
}

func TestLinkEventsTouchedDeduplicated(t *testing.T) {
	block := makeBlock(5, nil, []avail.Event{
		appliedEvent(0, "balances", "Deposit", "alice", "1"),
		appliedEvent(0, "balances", "Withdraw", "alice", "2"),
		appliedEvent(1, "balances", "Transfer", "alice", "bob", "3"),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, res.Touched)
}

func TestLinkEventsBlockLevelEventPersisted(t *testing.T) {
	block := makeBlock(5, nil, []avail.Event{
		blockEvent("session", "NewSession", "9"),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Empty(t, res.Events[0].ExtrinsicID)
	assert.Equal(t, "5-0", res.Events[0].ID)
}

func TestLinkEventsDataSubmittedTruncation(t *testing.T) {
	longPayload := "0x"
	for idx := 0; idx < 100; idx++ {
		longPayload += "ab"
	}
	block := makeBlock(5, nil, []avail.Event{
		appliedEvent(0, "dataAvailability", "DataSubmitted", "addr", longPayload),
	})

	res, err := linkEvents(block)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Contains(t, res.Events[0].ArgsValue, longPayload[:DataTruncateLen])
	assert.NotContains(t, res.Events[0].ArgsValue, longPayload)
}

func TestLinkEventsMalformedTransfer(t *testing.T) {
	block := makeBlock(5, nil, []avail.Event{
		appliedEvent(0, "balances", "Transfer", "alice"),
	})

	_, err := linkEvents(block)
	assert.Error(t, err)
}
