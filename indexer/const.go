package indexer

// Module/method keys of calls and events with non-default handling. Keys are
// formed as {module}_{method}.
const (
	CallSubmitData        = "dataAvailability_submitData"
	CallVectorExecute     = "vector_execute"
	CallVectorSendMessage = "vector_sendMessage"

	EventDataSubmitted    = "dataAvailability_DataSubmitted"
	EventExtrinsicSuccess = "system_ExtrinsicSuccess"
	EventExtrinsicFailed  = "system_ExtrinsicFailed"
	EventRemarked         = "system_Remarked"
	EventTreasuryDeposit  = "treasury_Deposit"
	EventTransfer         = "balances_Transfer"
	EventFeePaid          = "transactionPayment_TransactionFeePaid"
)

// DataTruncateLen is the hex-prefix length kept when a data-submission payload
// is stored; the full payload never is.
const DataTruncateLen = 64

// TransferCurrency tags transfer amounts with the chain's native token.
const TransferCurrency = "AVL"

func eventKey(module, method string) string {
	return module + "_" + method
}

// balanceEvents lists the generic balance-mutation events. They are never
// materialized as Event records but always enqueue their subject address for
// reconciliation.
var balanceEvents = map[string]struct{}{
	"balances_BalanceSet": {},
	"balances_Deposit":    {},
	"balances_DustLost":   {},
	"balances_Endowed":    {},
	"balances_Reserved":   {},
	"balances_Slashed":    {},
	"balances_Unreserved": {},
	"balances_Withdraw":   {},
	"balances_Upgraded":   {},
	EventTransfer:         {},
}

// excludedEvents are noise events never materialized as Event records. Their
// aggregation side effects (counts, success flag, fees) still apply.
var excludedEvents = map[string]struct{}{
	EventExtrinsicSuccess: {},
	EventExtrinsicFailed:  {},
	EventRemarked:         {},
	EventTreasuryDeposit:  {},
	EventFeePaid:          {},
}

func isExcludedEvent(key string) bool {
	if _, ok := excludedEvents[key]; ok {
		return true
	}
	_, ok := balanceEvents[key]
	return ok
}
