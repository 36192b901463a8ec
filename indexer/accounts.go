package indexer

import (
	"context"
	"math/big"
	"time"

	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/logging"
	"github.com/availproject/avail-indexer/metrics"
	"github.com/availproject/avail-indexer/util"
)

const (
	// AccountFlushThreshold flushes the pending set as soon as it holds this
	// many addresses.
	AccountFlushThreshold = 100
	// AccountFlushInterval additionally flushes a non-empty set at every
	// height that is a multiple of it, so low-activity periods still drain.
	AccountFlushInterval = 50
	// BalanceBatchSize bounds one balance query to the node.
	BalanceBatchSize = 100
)

// reconcileAccounts merges the block's touched addresses into the persisted
// pending set and flushes it when the size threshold or the height cadence is
// crossed. A failed flush keeps the set intact for retry on a later block.
func (i *Indexer) reconcileAccounts(ctx context.Context, height uint64, touched []string) error {
	queue, err := i.dao.GetAccountQueue()
	if err != nil {
		return err
	}

	pending := util.SplitByComma(queue.Addresses)
	seen := make(map[string]struct{}, len(pending))
	for _, address := range pending {
		seen[address] = struct{}{}
	}
	for _, address := range touched {
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		pending = append(pending, address)
	}

	queue.Addresses = util.JoinWithComma(pending)
	if err := i.dao.SaveAccountQueue(queue); err != nil {
		return err
	}
	metrics.PendingAccountGauge.Set(float64(len(pending)))

	if len(pending) == 0 {
		return nil
	}
	if len(pending) < AccountFlushThreshold && height%AccountFlushInterval != 0 {
		return nil
	}

	if err := i.flushAccounts(ctx, pending); err != nil {
		// keep the queue for retry on a later block
		logging.Logger.Errorf("failed to flush %d account updates at block %d, err=%s", len(pending), height, err.Error())
		return nil
	}

	queue.Addresses = ""
	if err := i.dao.SaveAccountQueue(queue); err != nil {
		return err
	}
	metrics.PendingAccountGauge.Set(0)
	metrics.AccountFlushCounter.Inc()
	logging.Logger.Infof("flushed %d account updates at block %d", len(pending), height)
	return nil
}

// flushAccounts queries current balances for every pending address in bounded
// batches and upserts the refreshed account records.
func (i *Indexer) flushAccounts(ctx context.Context, addresses []string) error {
	infos := make([]avail.AccountInfo, 0, len(addresses))
	for start := 0; start < len(addresses); start += BalanceBatchSize {
		end := start + BalanceBatchSize
		if end > len(addresses) {
			end = len(addresses)
		}
		batch, err := i.client.GetAccounts(ctx, addresses[start:end])
		if err != nil {
			return err
		}
		infos = append(infos, batch...)
	}

	existing, err := i.dao.GetAccounts(addresses)
	if err != nil {
		return err
	}
	byAddress := make(map[string]*db.Account, len(existing))
	for _, account := range existing {
		byAddress[account.Address] = account
	}

	now := time.Now()
	accounts := make([]*db.Account, 0, len(infos))
	for idx, info := range infos {
		address := addresses[idx]
		account, ok := byAddress[address]
		if !ok {
			account = &db.Account{
				Address:   address,
				CreatedAt: now,
			}
		}
		applyBalance(account, info)
		account.UpdatedAt = now
		accounts = append(accounts, account)
	}
	return i.dao.UpsertAccounts(accounts)
}

// applyBalance recomputes the raw amount fields from a balance query result
// and rederives every rounded display value from its raw counterpart.
func applyBalance(account *db.Account, info avail.AccountInfo) {
	free := bigFromDecimal(info.Free)
	reserved := bigFromDecimal(info.Reserved)
	frozen := resolveFrozen(info)

	account.Amount = new(big.Int).Sub(free, frozen).String()
	account.AmountFrozen = frozen.String()
	account.AmountTotal = new(big.Int).Add(free, reserved).String()
	account.AmountRounded, _ = util.RoundPrice(account.Amount)
	account.AmountFrozenRounded, _ = util.RoundPrice(account.AmountFrozen)
	account.AmountTotalRounded, _ = util.RoundPrice(account.AmountTotal)
}

// resolveFrozen picks the frozen balance across representations: the newer
// single field when present, otherwise the larger of the two older sub-fields.
func resolveFrozen(info avail.AccountInfo) *big.Int {
	if info.Frozen != "" {
		return bigFromDecimal(info.Frozen)
	}
	misc := bigFromDecimal(info.MiscFrozen)
	fee := bigFromDecimal(info.FeeFrozen)
	if fee.Cmp(misc) > 0 {
		return fee
	}
	return misc
}

func bigFromDecimal(raw string) *big.Int {
	if raw == "" {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		logging.Logger.Errorf("malformed balance value %q", raw)
		return new(big.Int)
	}
	return v
}
