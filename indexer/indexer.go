package indexer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/availproject/avail-indexer/cache"
	"github.com/availproject/avail-indexer/config"
	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/logging"
	"github.com/availproject/avail-indexer/metrics"
	"github.com/availproject/avail-indexer/types"
	"github.com/availproject/avail-indexer/util"
)

const (
	LoopSleepTime  = 10 * time.Millisecond
	CaughtUpPause  = 10 * time.Second
	FailurePause   = 3 * time.Second
	LogEveryBlocks = 100
)

// Indexer drives the per-block extraction pipeline: one block to completion
// before the next begins. The pending-account set and the spec-version slot
// are single-writer under that contract.
type Indexer struct {
	dao              db.IndexerDao
	client           external.IClient
	cfg              *config.IndexerConfig
	sessionCache     cache.Cache
	descriptionCache cache.Cache

	// specVersion caches the last runtime version recorded, avoiding a store
	// read for every block of an unchanged runtime.
	specVersion string
}

func NewIndexer(dao db.IndexerDao, client external.IClient, cfg *config.IndexerConfig) *Indexer {
	sessionCache, err := cache.NewLocalCache(cache.DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	descriptionCache, err := cache.NewLocalCache(cache.DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return &Indexer{
		dao:              dao,
		client:           client,
		cfg:              cfg,
		sessionCache:     sessionCache,
		descriptionCache: descriptionCache,
	}
}

// StartLoop processes blocks in height order until the process stops. A failed
// block is abandoned and retried on the next pass, guarded by the idempotency
// gate.
func (i *Indexer) StartLoop() {
	for {
		if err := i.process(); err != nil {
			metrics.BlockFailureCounter.Inc()
			logging.Logger.Error(err)
			time.Sleep(FailurePause)
			continue
		}
		time.Sleep(LoopSleepTime)
	}
}

func (i *Indexer) process() error {
	ctx := context.Background()
	nextHeight, err := i.calNextHeight()
	if err != nil {
		return err
	}

	block, err := i.client.GetBlock(ctx, nextHeight)
	if err != nil {
		if err == avail.ErrBlockNotFound {
			latest, err := i.client.GetLatestHeight(ctx)
			if err != nil {
				return fmt.Errorf("failed to get latest chain height, err=%s", err.Error())
			}
			if nextHeight > latest {
				logging.Logger.Debugf("caught up with chain head at height %d", latest)
				time.Sleep(CaughtUpPause)
				return nil
			}
			return fmt.Errorf("block %d not found below chain head %d", nextHeight, latest)
		}
		return err
	}

	if err := i.IndexBlock(ctx, block); err != nil {
		return fmt.Errorf("failed to index block %d, err=%s", block.Header.Number, err.Error())
	}
	return nil
}

func (i *Indexer) calNextHeight() (uint64, error) {
	latestProcessedBlock, err := i.dao.GetLatestProcessedBlock()
	if err != nil {
		return 0, fmt.Errorf("failed to get latest processed block from db, error: %s", err.Error())
	}
	nextHeight := i.cfg.StartHeight
	if latestProcessedBlock.Number >= nextHeight {
		nextHeight = latestProcessedBlock.Number + 1
	}
	return nextHeight, nil
}

// IndexBlock derives the full record set of one decoded block and persists it
// exactly once. The block record is the last write, so a crashed run leaves no
// trace that would stop a retry of the same height.
func (i *Indexer) IndexBlock(ctx context.Context, block *avail.DecodedBlock) error {
	height := block.Header.Number
	if height%LogEveryBlocks == 0 {
		logging.Logger.Infof("handling block %d with spec version %d", height, block.SpecVersion)
	}

	// idempotency gate
	existing, err := i.dao.GetBlock(height)
	if err != nil {
		return err
	}
	if existing != nil {
		logging.Logger.Debugf("block %d already indexed, skipping", height)
		return nil
	}

	blockRecord := &db.Block{
		ID:             types.BlockID(height),
		Number:         height,
		Hash:           block.Header.Hash,
		Timestamp:      block.Timestamp,
		ParentHash:     block.Header.ParentHash,
		StateRoot:      block.Header.StateRoot,
		ExtrinsicsRoot: block.Header.ExtrinsicsRoot,
		RuntimeVersion: block.SpecVersion,
		NbExtrinsics:   len(block.Extrinsics),
		NbEvents:       len(block.Events),
	}

	// header phase: independent sub-tasks joined before the body phase. Only
	// session resolution mutates the in-progress block record.
	var (
		logs            []*db.Log
		extensionRecord *db.HeaderExtension
		commitment      *db.Commitment
		appLookup       *db.AppLookup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs = buildLogs(block.Header)
		return nil
	})
	g.Go(func() error {
		if err := i.updateSession(gctx, block, blockRecord); err != nil {
			// degraded: the block is still indexed without session/author
			logging.Logger.Errorf("failed to update session at block %d, err=%s", height, err.Error())
		}
		return nil
	})
	g.Go(func() error {
		return i.recordSpecVersion(height, block.SpecVersion)
	})
	g.Go(func() error {
		var err error
		extensionRecord, commitment, appLookup, err = buildHeaderExtension(block.Header)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// body phase: aggregates must reflect every event before extrinsics build
	if err := i.recordDescriptions(block); err != nil {
		return err
	}
	linked, err := linkEvents(block)
	if err != nil {
		return err
	}
	extrinsics, submissions, err := i.buildExtrinsics(ctx, block, linked.Aggregates)
	if err != nil {
		return err
	}

	if err := i.reconcileAccounts(ctx, height, linked.Touched); err != nil {
		return err
	}

	// persistence phase: bulk creates over disjoint collections, block last
	var pg errgroup.Group
	pg.Go(func() error { return i.dao.CreateEvents(linked.Events) })
	pg.Go(func() error { return i.dao.CreateExtrinsics(extrinsics) })
	pg.Go(func() error { return i.dao.CreateDataSubmissions(submissions) })
	pg.Go(func() error { return i.dao.CreateTransfers(linked.Transfers) })
	pg.Go(func() error { return i.dao.CreateLogs(logs) })
	if extensionRecord != nil {
		pg.Go(func() error { return i.dao.SaveHeaderExtension(extensionRecord, commitment, appLookup) })
	}
	if err := pg.Wait(); err != nil {
		return err
	}

	if err := i.dao.SaveBlock(blockRecord); err != nil {
		return err
	}
	metrics.IndexedBlockGauge.Set(float64(height))
	return nil
}

// recordSpecVersion creates a SpecVersion record the first time a runtime
// version is observed, keeping a process-local slot to skip redundant reads.
func (i *Indexer) recordSpecVersion(height uint64, version uint32) error {
	id := util.Uint64ToString(uint64(version))
	if i.specVersion == id {
		return nil
	}
	existing, err := i.dao.GetSpecVersion(id)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := i.dao.CreateSpecVersion(&db.SpecVersion{ID: id, BlockHeight: height}); err != nil {
			return err
		}
		logging.Logger.Infof("new spec version %s recorded at block %d", id, height)
	}
	i.specVersion = id
	return nil
}
