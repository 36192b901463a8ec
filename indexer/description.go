package indexer

import (
	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/logging"
)

// recordDescriptions persists the documentation text of every call and event
// kind the block carries, once per {module}_{method} key. The cache-then-store
// existence check keeps the steady state at zero reads per block.
func (i *Indexer) recordDescriptions(block *avail.DecodedBlock) error {
	for _, ext := range block.Extrinsics {
		if err := i.recordExtrinsicDescription(ext); err != nil {
			return err
		}
	}
	for _, evt := range block.Events {
		if err := i.recordEventDescription(evt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Indexer) recordExtrinsicDescription(ext avail.Extrinsic) error {
	key := eventKey(ext.Module, ext.Call)
	cacheKey := "extrinsic:" + key
	if i.descriptionCache.Contains(cacheKey) {
		return nil
	}
	existing, err := i.dao.GetExtrinsicDescription(key)
	if err != nil {
		return err
	}
	if existing == nil {
		description := &db.ExtrinsicDescription{
			ID:          key,
			Module:      ext.Module,
			Call:        ext.Call,
			Description: ext.Docs,
		}
		if err := i.dao.CreateExtrinsicDescription(description); err != nil {
			return err
		}
		logging.Logger.Infof("new extrinsic description recorded, id=%s", key)
	}
	i.descriptionCache.Set(cacheKey, true)
	return nil
}

func (i *Indexer) recordEventDescription(evt avail.Event) error {
	key := eventKey(evt.Module, evt.Method)
	cacheKey := "event:" + key
	if i.descriptionCache.Contains(cacheKey) {
		return nil
	}
	existing, err := i.dao.GetEventDescription(key)
	if err != nil {
		return err
	}
	if existing == nil {
		description := &db.EventDescription{
			ID:          key,
			Module:      evt.Module,
			Event:       evt.Method,
			Description: evt.Docs,
		}
		if err := i.dao.CreateEventDescription(description); err != nil {
			return err
		}
		logging.Logger.Infof("new event description recorded, id=%s", key)
	}
	i.descriptionCache.Set(cacheKey, true)
	return nil
}
