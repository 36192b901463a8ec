package indexer

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/logging"
	"github.com/availproject/avail-indexer/util"
)

const (
	engineBabe = "BABE"
	engineAura = "aura"
)

// updateSession resolves the current session, records its validator set the
// first time the id is seen, and attaches session id and block author to the
// in-progress block record. The session-existence check is the sole gate for
// the expensive validator fetch.
func (i *Indexer) updateSession(ctx context.Context, block *avail.DecodedBlock, record *db.Block) error {
	info, err := i.client.GetCurrentSession(ctx)
	if err != nil {
		return err
	}
	sessionID := util.Uint64ToString(info.ID)

	if !i.sessionCache.Contains(sessionID) {
		existing, err := i.dao.GetSession(sessionID)
		if err != nil {
			return err
		}
		if existing == nil {
			session := &db.Session{
				ID:         sessionID,
				Validators: util.JoinWithComma(info.Validators),
			}
			if err := i.dao.CreateSession(session); err != nil {
				return err
			}
			if err := i.markValidators(info.Validators); err != nil {
				return err
			}
			logging.Logger.Infof("new session recorded, session_id=%s, validators=%d", sessionID, len(info.Validators))
		}
		i.sessionCache.Set(sessionID, true)
	}

	id := info.ID
	record.SessionID = &id
	if author := extractAuthor(block.Header.Digest, info.Validators); author != "" {
		record.Author = &author
	}
	return nil
}

// markValidators flags every validator address's account and bumps its session
// participation counter, creating accounts for addresses never seen before.
func (i *Indexer) markValidators(validators []string) error {
	existing, err := i.dao.GetAccounts(validators)
	if err != nil {
		return err
	}
	byAddress := make(map[string]*db.Account, len(existing))
	for _, account := range existing {
		byAddress[account.Address] = account
	}

	now := time.Now()
	updated := make([]*db.Account, 0, len(validators))
	for _, address := range validators {
		account, ok := byAddress[address]
		if !ok {
			account = &db.Account{
				Address:   address,
				CreatedAt: now,
			}
		}
		account.Validator = true
		account.ValidatorSessionParticipated++
		account.UpdatedAt = now
		updated = append(updated, account)
	}
	return i.dao.UpsertAccounts(updated)
}

// extractAuthor derives the block author from the consensus digest and the
// session's validator set: BABE pre-runtime digests carry the authority index
// directly, aura digests carry the slot number the index is derived from.
func extractAuthor(digest []avail.DigestLog, validators []string) string {
	if len(validators) == 0 {
		return ""
	}
	for _, entry := range digest {
		if entry.Kind != avail.LogPreRuntime && entry.Kind != avail.LogConsensus {
			continue
		}
		bz, err := util.HexToBytes(entry.Data)
		if err != nil {
			continue
		}
		switch entry.Engine {
		case engineBabe:
			// one variant byte, then the little-endian u32 authority index
			if len(bz) < 5 {
				continue
			}
			idx := binary.LittleEndian.Uint32(bz[1:5])
			if int(idx) < len(validators) {
				return validators[idx]
			}
		case engineAura:
			if len(bz) < 8 {
				continue
			}
			slot := binary.LittleEndian.Uint64(bz[:8])
			return validators[slot%uint64(len(validators))]
		}
	}
	return ""
}
