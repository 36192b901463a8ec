package db

import (
	"time"
)

// Block is the per-height record whose existence is the idempotency signal:
// it is only ever written after every other record of its height.
type Block struct {
	ID             string `gorm:"primaryKey;size:32"`
	Number         uint64 `gorm:"NOT NULL;uniqueIndex:idx_block_number"`
	Hash           string `gorm:"NOT NULL;size:96"`
	Timestamp      time.Time
	ParentHash     string
	StateRoot      string
	ExtrinsicsRoot string
	RuntimeVersion uint32
	NbExtrinsics   int
	NbEvents       int
	SessionID      *uint64
	Author         *string
}

func (*Block) TableName() string {
	return "block"
}
