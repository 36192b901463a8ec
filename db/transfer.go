package db

import (
	"time"
)

// Transfer is one balance transfer event, keyed {height}-{eventIndex}.
// ExtrinsicID is empty when the transfer is not tied to an extrinsic.
type Transfer struct {
	ID            string `gorm:"primaryKey;size:32"`
	BlockID       string `gorm:"NOT NULL;index:idx_transfer_block;size:32"`
	BlockHash     string
	ExtrinsicID   string `gorm:"size:32"`
	Timestamp     time.Time
	From          string `gorm:"column:from_address;NOT NULL;index:idx_transfer_from;size:64"`
	To            string `gorm:"column:to_address;NOT NULL;index:idx_transfer_to;size:64"`
	Currency      string `gorm:"size:16"`
	Amount        string // raw integer string
	AmountRounded float64
}

func (*Transfer) TableName() string {
	return "transfer"
}
