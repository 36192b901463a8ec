package db

import (
	"time"
)

// Event is one runtime event of a block, keyed {height}-{index}. ExtrinsicID
// is empty for block-level events that no extrinsic produced.
type Event struct {
	ID            string `gorm:"primaryKey;size:32"`
	BlockID       string `gorm:"NOT NULL;index:idx_event_block;size:32"`
	BlockHeight   uint64 `gorm:"NOT NULL"`
	ExtrinsicID   string `gorm:"index:idx_event_extrinsic;size:32"`
	Module        string `gorm:"NOT NULL;index:idx_event_module;size:64"`
	Event         string `gorm:"NOT NULL;size:64"`
	EventIndex    int
	DescriptionID string `gorm:"size:128"` // {module}_{method} key into event_description
	ArgsName      string `gorm:"type:text"`
	ArgsValue     string `gorm:"type:text"`
	Timestamp     time.Time
}

func (*Event) TableName() string {
	return "event"
}
