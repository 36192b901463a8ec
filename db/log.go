package db

// Log is one digest log entry of a block header, keyed {height}-{index}.
// Engine is empty for kinds that carry no consensus-engine id.
type Log struct {
	ID          string `gorm:"primaryKey;size:32"`
	BlockHeight uint64 `gorm:"NOT NULL;index:idx_log_block"`
	Type        string `gorm:"NOT NULL;size:32"`
	Engine      string `gorm:"size:16"`
	Data        string `gorm:"type:text"`
}

func (*Log) TableName() string {
	return "log"
}
