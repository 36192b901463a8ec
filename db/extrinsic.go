package db

import (
	"time"
)

// Extrinsic is one call of a block, keyed {height}-{index}.
type Extrinsic struct {
	ID             string `gorm:"primaryKey;size:32"`
	Module         string `gorm:"NOT NULL;index:idx_extrinsic_module;size:64"`
	Call           string `gorm:"NOT NULL;size:64"`
	BlockID        string `gorm:"NOT NULL;index:idx_extrinsic_block;size:32"`
	BlockHeight    uint64 `gorm:"NOT NULL"`
	Success        bool
	IsSigned       bool
	ExtrinsicIndex int
	Hash           string `gorm:"NOT NULL;index:idx_extrinsic_hash;size:96"`
	Timestamp      time.Time
	DescriptionID  string `gorm:"size:128"` // {module}_{call} key into extrinsic_description
	Signer         string `gorm:"index:idx_extrinsic_signer;size:64"`
	Signature      string
	Nonce          uint32
	ArgsName       string `gorm:"type:text"` // JSON array of parameter names
	ArgsValue      string `gorm:"type:text"` // JSON array of stringified parameter values
	Fees           string // raw integer string, "" when unknown
	FeesRounded    *float64
	NbEvents       int
}

func (*Extrinsic) TableName() string {
	return "extrinsic"
}
