package db

import (
	"time"
)

// DataSubmission records one data-availability submission, keyed by the id of
// the extrinsic that carried it.
type DataSubmission struct {
	ID          string `gorm:"primaryKey;size:32"`
	ExtrinsicID string `gorm:"NOT NULL;index:idx_submission_extrinsic;size:32"`
	Timestamp   time.Time
	ByteSize    int
	AppID       uint64 `gorm:"index:idx_submission_app"`
	Signer      string `gorm:"index:idx_submission_signer;size:64"`
	Fees        *float64
	FeesPerMb   *float64
}

func (*DataSubmission) TableName() string {
	return "data_submission"
}
