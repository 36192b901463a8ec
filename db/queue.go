package db

// AccountQueueKey is the primary key of the single pending-account-update row.
const AccountQueueKey = "0"

// AccountQueue is the persisted singleton set of addresses awaiting a balance
// reconciliation flush. It survives process restarts.
type AccountQueue struct {
	ID        string `gorm:"primaryKey;size:8"`
	Addresses string `gorm:"type:text"` // comma-joined, deduplicated
}

func (*AccountQueue) TableName() string {
	return "account_queue"
}
