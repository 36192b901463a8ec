package db

// Session records the validator set of one session id.
type Session struct {
	ID         string `gorm:"primaryKey;size:32"`
	Validators string `gorm:"type:text"` // comma-joined validator addresses
}

func (*Session) TableName() string {
	return "session"
}

// SpecVersion records the height at which a runtime version was first observed.
type SpecVersion struct {
	ID          string `gorm:"primaryKey;size:32"`
	BlockHeight uint64
}

func (*SpecVersion) TableName() string {
	return "spec_version"
}
