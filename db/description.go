package db

// ExtrinsicDescription is the documentation text of one call kind, keyed
// {module}_{call} and recorded the first time the kind is observed.
type ExtrinsicDescription struct {
	ID          string `gorm:"primaryKey;size:128"`
	Module      string `gorm:"NOT NULL;size:64"`
	Call        string `gorm:"NOT NULL;size:64"`
	Description string `gorm:"type:text"`
}

func (*ExtrinsicDescription) TableName() string {
	return "extrinsic_description"
}

// EventDescription is the documentation text of one event kind, keyed
// {module}_{method} and recorded the first time the kind is observed.
type EventDescription struct {
	ID          string `gorm:"primaryKey;size:128"`
	Module      string `gorm:"NOT NULL;size:64"`
	Event       string `gorm:"NOT NULL;size:64"`
	Description string `gorm:"type:text"`
}

func (*EventDescription) TableName() string {
	return "event_description"
}
