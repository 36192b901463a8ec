package db

// HeaderExtension tags the versioned header-extension payload of one block.
type HeaderExtension struct {
	ID      string `gorm:"primaryKey;size:32"` // block height
	Version string `gorm:"size:8"`            // v1, v2 or v3
}

func (*HeaderExtension) TableName() string {
	return "header_extension"
}

// Commitment is the data-availability commitment of one header extension.
type Commitment struct {
	ID         string `gorm:"primaryKey;size:32"` // block height
	Rows       int
	Cols       int
	DataRoot   string
	Commitment string `gorm:"type:text"`
}

func (*Commitment) TableName() string {
	return "commitment"
}

// AppLookup maps application ids to their data ranges within the block grid.
type AppLookup struct {
	ID    string `gorm:"primaryKey;size:32"` // block height
	Size  int
	Index string `gorm:"type:text"` // serialized index map
}

func (*AppLookup) TableName() string {
	return "app_lookup"
}
