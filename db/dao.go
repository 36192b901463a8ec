package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IndexerDao is the persistence contract of the block pipeline: bulk creates
// per entity collection, point gets and puts for singleton state, and bulk
// updates for accounts.
type IndexerDao interface {
	BlockDB
	ExtrinsicDB
	EventDB
	LogDB
	DataSubmissionDB
	TransferDB
	AccountDB
	SessionDB
	SpecVersionDB
	ExtensionDB
	AccountQueueDB
	DescriptionDB
}

type IndexerSvcDB struct {
	db *gorm.DB
}

func NewIndexerSvcDB(db *gorm.DB) IndexerDao {
	return &IndexerSvcDB{
		db,
	}
}

type BlockDB interface {
	// GetBlock returns nil when no block exists at the height.
	GetBlock(height uint64) (*Block, error)
	GetLatestProcessedBlock() (*Block, error)
	SaveBlock(block *Block) error
}

func (d *IndexerSvcDB) GetBlock(height uint64) (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Where("number = ?", height).Take(&block).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (d *IndexerSvcDB) GetLatestProcessedBlock() (*Block, error) {
	block := Block{}
	err := d.db.Model(Block{}).Order("number desc").Take(&block).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &block, nil
}

func (d *IndexerSvcDB) SaveBlock(block *Block) error {
	err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(block).Error
	if IsDuplicateEntryErr(err) {
		// a concurrent retry of the same height already won the race
		return nil
	}
	return err
}

type ExtrinsicDB interface {
	CreateExtrinsics(extrinsics []*Extrinsic) error
}

func (d *IndexerSvcDB) CreateExtrinsics(extrinsics []*Extrinsic) error {
	if len(extrinsics) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(extrinsics).Error
}

type EventDB interface {
	CreateEvents(events []*Event) error
}

func (d *IndexerSvcDB) CreateEvents(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(events).Error
}

type LogDB interface {
	CreateLogs(logs []*Log) error
}

func (d *IndexerSvcDB) CreateLogs(logs []*Log) error {
	if len(logs) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(logs).Error
}

type DataSubmissionDB interface {
	CreateDataSubmissions(submissions []*DataSubmission) error
}

func (d *IndexerSvcDB) CreateDataSubmissions(submissions []*DataSubmission) error {
	if len(submissions) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(submissions).Error
}

type TransferDB interface {
	CreateTransfers(transfers []*Transfer) error
}

func (d *IndexerSvcDB) CreateTransfers(transfers []*Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(transfers).Error
}

type AccountDB interface {
	GetAccounts(addresses []string) ([]*Account, error)
	// UpsertAccounts creates unseen addresses and updates existing ones in place.
	UpsertAccounts(accounts []*Account) error
}

func (d *IndexerSvcDB) GetAccounts(addresses []string) ([]*Account, error) {
	accounts := make([]*Account, 0, len(addresses))
	if len(addresses) == 0 {
		return accounts, nil
	}
	if err := d.db.Where("address in (?)", addresses).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (d *IndexerSvcDB) UpsertAccounts(accounts []*Account) error {
	if len(accounts) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		UpdateAll: true,
	}).Create(accounts).Error
}

type SessionDB interface {
	// GetSession returns nil when the session id has not been recorded.
	GetSession(id string) (*Session, error)
	CreateSession(session *Session) error
}

func (d *IndexerSvcDB) GetSession(id string) (*Session, error) {
	session := Session{}
	err := d.db.Model(Session{}).Where("id = ?", id).Take(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *IndexerSvcDB) CreateSession(session *Session) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(session).Error
}

type SpecVersionDB interface {
	// GetSpecVersion returns nil when the runtime version has not been recorded.
	GetSpecVersion(id string) (*SpecVersion, error)
	CreateSpecVersion(version *SpecVersion) error
}

func (d *IndexerSvcDB) GetSpecVersion(id string) (*SpecVersion, error) {
	version := SpecVersion{}
	err := d.db.Model(SpecVersion{}).Where("id = ?", id).Take(&version).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (d *IndexerSvcDB) CreateSpecVersion(version *SpecVersion) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(version).Error
}

type ExtensionDB interface {
	SaveHeaderExtension(extension *HeaderExtension, commitment *Commitment, lookup *AppLookup) error
}

func (d *IndexerSvcDB) SaveHeaderExtension(extension *HeaderExtension, commitment *Commitment, lookup *AppLookup) error {
	if err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(extension).Error; err != nil {
		return err
	}
	if err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(commitment).Error; err != nil {
		return err
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(lookup).Error
}

type DescriptionDB interface {
	// GetExtrinsicDescription returns nil when the call kind has not been recorded.
	GetExtrinsicDescription(id string) (*ExtrinsicDescription, error)
	CreateExtrinsicDescription(description *ExtrinsicDescription) error
	// GetEventDescription returns nil when the event kind has not been recorded.
	GetEventDescription(id string) (*EventDescription, error)
	CreateEventDescription(description *EventDescription) error
}

func (d *IndexerSvcDB) GetExtrinsicDescription(id string) (*ExtrinsicDescription, error) {
	description := ExtrinsicDescription{}
	err := d.db.Model(ExtrinsicDescription{}).Where("id = ?", id).Take(&description).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &description, nil
}

func (d *IndexerSvcDB) CreateExtrinsicDescription(description *ExtrinsicDescription) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(description).Error
}

func (d *IndexerSvcDB) GetEventDescription(id string) (*EventDescription, error) {
	description := EventDescription{}
	err := d.db.Model(EventDescription{}).Where("id = ?", id).Take(&description).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &description, nil
}

func (d *IndexerSvcDB) CreateEventDescription(description *EventDescription) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(description).Error
}

type AccountQueueDB interface {
	// GetAccountQueue returns an empty queue when none has been persisted yet.
	GetAccountQueue() (*AccountQueue, error)
	SaveAccountQueue(queue *AccountQueue) error
}

func (d *IndexerSvcDB) GetAccountQueue() (*AccountQueue, error) {
	queue := AccountQueue{}
	err := d.db.Model(AccountQueue{}).Where("id = ?", AccountQueueKey).Take(&queue).Error
	if err == gorm.ErrRecordNotFound {
		return &AccountQueue{ID: AccountQueueKey}, nil
	}
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

func (d *IndexerSvcDB) SaveAccountQueue(queue *AccountQueue) error {
	queue.ID = AccountQueueKey
	return d.db.Save(queue).Error
}

func AutoMigrateDB(db *gorm.DB) {
	tables := []interface{}{
		&Block{},
		&Extrinsic{},
		&Event{},
		&Log{},
		&DataSubmission{},
		&Transfer{},
		&Account{},
		&Session{},
		&SpecVersion{},
		&HeaderExtension{},
		&Commitment{},
		&AppLookup{},
		&ExtrinsicDescription{},
		&EventDescription{},
		&AccountQueue{},
	}
	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			panic(err)
		}
	}
}
