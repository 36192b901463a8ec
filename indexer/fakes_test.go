package indexer

import (
	"context"
	"errors"
	"sync"

	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
)

// fakeDao is an in-memory db.IndexerDao for pipeline tests.
type fakeDao struct {
	mu sync.Mutex

	blocks       map[uint64]*db.Block
	extrinsics   map[string]*db.Extrinsic
	events       map[string]*db.Event
	logs         map[string]*db.Log
	submissions  map[string]*db.DataSubmission
	transfers    map[string]*db.Transfer
	accounts     map[string]*db.Account
	sessions     map[string]*db.Session
	specVersions map[string]*db.SpecVersion
	extensions   map[string]*db.HeaderExtension
	extDescs     map[string]*db.ExtrinsicDescription
	evtDescs     map[string]*db.EventDescription
	queue        db.AccountQueue

	failCreateEvents bool
	failSaveBlock    bool
	failSaveQueue    bool
}

func newFakeDao() *fakeDao {
	return &fakeDao{
		blocks:       make(map[uint64]*db.Block),
		extrinsics:   make(map[string]*db.Extrinsic),
		events:       make(map[string]*db.Event),
		logs:         make(map[string]*db.Log),
		submissions:  make(map[string]*db.DataSubmission),
		transfers:    make(map[string]*db.Transfer),
		accounts:     make(map[string]*db.Account),
		sessions:     make(map[string]*db.Session),
		specVersions: make(map[string]*db.SpecVersion),
		extensions:   make(map[string]*db.HeaderExtension),
		extDescs:     make(map[string]*db.ExtrinsicDescription),
		evtDescs:     make(map[string]*db.EventDescription),
		queue:        db.AccountQueue{ID: db.AccountQueueKey},
	}
}

func (d *fakeDao) GetBlock(height uint64) (*db.Block, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.blocks[height], nil
}

func (d *fakeDao) GetLatestProcessedBlock() (*db.Block, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	latest := &db.Block{}
	for _, block := range d.blocks {
		if block.Number >= latest.Number {
			latest = block
		}
	}
	return latest, nil
}

func (d *fakeDao) SaveBlock(block *db.Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failSaveBlock {
		return errors.New("save block failed")
	}
	if _, ok := d.blocks[block.Number]; !ok {
		d.blocks[block.Number] = block
	}
	return nil
}

func (d *fakeDao) CreateExtrinsics(extrinsics []*db.Extrinsic) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ext := range extrinsics {
		if _, ok := d.extrinsics[ext.ID]; !ok {
			d.extrinsics[ext.ID] = ext
		}
	}
	return nil
}

func (d *fakeDao) CreateEvents(events []*db.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failCreateEvents {
		return errors.New("create events failed")
	}
	for _, evt := range events {
		if _, ok := d.events[evt.ID]; !ok {
			d.events[evt.ID] = evt
		}
	}
	return nil
}

func (d *fakeDao) CreateLogs(logs []*db.Log) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range logs {
		if _, ok := d.logs[l.ID]; !ok {
			d.logs[l.ID] = l
		}
	}
	return nil
}

func (d *fakeDao) CreateDataSubmissions(submissions []*db.DataSubmission) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range submissions {
		if _, ok := d.submissions[sub.ID]; !ok {
			d.submissions[sub.ID] = sub
		}
	}
	return nil
}

func (d *fakeDao) CreateTransfers(transfers []*db.Transfer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, tr := range transfers {
		if _, ok := d.transfers[tr.ID]; !ok {
			d.transfers[tr.ID] = tr
		}
	}
	return nil
}

func (d *fakeDao) GetAccounts(addresses []string) ([]*db.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	accounts := make([]*db.Account, 0, len(addresses))
	for _, address := range addresses {
		if account, ok := d.accounts[address]; ok {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (d *fakeDao) UpsertAccounts(accounts []*db.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, account := range accounts {
		d.accounts[account.Address] = account
	}
	return nil
}

func (d *fakeDao) GetSession(id string) (*db.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[id], nil
}

func (d *fakeDao) CreateSession(session *db.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[session.ID]; !ok {
		d.sessions[session.ID] = session
	}
	return nil
}

func (d *fakeDao) GetSpecVersion(id string) (*db.SpecVersion, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.specVersions[id], nil
}

func (d *fakeDao) CreateSpecVersion(version *db.SpecVersion) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.specVersions[version.ID]; !ok {
		d.specVersions[version.ID] = version
	}
	return nil
}

func (d *fakeDao) SaveHeaderExtension(extension *db.HeaderExtension, commitment *db.Commitment, lookup *db.AppLookup) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.extensions[extension.ID]; !ok {
		d.extensions[extension.ID] = extension
	}
	return nil
}

func (d *fakeDao) GetExtrinsicDescription(id string) (*db.ExtrinsicDescription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.extDescs[id], nil
}

func (d *fakeDao) CreateExtrinsicDescription(description *db.ExtrinsicDescription) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.extDescs[description.ID]; !ok {
		d.extDescs[description.ID] = description
	}
	return nil
}

func (d *fakeDao) GetEventDescription(id string) (*db.EventDescription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.evtDescs[id], nil
}

func (d *fakeDao) CreateEventDescription(description *db.EventDescription) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.evtDescs[description.ID]; !ok {
		d.evtDescs[description.ID] = description
	}
	return nil
}

func (d *fakeDao) GetAccountQueue() (*db.AccountQueue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := d.queue
	return &copied, nil
}

func (d *fakeDao) SaveAccountQueue(queue *db.AccountQueue) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failSaveQueue {
		return errors.New("save queue failed")
	}
	d.queue = *queue
	return nil
}

// fakeClient is an in-memory external.IClient.
type fakeClient struct {
	blocks      map[uint64]*avail.DecodedBlock
	latest      uint64
	feeDetails  *avail.FeeDetails
	feeErr      error
	accounts    map[string]avail.AccountInfo
	accountsErr error
	session     *avail.SessionInfo
	sessionErr  error

	feeQueries     int
	accountQueries int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		blocks:   make(map[uint64]*avail.DecodedBlock),
		accounts: make(map[string]avail.AccountInfo),
		session:  &avail.SessionInfo{ID: 1},
	}
}

func (c *fakeClient) GetBlock(ctx context.Context, height uint64) (*avail.DecodedBlock, error) {
	block, ok := c.blocks[height]
	if !ok {
		return nil, avail.ErrBlockNotFound
	}
	return block, nil
}

func (c *fakeClient) GetLatestHeight(ctx context.Context) (uint64, error) {
	return c.latest, nil
}

func (c *fakeClient) QueryFeeDetails(ctx context.Context, extHex, blockHash string) (*avail.FeeDetails, error) {
	c.feeQueries++
	if c.feeErr != nil {
		return nil, c.feeErr
	}
	if c.feeDetails == nil {
		return &avail.FeeDetails{NoInclusionFee: true}, nil
	}
	return c.feeDetails, nil
}

func (c *fakeClient) GetAccounts(ctx context.Context, addresses []string) ([]avail.AccountInfo, error) {
	c.accountQueries++
	if c.accountsErr != nil {
		return nil, c.accountsErr
	}
	infos := make([]avail.AccountInfo, 0, len(addresses))
	for _, address := range addresses {
		info, ok := c.accounts[address]
		if !ok {
			info = avail.AccountInfo{Address: address, Free: "0", Reserved: "0"}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (c *fakeClient) GetCurrentSession(ctx context.Context) (*avail.SessionInfo, error) {
	if c.sessionErr != nil {
		return nil, c.sessionErr
	}
	return c.session, nil
}
