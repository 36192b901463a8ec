package external

import (
	"context"
	"time"

	"github.com/availproject/avail-indexer/config"
	"github.com/availproject/avail-indexer/external/avail"
)

const RPCTimeout = 20 * time.Second

// IClient is the narrow contract the indexer consumes from the chain node.
type IClient interface {
	// GetBlock supplies one fully decoded block per invocation.
	GetBlock(ctx context.Context, height uint64) (*avail.DecodedBlock, error)
	GetLatestHeight(ctx context.Context) (uint64, error)
	// QueryFeeDetails itemizes the inclusion fee of a signed extrinsic.
	QueryFeeDetails(ctx context.Context, extHex, blockHash string) (*avail.FeeDetails, error)
	// GetAccounts returns raw balance fields for every address, in input order.
	GetAccounts(ctx context.Context, addresses []string) ([]avail.AccountInfo, error)
	GetCurrentSession(ctx context.Context) (*avail.SessionInfo, error)
}

type Client struct {
	nodeClient *avail.NodeClient
	cfg        *config.IndexerConfig
}

func NewClient(cfg *config.IndexerConfig) IClient {
	nodeClient, err := avail.NewNodeClient(cfg.ChainRPCAddrs[0], RPCTimeout)
	if err != nil {
		panic("new avail node client error")
	}
	return &Client{
		nodeClient: nodeClient,
		cfg:        cfg,
	}
}

func (c *Client) GetBlock(ctx context.Context, height uint64) (*avail.DecodedBlock, error) {
	return c.nodeClient.GetBlock(ctx, height)
}

func (c *Client) GetLatestHeight(ctx context.Context) (uint64, error) {
	return c.nodeClient.GetLatestHeight(ctx)
}

func (c *Client) QueryFeeDetails(ctx context.Context, extHex, blockHash string) (*avail.FeeDetails, error) {
	return c.nodeClient.QueryFeeDetails(ctx, extHex, blockHash)
}

func (c *Client) GetAccounts(ctx context.Context, addresses []string) ([]avail.AccountInfo, error) {
	return c.nodeClient.GetAccounts(ctx, addresses)
}

func (c *Client) GetCurrentSession(ctx context.Context) (*avail.SessionInfo, error) {
	return c.nodeClient.GetCurrentSession(ctx)
}
