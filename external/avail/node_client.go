package avail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/availproject/avail-indexer/util"
)

var ErrBlockNotFound = errors.New("block not found")

const (
	getBlockPath     = "/v1/blocks/%d" // height
	getHeadPath      = "/v1/blocks/head"
	querySessionPath = "/v1/session"
	queryFeePath     = "/v1/fees/query"
	queryAccountPath = "/v1/accounts/query"
)

// NodeClient talks to the Avail node gateway that serves fully decoded blocks
// and state queries over HTTP.
type NodeClient struct {
	hc   *http.Client
	host string
}

func NewNodeClient(host string, timeout time.Duration) (*NodeClient, error) {
	if host == "" {
		return nil, errors.New("empty node gateway address")
	}
	transport := &http.Transport{
		DisableCompression:  true,
		MaxIdleConnsPerHost: 1000,
		MaxConnsPerHost:     1000,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	return &NodeClient{hc: client, host: host}, nil
}

func (c *NodeClient) GetBlock(ctx context.Context, height uint64) (*DecodedBlock, error) {
	block := DecodedBlock{}
	err := c.getJSON(ctx, fmt.Sprintf(getBlockPath, height), &block)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

type headResponse struct {
	Height uint64 `json:"height"`
}

func (c *NodeClient) GetLatestHeight(ctx context.Context) (uint64, error) {
	head := headResponse{}
	if err := c.getJSON(ctx, getHeadPath, &head); err != nil {
		return 0, err
	}
	return head.Height, nil
}

func (c *NodeClient) GetCurrentSession(ctx context.Context) (*SessionInfo, error) {
	session := SessionInfo{}
	if err := c.getJSON(ctx, querySessionPath, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type feeQueryRequest struct {
	Extrinsic string `json:"extrinsic"` // canonical hex encoding
	BlockHash string `json:"block_hash"`
}

func (c *NodeClient) QueryFeeDetails(ctx context.Context, extHex, blockHash string) (*FeeDetails, error) {
	details := FeeDetails{}
	req := feeQueryRequest{Extrinsic: extHex, BlockHash: blockHash}
	if err := c.postJSON(ctx, queryFeePath, req, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

type accountQueryRequest struct {
	Addresses []string `json:"addresses"`
}

type accountQueryResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// GetAccounts returns the raw balance fields of every address, in input order.
func (c *NodeClient) GetAccounts(ctx context.Context, addresses []string) ([]AccountInfo, error) {
	resp := accountQueryResponse{}
	req := accountQueryRequest{Addresses: addresses}
	if err := c.postJSON(ctx, queryAccountPath, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Accounts) != len(addresses) {
		return nil, fmt.Errorf("account query returned %d entries for %d addresses, addrs=%s",
			len(resp.Accounts), len(addresses), util.JoinWithComma(addresses))
	}
	return resp.Accounts, nil
}

func (c *NodeClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *NodeClient) postJSON(ctx context.Context, path string, in, out interface{}) error {
	bz, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(bz))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *NodeClient) do(req *http.Request, out interface{}) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrBlockNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK response status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
