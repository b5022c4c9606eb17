// Package nodeclient implements the miner side of the synchronization
// protocol against the node's private API.
package nodeclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/groovechain/groovechain/foundation/blockchain/block"
)

const baseURL = "http://%s/v1/node"

// A submission with no acknowledgment inside this window is treated as
// failed; the miner refetches and re-decides rather than retrying blindly.
const requestTimeout = 10 * time.Second

// maxRetries bounds the transport-level retries per request. Transport
// errors are routine for a mining loop and never fatal.
const maxRetries = 3

// =============================================================================

// ConfigInfo represents the network parameters fixed at node startup.
type ConfigInfo struct {
	ChainID    uint16 `json:"chain_id"`
	Difficulty uint   `json:"difficulty"`
	GenesisID  string `json:"genesis_id"`
}

// StatusInfo represents the current status of the node.
type StatusInfo struct {
	TipID     string   `json:"tip_id"`
	TipHeight uint64   `json:"tip_height"`
	Blocks    int      `json:"blocks"`
	Miners    []string `json:"miners"`
}

// SubmitResponse is the node's acknowledgment of a block submission.
type SubmitResponse struct {
	Verdict   string `json:"verdict"`
	Reason    string `json:"reason,omitempty"`
	TipID     string `json:"tip_id"`
	TipHeight uint64 `json:"tip_height"`
}

// =============================================================================

// Client provides access to a node's private API.
type Client struct {
	host   string
	client *http.Client
}

// New constructs a client for the node at the specified host.
func New(host string) *Client {
	return &Client{
		host: host,
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// FetchBlocks requests the complete current block set from the node.
func (c *Client) FetchBlocks() ([]block.Block, error) {
	url := fmt.Sprintf("%s/block/list", fmt.Sprintf(baseURL, c.host))

	var blocks []block.Block
	if err := c.send(http.MethodGet, url, nil, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}

// Config requests the network parameters from the node.
func (c *Client) Config() (ConfigInfo, error) {
	url := fmt.Sprintf("%s/config", fmt.Sprintf(baseURL, c.host))

	var cfg ConfigInfo
	if err := c.send(http.MethodGet, url, nil, &cfg); err != nil {
		return ConfigInfo{}, err
	}

	return cfg, nil
}

// Status requests the current tip information from the node.
func (c *Client) Status() (StatusInfo, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, c.host))

	var status StatusInfo
	if err := c.send(http.MethodGet, url, nil, &status); err != nil {
		return StatusInfo{}, err
	}

	return status, nil
}

// Register announces the miner's label to the node for its status surface.
func (c *Client) Register(minerLabel string) error {
	url := fmt.Sprintf("%s/register", fmt.Sprintf(baseURL, c.host))

	payload := struct {
		MinerLabel string `json:"miner_label"`
	}{
		MinerLabel: minerLabel,
	}

	return c.send(http.MethodPost, url, payload, nil)
}

// SubmitBlock sends a solved block to the node for adjudication. A rejected
// verdict arrives with a 406 status; it is decoded, not treated as a
// transport failure, so the caller can act on the structured reason.
func (c *Client) SubmitBlock(b block.Block) (SubmitResponse, error) {
	url := fmt.Sprintf("%s/block/submit", fmt.Sprintf(baseURL, c.host))

	var resp SubmitResponse
	if err := c.send(http.MethodPost, url, b, &resp); err != nil {
		return SubmitResponse{}, err
	}

	return resp, nil
}

// =============================================================================

// send is a helper function to perform a request/response against the node
// with a bounded exponential backoff on transport errors.
func (c *Client) send(method string, url string, dataSend any, dataRecv any) error {
	op := func() error {
		var body io.Reader
		if dataSend != nil {
			data, err := json.Marshal(dataSend)
			if err != nil {
				return backoff.Permanent(err)
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequest(method, url, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		if dataSend != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		// A rejection carries a decodable body just like a success.
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotAcceptable {
			msg, err := io.ReadAll(resp.Body)
			if err != nil {
				return backoff.Permanent(err)
			}
			return backoff.Permanent(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(msg)))
		}

		if dataRecv != nil {
			if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
				return backoff.Permanent(fmt.Errorf("unable to decode response: %w", err))
			}
		}

		return nil
	}

	return backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries))
}
