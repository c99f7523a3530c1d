// Package rpcprobe checks whether an Ethereum JSON-RPC endpoint answers.
package rpcprobe

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

const defaultTimeout = 5 * time.Second

// Prober reports the chain id served at url.
type Prober interface {
	ChainID(ctx context.Context, url string) (uint64, error)
}

// Ensure Client implements Prober at compile time.
var _ Prober = (*Client)(nil)

// Client probes endpoints with eth_chainId.
type Client struct {
	Timeout time.Duration
}

// ChainID dials url and asks for its chain id.
func (c *Client) ChainID(ctx context.Context, url string) (uint64, error) {
	timeout := defaultTimeout
	if c != nil && c.Timeout > 0 {
		timeout = c.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", url, err)
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("chain id from %s: %w", url, err)
	}
	return id.Uint64(), nil
}

// FirstReachable returns the first url that answers, in order.
func FirstReachable(ctx context.Context, p Prober, urls []string) (string, uint64, error) {
	var lastErr error
	for _, url := range urls {
		id, err := p.ChainID(ctx, url)
		if err == nil {
			return url, id, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no rpc endpoints configured")
	}
	return "", 0, lastErr
}
