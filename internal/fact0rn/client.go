package fact0rn

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/rpcclient"
)

const appName = "fact0rn"

// ClientConfig describes how to reach the node's JSON-RPC endpoint.
// Without a user the cookie file is used.
type ClientConfig struct {
	URL        string
	User       string
	Password   string
	CookiePath string
	Network    string
}

// NewClient opens an HTTP POST mode rpcclient.
func NewClient(cfg ClientConfig) (*rpcclient.Client, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	conn := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         cfg.User,
		Pass:         cfg.Password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	if cfg.User == "" {
		conn.CookiePath = cfg.CookiePath
		if conn.CookiePath == "" {
			conn.CookiePath = DefaultCookiePath(cfg.Network)
		}
	}

	return rpcclient.New(conn, nil)
}

// DefaultCookiePath returns where the node writes its RPC cookie for network.
func DefaultCookiePath(network string) string {
	dir := btcutil.AppDataDir(appName, false)
	switch network {
	case "testnet":
		dir = filepath.Join(dir, "testnet3")
	case "signet", "regtest":
		dir = filepath.Join(dir, network)
	}
	return filepath.Join(dir, ".cookie")
}
