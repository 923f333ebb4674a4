package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit API client for public market data
type Client struct {
	httpClient *bybit_api.Client
	baseURL    string
	testnet    bool
	retry      RetryConfig
}

// Config holds the configuration for the Bybit client
type Config struct {
	// BaseURL overrides the mainnet/testnet endpoint when set
	BaseURL string
	Testnet bool
	Retry   *RetryConfig
}

// NewClient creates a new Bybit client. Market data endpoints are public, so no keys are needed.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		if config.Testnet {
			baseURL = bybit_api.TESTNET
		} else {
			baseURL = bybit_api.MAINNET
		}
	}

	retry := DefaultRetryConfig()
	if config.Retry != nil {
		retry = *config.Retry
	}

	return &Client{
		httpClient: bybit_api.NewBybitHttpClient("", "", bybit_api.WithBaseURL(baseURL)),
		baseURL:    baseURL,
		testnet:    config.Testnet,
		retry:      retry,
	}
}

// BaseURL returns the endpoint the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}
