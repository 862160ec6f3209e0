package clients

import (
	"github.com/adshao/go-binance/v2"
)

// BinanceUSBaseURL is the REST root of the Binance.US venue.
const BinanceUSBaseURL = "https://api.binance.us"

// NewBinanceClient builds a client for the given REST root. An empty baseURL
// keeps the Binance.US default.
func NewBinanceClient(apiKey, apiSecret, baseURL string) *binance.Client {
	client := binance.NewClient(apiKey, apiSecret)
	if baseURL == "" {
		baseURL = BinanceUSBaseURL
	}
	client.BaseURL = baseURL
	return client
}
