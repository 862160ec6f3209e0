package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilewilson1999/Eggregator/internal/clients"
	"github.com/smilewilson1999/Eggregator/internal/domain"
)

func TestBinanceSource_ExchangeHoldings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/account", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-MBX-APIKEY"))
		assert.NotEmpty(t, r.URL.Query().Get("signature"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"canTrade":true,"balances":[
			{"asset":"BTC","free":"1.00000000","locked":"0.00000000"},
			{"asset":"ETH","free":"0.00000000","locked":"0.00000000"}
		]}`))
	}))
	defer srv.Close()

	src := NewBinanceSource(clients.NewBinanceClient("key", "secret", srv.URL), noRetry)

	got, err := src.ExchangeHoldings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ExchangeHolding{
		{Asset: "BTC", Free: "1.00000000", Locked: "0.00000000"},
		{Asset: "ETH", Free: "0.00000000", Locked: "0.00000000"},
	}, got)
}

func TestBinanceSource_APIErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`))
	}))
	defer srv.Close()

	src := NewBinanceSource(clients.NewBinanceClient("key", "secret", srv.URL), nil)

	_, err := src.ExchangeHoldings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API-key")
	assert.EqualValues(t, 1, calls.Load())
}

func TestBinanceSource_NotConfigured(t *testing.T) {
	src := NewBinanceSource(clients.NewBinanceClient("", "", ""), noRetry)

	_, err := src.ExchangeHoldings(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
