package pricer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilewilson1999/Eggregator/internal/clients"
	"github.com/smilewilson1999/Eggregator/internal/domain"
)

func newTickerServer(t *testing.T, prices map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			http.NotFound(w, r)
			return
		}
		symbol := r.URL.Query().Get("symbol")
		price, ok := prices[symbol]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `[{"symbol":%q,"price":%q}]`, symbol, price)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBinancePricer_GetPrice(t *testing.T) {
	srv := newTickerServer(t, map[string]string{"BTCUSDT": "50000.12000000"})
	p := NewBinancePricer(clients.NewBinanceClient("", "", srv.URL))

	t.Run("known pair", func(t *testing.T) {
		price, err := p.GetPrice(context.Background(), domain.NewPair("btc", "usdt"))
		require.NoError(t, err)
		assert.Equal(t, "50000.12", price.String())
	})

	t.Run("unknown pair", func(t *testing.T) {
		_, err := p.GetPrice(context.Background(), domain.NewPair("NOPE", "USDT"))
		assert.Error(t, err)
	})
}

func TestBinancePricer_ThroughPairPricer(t *testing.T) {
	srv := newTickerServer(t, map[string]string{"BTCUSDT": "50000", "ETHUSDT": "3000"})
	p := NewPairPricer(NewBinancePricer(clients.NewBinanceClient("", "", srv.URL)), "USDT", nil, nil)

	got, err := p.GetPrices(context.Background(), []string{"BTC", "ETH", "DOGE", "USDT"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"BTC": "50000", "ETH": "3000", "USDT": "1"}, got.Strings())
}
