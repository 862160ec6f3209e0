package aggregator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertRow(t *testing.T, row domain.DisplayRow, asset, amount, price, total string, source domain.Venue) {
	t.Helper()
	assert.Equal(t, asset, row.Asset)
	assert.True(t, dec(amount).Equal(row.Amount), "amount: expected %s, got %s", amount, row.Amount)
	assert.True(t, dec(price).Equal(row.Price), "price: expected %s, got %s", price, row.Price)
	assert.True(t, dec(total).Equal(row.Total), "total: expected %s, got %s", total, row.Total)
	assert.Equal(t, source, row.Source)
}

func TestAggregate_ExchangeHolding(t *testing.T) {
	exchange := []domain.ExchangeHolding{{Asset: "BTC", Free: "1", Locked: "0"}}
	prices := domain.AlignPrices(exchange, []float64{50000})

	rows := Aggregate(exchange, nil, prices)

	require.Len(t, rows, 1)
	assertRow(t, rows[0], "BTC", "1.0000", "50000.0000", "50000.0000", domain.VenueBinanceUS)
	assert.Equal(t, "50000.0000", rows[0].Total.StringFixed(domain.DisplayPlaces))
}

func TestAggregate_WalletHolding(t *testing.T) {
	wallet := []domain.WalletHolding{{Symbol: "ETH", Amount: "2", TokenPrice: "3000"}}

	rows := Aggregate(nil, wallet, nil)

	require.Len(t, rows, 1)
	assertRow(t, rows[0], "ETH", "2", "3000", "6000", domain.VenueEthereum)
}

func TestAggregate_DropsEmptyHoldings(t *testing.T) {
	exchange := []domain.ExchangeHolding{
		{Asset: "DUST", Free: "0", Locked: "0"},
		{Asset: "NEG", Free: "-1", Locked: "0.5"},
		{Asset: "BAD", Free: "n/a", Locked: ""},
	}
	wallet := []domain.WalletHolding{
		{Symbol: "ZERO", Amount: "0", TokenPrice: "10"},
		{Symbol: "NEG", Amount: "-3", TokenPrice: "10"},
	}
	prices := domain.Prices{"DUST": dec("1000"), "NEG": dec("1")}

	rows := Aggregate(exchange, wallet, prices)

	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestAggregate_EmptyInputs(t *testing.T) {
	rows := Aggregate(nil, nil, nil)
	assert.Empty(t, rows)
}

func TestAggregate_MissingPriceIsZero(t *testing.T) {
	exchange := []domain.ExchangeHolding{{Asset: "SOL", Free: "3", Locked: "1"}}

	rows := Aggregate(exchange, nil, domain.Prices{"BTC": dec("50000")})

	require.Len(t, rows, 1)
	assertRow(t, rows[0], "SOL", "4", "0", "0", domain.VenueBinanceUS)
}

func TestAggregate_PricesMatchedBySymbol(t *testing.T) {
	exchange := []domain.ExchangeHolding{
		{Asset: "ETH", Free: "1", Locked: "0"},
		{Asset: "btc", Free: "1", Locked: "0"},
	}
	prices := domain.Prices{"BTC": dec("50000"), "ETH": dec("3000")}

	rows := Aggregate(exchange, nil, prices)

	require.Len(t, rows, 2)
	assertRow(t, rows[0], "ETH", "1", "3000", "3000", domain.VenueBinanceUS)
	assertRow(t, rows[1], "btc", "1", "50000", "50000", domain.VenueBinanceUS)
}

func TestAggregate_OrderAndDuplicates(t *testing.T) {
	exchange := []domain.ExchangeHolding{
		{Asset: "ETH", Free: "1", Locked: "0"},
		{Asset: "DUST", Free: "0", Locked: "0"},
		{Asset: "BTC", Free: "0.5", Locked: "0.5"},
	}
	wallet := []domain.WalletHolding{
		{Symbol: "USDC", Amount: "100", TokenPrice: "1"},
		{Symbol: "ETH", Amount: "2", TokenPrice: "3000"},
	}
	prices := domain.Prices{"ETH": dec("3000"), "BTC": dec("50000")}

	rows := Aggregate(exchange, wallet, prices)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ETH", "BTC", "USDC", "ETH"},
		[]string{rows[0].Asset, rows[1].Asset, rows[2].Asset, rows[3].Asset})
	assert.Equal(t, domain.VenueBinanceUS, rows[0].Source)
	assert.Equal(t, domain.VenueBinanceUS, rows[1].Source)
	assert.Equal(t, domain.VenueEthereum, rows[2].Source)
	assert.Equal(t, domain.VenueEthereum, rows[3].Source)
}

func TestAggregate_Rounding(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		price  string
		total  string
		wantA  string
		wantP  string
	}{
		{name: "half away from zero", amount: "0.00005", price: "1.23445", total: "0.0001", wantA: "0.0001", wantP: "1.2345"},
		{name: "total from unrounded inputs", amount: "1.00004", price: "2.00004", total: "2.0001", wantA: "1", wantP: "2"},
		{name: "many digits", amount: "3.14159265", price: "2.71828182", total: "8.5397", wantA: "3.1416", wantP: "2.7183"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := []domain.WalletHolding{{Symbol: "TKN", Amount: tt.amount, TokenPrice: tt.price}}
			rows := Aggregate(nil, wallet, nil)
			require.Len(t, rows, 1)
			assertRow(t, rows[0], "TKN", tt.wantA, tt.wantP, tt.total, domain.VenueEthereum)

			want := dec(tt.amount).Mul(dec(tt.price)).Round(domain.DisplayPlaces)
			assert.True(t, want.Equal(rows[0].Total))
		})
	}
}
