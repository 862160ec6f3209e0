package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrices_Get(t *testing.T) {
	prices := Prices{}
	prices.Set("btc", decimal.NewFromInt(50000))

	assert.True(t, decimal.NewFromInt(50000).Equal(prices.Get("BTC")))
	assert.True(t, decimal.NewFromInt(50000).Equal(prices.Get(" btc ")))
	assert.True(t, prices.Get("ETH").IsZero())

	var empty Prices
	assert.True(t, empty.Get("BTC").IsZero())
}

func TestAlignPrices(t *testing.T) {
	holdings := []ExchangeHolding{
		{Asset: "BTC", Free: "1", Locked: "0"},
		{Asset: "DUST", Free: "0", Locked: "0"},
		{Asset: "ETH", Free: "2", Locked: "0"},
		{Asset: "SOL", Free: "5", Locked: "0"},
	}

	prices := AlignPrices(holdings, []float64{50000, 3000})

	require.Len(t, prices, 2)
	assert.True(t, decimal.NewFromInt(50000).Equal(prices.Get("BTC")))
	assert.True(t, decimal.NewFromInt(3000).Equal(prices.Get("ETH")))
	assert.True(t, prices.Get("SOL").IsZero(), "vector shorter than holdings leaves the tail unpriced")
	assert.True(t, prices.Get("DUST").IsZero())
}

func TestDisplayRow_JSON(t *testing.T) {
	row := DisplayRow{
		Asset:  "BTC",
		Amount: decimal.NewFromInt(1),
		Price:  decimal.NewFromInt(50000),
		Total:  decimal.NewFromInt(50000),
		Source: VenueBinanceUS,
	}

	payload, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"asset":"BTC","amount":1.0000,"price":50000.0000,"total":50000.0000,"source":"Binance.US"}`, string(payload))

	var decoded DisplayRow
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, row.Asset, decoded.Asset)
	assert.True(t, row.Total.Equal(decoded.Total))
	assert.Equal(t, VenueBinanceUS, decoded.Source)
}
