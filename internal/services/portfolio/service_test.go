package portfolio

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilewilson1999/Eggregator/internal/domain"
	"github.com/smilewilson1999/Eggregator/internal/events"
	"github.com/smilewilson1999/Eggregator/internal/services/pricer"
)

type stubExchange struct {
	mu       sync.Mutex
	holdings []domain.ExchangeHolding
	err      error
}

func (s *stubExchange) ExchangeHoldings(context.Context) ([]domain.ExchangeHolding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holdings, s.err
}

type stubWallet struct {
	mu       sync.Mutex
	holdings []domain.WalletHolding
	err      error
}

func (s *stubWallet) WalletHoldings(context.Context) ([]domain.WalletHolding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holdings, s.err
}

type stubPricer struct {
	prices domain.Prices
	err    error
	asked  [][]string
}

func (s *stubPricer) GetPrices(_ context.Context, assets []string) (domain.Prices, error) {
	s.asked = append(s.asked, assets)
	return s.prices, s.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return strconv.Itoa(n)
	}
}

func newFixture() (*stubExchange, *stubWallet, *stubPricer) {
	ex := &stubExchange{holdings: []domain.ExchangeHolding{
		{Asset: "BTC", Free: "1", Locked: "0"},
		{Asset: "DOGE", Free: "0", Locked: "0"},
	}}
	wal := &stubWallet{holdings: []domain.WalletHolding{{Symbol: "ETH", Amount: "2", TokenPrice: "3000"}}}
	pr := &stubPricer{prices: domain.Prices{"BTC": decimal.NewFromInt(50000)}}
	return ex, wal, pr
}

func rowAssets(rows []domain.DisplayRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Asset + "@" + r.Total.StringFixed(4)
	}
	return out
}

func TestService_Refresh(t *testing.T) {
	ex, wal, pr := newFixture()
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	b := events.NewSnapshotBroadcaster(4)
	sub := b.Subscribe()

	svc := NewService(ex, wal, pr,
		WithPublisher(b),
		WithClock(func() time.Time { return ts }),
		WithIDGenerator(sequentialIDs()),
	)

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", snap.ID)
	assert.Equal(t, ts, snap.Time)
	assert.Equal(t, []string{"BTC@50000.0000", "ETH@6000.0000"}, rowAssets(snap.Rows))
	assert.Equal(t, domain.VenueBinanceUS, snap.Rows[0].Source)
	assert.Equal(t, domain.VenueEthereum, snap.Rows[1].Source)
	assert.Equal(t, [][]string{{"BTC"}}, pr.asked, "only eligible exchange assets are priced")

	published := <-sub
	assert.Equal(t, snap.ID, published.ID)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.ID, latest.ID)
}

func TestService_ReusesLastKnownHoldings(t *testing.T) {
	ex, wal, pr := newFixture()
	svc := NewService(ex, wal, pr, WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	t.Run("failing exchange", func(t *testing.T) {
		ex.err = errors.New("binance down")
		ex.holdings = nil

		snap, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"BTC@50000.0000", "ETH@6000.0000"}, rowAssets(snap.Rows))
	})

	t.Run("failing pricer keeps previous prices", func(t *testing.T) {
		pr.err = errors.New("ticker down")

		snap, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"BTC@50000.0000", "ETH@6000.0000"}, rowAssets(snap.Rows))
	})

	t.Run("fresh wallet data still lands", func(t *testing.T) {
		wal.holdings = []domain.WalletHolding{{Symbol: "ETH", Amount: "1", TokenPrice: "3000"}}

		snap, err := svc.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"BTC@50000.0000", "ETH@3000.0000"}, rowAssets(snap.Rows))
	})
}

func TestService_AllSourcesFailWithoutHistory(t *testing.T) {
	ex := &stubExchange{err: errors.New("binance down")}
	wal := &stubWallet{err: errors.New("rpc down")}
	svc := NewService(ex, wal, nil)

	_, err := svc.Refresh(context.Background())
	require.ErrorIs(t, err, ErrSourcesUnavailable)

	_, ok := svc.Latest()
	assert.False(t, ok)
}

func TestService_NilCollaborators(t *testing.T) {
	svc := NewService(nil, nil, nil)

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Rows)
	assert.NotEmpty(t, snap.ID)
}

func TestService_UnpricedAssetsAreZero(t *testing.T) {
	ex, _, _ := newFixture()
	svc := NewService(ex, nil, pricer.NewStaticPricer(nil))

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.True(t, snap.Rows[0].Price.IsZero())
	assert.True(t, snap.Rows[0].Total.IsZero())
}

func TestService_Run(t *testing.T) {
	ex, wal, pr := newFixture()
	b := events.NewSnapshotBroadcaster(8)
	sub := b.Subscribe()
	svc := NewService(ex, wal, pr, WithPublisher(b), WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-sub:
		case <-time.After(time.Second):
			t.Fatal("no snapshot published")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
}
