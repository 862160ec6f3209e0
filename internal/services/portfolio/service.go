// Package portfolio refreshes holdings and prices and publishes the derived rows.
package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smilewilson1999/Eggregator/internal/domain"
	"github.com/smilewilson1999/Eggregator/internal/services/aggregator"
	"github.com/smilewilson1999/Eggregator/internal/services/pricer"
	"github.com/smilewilson1999/Eggregator/internal/services/sources"
)

// DefaultInterval is the refresh period of Run.
const DefaultInterval = 30 * time.Second

// ErrSourcesUnavailable is returned when every source failed and none of them
// has holdings from an earlier refresh.
var ErrSourcesUnavailable = errors.New("all holdings sources failed")

// Publisher receives every snapshot the service builds.
type Publisher interface {
	Publish(s domain.Snapshot)
}

// Service collects holdings and prices and turns them into snapshots.
type Service struct {
	exchange  sources.ExchangeSource
	wallet    sources.WalletSource
	pricer    pricer.Pricer
	cache     *aggregator.Cache
	publisher Publisher
	logger    *zap.Logger
	interval  time.Duration
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	exchLast []domain.ExchangeHolding
	exchOK   bool
	walLast  []domain.WalletHolding
	walOK    bool
	prices   domain.Prices
	latest   *domain.Snapshot
}

// Option configures a Service.
type Option func(*Service)

func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		s.interval = d
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService builds a service. Nil sources contribute no holdings and a nil
// pricer leaves every exchange asset at zero.
func NewService(exchange sources.ExchangeSource, wallet sources.WalletSource, p pricer.Pricer, opts ...Option) *Service {
	if exchange == nil {
		exchange = sources.Empty{}
	}
	if wallet == nil {
		wallet = sources.Empty{}
	}
	s := &Service{
		exchange: exchange,
		wallet:   wallet,
		pricer:   p,
		cache:    aggregator.NewCache(),
		logger:   zap.NewNop(),
		interval: DefaultInterval,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches holdings from both sources concurrently, prices the eligible
// exchange assets and publishes the resulting snapshot. A failing source is
// replaced by its holdings from the previous refresh.
func (s *Service) Refresh(ctx context.Context) (domain.Snapshot, error) {
	var (
		exchange        []domain.ExchangeHolding
		wallet          []domain.WalletHolding
		exchErr, walErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		exchange, exchErr = s.exchange.ExchangeHoldings(gctx)
		return ctx.Err()
	})
	g.Go(func() error {
		wallet, walErr = s.wallet.WalletHoldings(gctx)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, errors.Wrap(err, "refresh interrupted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exchange, exchUsable := s.settleExchange(exchange, exchErr)
	wallet, walUsable := s.settleWallet(wallet, walErr)
	if !exchUsable && !walUsable {
		return domain.Snapshot{}, errors.Wrapf(ErrSourcesUnavailable, "exchange: %v; wallet: %v", exchErr, walErr)
	}

	prices := s.priceExchange(ctx, exchange)
	rows := s.cache.Rows(aggregator.Input{Exchange: exchange, Wallet: wallet, Prices: prices})

	snapshot := domain.Snapshot{ID: s.newID(), Time: s.now(), Rows: rows}
	s.latest = &snapshot
	if s.publisher != nil {
		s.publisher.Publish(snapshot)
	}

	hits, misses := s.cache.Stats()
	s.logger.Debug("portfolio refreshed",
		zap.String("snapshot", snapshot.ID),
		zap.Int("rows", len(rows)),
		zap.Uint64("cache_hits", hits),
		zap.Uint64("cache_misses", misses),
	)
	return snapshot, nil
}

func (s *Service) settleExchange(fresh []domain.ExchangeHolding, err error) ([]domain.ExchangeHolding, bool) {
	if err == nil {
		s.exchLast, s.exchOK = fresh, true
		return fresh, true
	}
	s.logSourceError("exchange", err, s.exchOK)
	return s.exchLast, s.exchOK
}

func (s *Service) settleWallet(fresh []domain.WalletHolding, err error) ([]domain.WalletHolding, bool) {
	if err == nil {
		s.walLast, s.walOK = fresh, true
		return fresh, true
	}
	s.logSourceError("wallet", err, s.walOK)
	return s.walLast, s.walOK
}

func (s *Service) logSourceError(source string, err error, reused bool) {
	if errors.Is(err, sources.ErrNotConfigured) {
		s.logger.Debug("source not configured", zap.String("source", source), zap.Error(err))
		return
	}
	s.logger.Warn("failed to fetch holdings",
		zap.String("source", source),
		zap.Bool("reused_last_known", reused),
		zap.Error(err),
	)
}

func (s *Service) priceExchange(ctx context.Context, exchange []domain.ExchangeHolding) domain.Prices {
	assets := domain.EligibleAssets(exchange)
	if s.pricer == nil || len(assets) == 0 {
		return s.prices
	}

	prices, err := s.pricer.GetPrices(ctx, assets)
	if err != nil {
		s.logger.Warn("failed to fetch prices, keeping previous", zap.Strings("assets", assets), zap.Error(err))
		return s.prices
	}
	s.prices = prices
	return prices
}

// Latest returns the most recent snapshot.
func (s *Service) Latest() (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return domain.Snapshot{}, false
	}
	return *s.latest, true
}

// Run refreshes immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("Starting refresh loop", zap.Duration("interval", s.interval))

	if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Context done, stopping refresh loop.")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Refresh failed", zap.Error(err))
			}
		}
	}
}
