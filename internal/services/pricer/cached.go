package pricer

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// DefaultCacheTTL is how long a price stays usable after the live source fails.
const DefaultCacheTTL = 5 * time.Minute

type cachedPrice struct {
	price decimal.Decimal
	at    time.Time
}

// CachedPricer remembers the last good price of every symbol and serves it
// when the live pricer fails or omits the symbol.
type CachedPricer struct {
	next   Pricer
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]cachedPrice
}

// CacheOption configures a CachedPricer.
type CacheOption func(*CachedPricer)

// WithTTL sets the maximum age of a cached price. Zero or less never expires.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedPricer) {
		c.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedPricer) {
		c.now = now
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *CachedPricer) {
		c.logger = logger
	}
}

func NewCachedPricer(next Pricer, opts ...CacheOption) *CachedPricer {
	c := &CachedPricer{
		next:    next,
		ttl:     DefaultCacheTTL,
		now:     time.Now,
		logger:  zap.NewNop(),
		entries: make(map[string]cachedPrice),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedPricer) GetPrices(ctx context.Context, assets []string) (domain.Prices, error) {
	live, err := c.next.GetPrices(ctx, assets)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for symbol, price := range live {
		c.entries[domain.NormalizeSymbol(symbol)] = cachedPrice{price: price, at: now}
	}

	out := make(domain.Prices, len(assets))
	var stale []string
	for _, asset := range assets {
		symbol := domain.NormalizeSymbol(asset)
		if price, ok := live[symbol]; ok {
			out[symbol] = price
			continue
		}
		entry, ok := c.entries[symbol]
		if !ok || (c.ttl > 0 && now.Sub(entry.at) > c.ttl) {
			continue
		}
		out[symbol] = entry.price
		stale = append(stale, symbol)
	}

	if err != nil {
		if len(out) == 0 {
			return nil, err
		}
		c.logger.Warn("serving cached prices", zap.Strings("assets", stale), zap.Error(err))
		return out, nil
	}
	if len(stale) > 0 {
		c.logger.Debug("filled missing prices from cache", zap.Strings("assets", stale))
	}
	return out, nil
}
