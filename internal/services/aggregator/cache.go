package aggregator

import (
	"sync"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/pkg/errors"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// Input the three values a row set is derived from.
type Input struct {
	Exchange []domain.ExchangeHolding
	Wallet   []domain.WalletHolding
	Prices   domain.Prices
}

// hashable mirrors Input with prices in string form; decimal.Decimal keeps its state unexported.
type hashable struct {
	Exchange []domain.ExchangeHolding
	Wallet   []domain.WalletHolding
	Prices   map[string]string
}

// Hash returns a structural hash of the input.
func (in Input) Hash() (uint64, error) {
	h, err := hashstructure.Hash(hashable{
		Exchange: in.Exchange,
		Wallet:   in.Wallet,
		Prices:   in.Prices.Strings(),
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, errors.Wrap(err, "hash aggregation input")
	}
	return h, nil
}

// Cache re-derives rows only when the input changed since the previous call.
type Cache struct {
	mu     sync.Mutex
	key    uint64
	valid  bool
	rows   []domain.DisplayRow
	hits   uint64
	misses uint64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Rows returns the rows for in, recomputing them when the input hash differs
// from the last one seen. The returned slice is owned by the caller.
func (c *Cache) Rows(in Input) []domain.DisplayRow {
	key, err := in.Hash()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil && c.valid && key == c.key {
		c.hits++
		return cloneRows(c.rows)
	}

	c.misses++
	rows := Aggregate(in.Exchange, in.Wallet, in.Prices)
	c.rows = rows
	c.key = key
	c.valid = err == nil

	return cloneRows(rows)
}

// Stats returns the number of cache hits and recomputations so far.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset forgets the cached row set.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.valid = false
	c.rows = nil
	c.mu.Unlock()
}

func cloneRows(rows []domain.DisplayRow) []domain.DisplayRow {
	out := make([]domain.DisplayRow, len(rows))
	copy(out, rows)
	return out
}
