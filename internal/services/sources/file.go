package sources

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// HoldingsFile is the YAML layout read by FileSource.
type HoldingsFile struct {
	Exchange []domain.ExchangeHolding `yaml:"exchange"`
	Wallet   []domain.WalletHolding   `yaml:"wallet"`
	Prices   map[string]string        `yaml:"prices"`
}

// FileSource serves holdings and prices from a YAML file. The file is read on
// every call so edits show up on the next refresh.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) load() (*HoldingsFile, error) {
	if s.path == "" {
		return nil, errors.Wrap(ErrNotConfigured, "holdings file path is empty")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read holdings file %s", s.path)
	}
	var f HoldingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to decode holdings file %s", s.path)
	}
	return &f, nil
}

func (s *FileSource) ExchangeHoldings(context.Context) ([]domain.ExchangeHolding, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Exchange, nil
}

func (s *FileSource) WalletHoldings(context.Context) ([]domain.WalletHolding, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Wallet, nil
}

// GetPrices returns the file's prices for assets, so the file doubles as a pricer.
func (s *FileSource) GetPrices(_ context.Context, assets []string) (domain.Prices, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	table := make(domain.Prices, len(f.Prices))
	for symbol, raw := range f.Prices {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "incorrect price %q for %s", raw, symbol)
		}
		table.Set(symbol, price)
	}

	out := make(domain.Prices, len(assets))
	for _, asset := range assets {
		symbol := domain.NormalizeSymbol(asset)
		if price, ok := table[symbol]; ok {
			out[symbol] = price
		}
	}
	return out, nil
}
