package internal

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/config"
	"github.com/smilewilson1999/Eggregator/internal/clients"
	"github.com/smilewilson1999/Eggregator/internal/events"
	"github.com/smilewilson1999/Eggregator/internal/services/portfolio"
	"github.com/smilewilson1999/Eggregator/internal/services/sources"
)

// Portfolio bundles the refresh service with the broadcaster it publishes to.
type Portfolio struct {
	Service     *portfolio.Service
	Broadcaster *events.SnapshotBroadcaster

	eth *ethclient.Client
}

// NewPortfolio wires sources and the price provider described by conf.
// A holdings file replaces both live sources.
func NewPortfolio(ctx context.Context, conf config.Config, logger *zap.Logger) (*Portfolio, error) {
	prices, err := newPriceProvider(ctx, conf, logger)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{Broadcaster: events.NewSnapshotBroadcaster(16)}

	var (
		exchange sources.ExchangeSource = sources.Empty{}
		wallet   sources.WalletSource   = sources.Empty{}
	)

	switch {
	case conf.HoldingsFile != "":
		file := sources.NewFileSource(conf.HoldingsFile)
		exchange, wallet = file, file
		logger.Info("Using holdings file", zap.String("path", conf.HoldingsFile))
	default:
		if conf.HasBinanceAccount() {
			client := clients.NewBinanceClient(conf.BinanceAPIKey, conf.BinanceAPISecret, conf.BinanceBaseURL)
			exchange = sources.NewBinanceSource(client, nil)
		} else {
			logger.Info("Binance.US credentials not set, exchange holdings disabled")
		}

		if conf.HasWallet() {
			p.eth, err = clients.DialEthereum(ctx, conf.EthereumRPCURL)
			if err != nil {
				return nil, err
			}
			wallet, err = sources.NewEthereumSource(p.eth, conf.WalletAddress, walletTokens(conf.Tokens),
				sources.WithTokenPricer(prices),
				sources.WithEthereumLogger(logger.With(zap.String("source", "ethereum"))),
			)
			if err != nil {
				p.Close()
				return nil, errors.Wrap(err, "failed to create ethereum source")
			}
		} else {
			logger.Info("Ethereum wallet not configured, wallet holdings disabled")
		}
	}

	p.Service = portfolio.NewService(exchange, wallet, prices,
		portfolio.WithInterval(conf.RefreshInterval),
		portfolio.WithPublisher(p.Broadcaster),
		portfolio.WithLogger(logger.With(zap.String("component", "portfolio"))),
	)
	return p, nil
}

// Close releases network clients.
func (p *Portfolio) Close() {
	if p.eth != nil {
		p.eth.Close()
		p.eth = nil
	}
}

func walletTokens(tokens []config.Token) []sources.Token {
	out := make([]sources.Token, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, sources.Token{
			Symbol:   t.Symbol,
			Contract: t.Contract,
			Decimals: t.Decimals,
			Price:    t.Price,
		})
	}
	return out
}
