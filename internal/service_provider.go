package internal

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/config"
	"github.com/smilewilson1999/Eggregator/internal/clients"
	"github.com/smilewilson1999/Eggregator/internal/services/pricer"
	"github.com/smilewilson1999/Eggregator/internal/services/sources"
)

// newPriceProvider creates the price provider named by conf.Pricer.
// This is the single point of truth for dispatching to platform-specific pricers.
// Live providers are wrapped in a cache that serves the last good price.
func newPriceProvider(ctx context.Context, conf config.Config, logger *zap.Logger) (pricer.Pricer, error) {
	par := pricer.NewPar(conf.Quote, conf.Stablecoins...)
	logger = logger.With(zap.String("pricer", conf.Pricer))

	var live pricer.Pricer
	switch conf.Pricer {
	case config.PricerBinance:
		client := clients.NewBinanceClient("", "", conf.BinanceBaseURL)
		live = pricer.NewPairPricer(pricer.NewBinancePricer(client), conf.Quote, par, logger)
	case config.PricerBybit:
		client := clients.NewBybitClient("", "")
		live = pricer.NewPairPricer(pricer.NewBybitPricer(client), conf.Quote, par, logger)
	case config.PricerHyperliquid:
		info, err := clients.NewHyperliquidInfo(ctx, conf.HyperliquidKey, conf.HyperliquidURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create hyperliquid client")
		}
		live = pricer.NewHyperliquidPricer(info, par)
	case config.PricerStatic:
		return pricer.NewStaticPricer(conf.Prices), nil
	case config.PricerFile:
		return sources.NewFileSource(conf.HoldingsFile), nil
	default:
		return nil, fmt.Errorf("unsupported price provider: %s", conf.Pricer)
	}

	return pricer.NewCachedPricer(live,
		pricer.WithTTL(conf.CacheTTL),
		pricer.WithLogger(logger),
	), nil
}
