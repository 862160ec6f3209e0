package config

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// Overrides holds command line values that take precedence over the file.
type Overrides struct {
	Path         string
	Pricer       string
	HoldingsFile string
	Listen       string
	Interval     time.Duration
	PageSize     int
}

// Bind registers the override flags on fs.
func (o *Overrides) Bind(fs *flag.FlagSet) {
	fs.StringVar(&o.Path, "config", "", "path to yaml config")
	fs.StringVar(&o.Pricer, "pricer", "", "price provider: binance, bybit, hyperliquid, static or file")
	fs.StringVar(&o.HoldingsFile, "holdings", "", "path to a yaml holdings file used instead of live sources")
	fs.StringVar(&o.Listen, "listen", "", "http listen address, example: :8080")
	fs.DurationVar(&o.Interval, "interval", 0, "refresh interval, example: 30s")
	fs.IntVar(&o.PageSize, "pagesize", 0, "rows per page")
}

// Load reads the config file named by the flags and applies the overrides.
func (o Overrides) Load() (Config, error) {
	conf, err := Load(o.Path)
	if err != nil {
		return Config{}, err
	}
	if err := o.Apply(&conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Apply writes the set overrides into conf.
func (o Overrides) Apply(conf *Config) error {
	if o.HoldingsFile != "" {
		conf.HoldingsFile = o.HoldingsFile
	}
	if o.Pricer != "" {
		switch p := strings.ToLower(o.Pricer); p {
		case PricerBinance, PricerBybit, PricerHyperliquid, PricerStatic, PricerFile:
			conf.Pricer = p
		default:
			return fmt.Errorf("invalid --pricer provided, --pricer=%s", o.Pricer)
		}
	}
	if conf.Pricer == PricerFile && conf.HoldingsFile == "" {
		return fmt.Errorf("invalid --pricer provided, file pricer needs --holdings")
	}
	if o.Listen != "" {
		conf.Listen = o.Listen
	}
	if o.Interval < 0 {
		return fmt.Errorf("invalid --interval provided, --interval=%s", o.Interval)
	}
	if o.Interval > 0 {
		conf.RefreshInterval = o.Interval
	}
	if o.PageSize < 0 {
		return fmt.Errorf("invalid --pagesize provided, --pagesize=%d", o.PageSize)
	}
	if o.PageSize > 0 {
		conf.PageSize = o.PageSize
	}
	return nil
}
