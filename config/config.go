package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Price providers.
const (
	PricerBinance     = "binance"
	PricerBybit       = "bybit"
	PricerHyperliquid = "hyperliquid"
	PricerStatic      = "static"
	PricerFile        = "file"
)

// Environment variables holding secrets.
const (
	EnvBinanceAPIKey      = "BINANCE_API_KEY"
	EnvBinanceAPISecret   = "BINANCE_API_SECRET"
	EnvHyperliquidKey     = "HYPERLIQUID_PRIVATE_KEY"
	defaultBinanceBaseURL = "https://api.binance.us"
	defaultHyperliquidURL = "https://api.hyperliquid.xyz"
)

// Token is an ERC-20 contract tracked in the wallet.
type Token struct {
	Symbol   string
	Contract common.Address
	Decimals int32
	// Price is empty when the token is priced by the price provider.
	Price string
}

type Config struct {
	BinanceBaseURL   string
	BinanceAPIKey    string
	BinanceAPISecret string

	EthereumRPCURL string
	WalletAddress  common.Address
	Tokens         []Token

	Pricer         string
	Quote          string
	Stablecoins    []string
	Prices         map[string]decimal.Decimal
	HyperliquidURL string
	HyperliquidKey string
	CacheTTL       time.Duration

	HoldingsFile    string
	RefreshInterval time.Duration
	Listen          string
	PageSize        int
}

// TokenTmp is the YAML form of Token.
type TokenTmp struct {
	Symbol   string `yaml:"symbol"`
	Contract string `yaml:"contract"`
	Decimals string `yaml:"decimals,omitempty"`
	Price    string `yaml:"price,omitempty"`
}

// ConfigTmp is the YAML form of Config. Values are kept as strings so every
// field can be validated with a message naming its key.
type ConfigTmp struct {
	BinanceBaseURL  string            `yaml:"binance_base_url,omitempty"`
	EthereumRPCURL  string            `yaml:"ethereum_rpc_url,omitempty"`
	WalletAddress   string            `yaml:"wallet_address,omitempty"`
	Tokens          []TokenTmp        `yaml:"tokens,omitempty"`
	Pricer          string            `yaml:"pricer,omitempty"`
	Quote           string            `yaml:"quote,omitempty"`
	Stablecoins     []string          `yaml:"stablecoins,omitempty"`
	Prices          map[string]string `yaml:"prices,omitempty"`
	HyperliquidURL  string            `yaml:"hyperliquid_url,omitempty"`
	CacheTTL        string            `yaml:"cache_ttl,omitempty"`
	HoldingsFile    string            `yaml:"holdings_file,omitempty"`
	RefreshInterval string            `yaml:"refresh_interval,omitempty"`
	Listen          string            `yaml:"listen,omitempty"`
	PageSize        string            `yaml:"page_size,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BinanceBaseURL:  defaultBinanceBaseURL,
		Pricer:          PricerBinance,
		Quote:           "USDT",
		Stablecoins:     []string{"USDC", "BUSD", "DAI"},
		Prices:          map[string]decimal.Decimal{},
		HyperliquidURL:  defaultHyperliquidURL,
		CacheTTL:        5 * time.Minute,
		RefreshInterval: 30 * time.Second,
		Listen:          ":8080",
		PageSize:        10,
	}
}

// Load reads the YAML file at path. An empty path yields the defaults.
// Secrets are always taken from the environment.
func Load(path string) (Config, error) {
	conf := Default()
	if path != "" {
		f, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config %s", path)
		}
		var tmp ConfigTmp
		if err := yaml.Unmarshal(f, &tmp); err != nil {
			return Config{}, errors.Wrapf(err, "failed to decode config %s", path)
		}
		conf, err = FromTmp(tmp)
		if err != nil {
			return Config{}, err
		}
	}

	conf.ApplyEnv(os.Getenv)
	return conf, nil
}

// ApplyEnv fills secrets from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBinanceAPIKey); v != "" {
		c.BinanceAPIKey = v
	}
	if v := getenv(EnvBinanceAPISecret); v != "" {
		c.BinanceAPISecret = v
	}
	if v := getenv(EnvHyperliquidKey); v != "" {
		c.HyperliquidKey = v
	}
}

// FromTmp validates tmp and converts it on top of the defaults.
func FromTmp(tmp ConfigTmp) (Config, error) {
	conf := Default()

	if tmp.BinanceBaseURL != "" {
		conf.BinanceBaseURL = tmp.BinanceBaseURL
	}
	conf.EthereumRPCURL = tmp.EthereumRPCURL

	if tmp.WalletAddress != "" {
		if !common.IsHexAddress(tmp.WalletAddress) {
			return Config{}, fmt.Errorf("incorrect 'wallet_address' param in yaml config: %s", tmp.WalletAddress)
		}
		conf.WalletAddress = common.HexToAddress(tmp.WalletAddress)
	}

	for i, t := range tmp.Tokens {
		token, err := tokenFromTmp(t)
		if err != nil {
			return Config{}, errors.Wrapf(err, "token %d", i)
		}
		conf.Tokens = append(conf.Tokens, token)
	}

	if tmp.Pricer != "" {
		conf.Pricer = strings.ToLower(strings.TrimSpace(tmp.Pricer))
	}
	switch conf.Pricer {
	case PricerBinance, PricerBybit, PricerHyperliquid, PricerStatic, PricerFile:
	default:
		return Config{}, fmt.Errorf("incorrect 'pricer' param in yaml config: %s (supported: binance, bybit, hyperliquid, static, file)", tmp.Pricer)
	}
	if conf.Pricer == PricerFile && tmp.HoldingsFile == "" {
		return Config{}, fmt.Errorf("incorrect 'pricer' param in yaml config: file pricer needs 'holdings_file'")
	}

	if tmp.Quote != "" {
		conf.Quote = strings.ToUpper(strings.TrimSpace(tmp.Quote))
	}
	if tmp.Stablecoins != nil {
		conf.Stablecoins = tmp.Stablecoins
	}

	for symbol, raw := range tmp.Prices {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'prices.%s' param in yaml config (must be a decimal), error: %w", symbol, err)
		}
		conf.Prices[strings.ToUpper(symbol)] = price
	}

	if tmp.HyperliquidURL != "" {
		conf.HyperliquidURL = tmp.HyperliquidURL
	}

	var err error
	if conf.CacheTTL, err = durationOr(tmp.CacheTTL, conf.CacheTTL, "cache_ttl"); err != nil {
		return Config{}, err
	}
	if conf.RefreshInterval, err = durationOr(tmp.RefreshInterval, conf.RefreshInterval, "refresh_interval"); err != nil {
		return Config{}, err
	}
	if conf.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("incorrect 'refresh_interval' param in yaml config: must be positive")
	}

	conf.HoldingsFile = tmp.HoldingsFile
	if tmp.Listen != "" {
		conf.Listen = tmp.Listen
	}

	if tmp.PageSize != "" {
		size, err := strconv.Atoi(tmp.PageSize)
		if err != nil || size < 1 {
			return Config{}, fmt.Errorf("incorrect 'page_size' param in yaml config (must be a positive integer): %s", tmp.PageSize)
		}
		conf.PageSize = size
	}

	return conf, nil
}

// ToTmp converts c back to its YAML form. Secrets are left out.
func (c Config) ToTmp() ConfigTmp {
	tmp := ConfigTmp{
		BinanceBaseURL:  c.BinanceBaseURL,
		EthereumRPCURL:  c.EthereumRPCURL,
		Pricer:          c.Pricer,
		Quote:           c.Quote,
		Stablecoins:     c.Stablecoins,
		HyperliquidURL:  c.HyperliquidURL,
		CacheTTL:        c.CacheTTL.String(),
		HoldingsFile:    c.HoldingsFile,
		RefreshInterval: c.RefreshInterval.String(),
		Listen:          c.Listen,
		PageSize:        strconv.Itoa(c.PageSize),
	}
	if c.WalletAddress != (common.Address{}) {
		tmp.WalletAddress = c.WalletAddress.Hex()
	}
	for _, t := range c.Tokens {
		tmp.Tokens = append(tmp.Tokens, TokenTmp{
			Symbol:   t.Symbol,
			Contract: t.Contract.Hex(),
			Decimals: strconv.Itoa(int(t.Decimals)),
			Price:    t.Price,
		})
	}
	if len(c.Prices) > 0 {
		tmp.Prices = make(map[string]string, len(c.Prices))
		for symbol, price := range c.Prices {
			tmp.Prices[symbol] = price.String()
		}
	}
	return tmp
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c.ToTmp())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate yaml")
	}
	return data, nil
}

// HasWallet reports whether an Ethereum wallet is configured.
func (c Config) HasWallet() bool {
	return c.EthereumRPCURL != "" && c.WalletAddress != (common.Address{})
}

// HasBinanceAccount reports whether Binance.US credentials are present.
func (c Config) HasBinanceAccount() bool {
	return c.BinanceAPIKey != "" && c.BinanceAPISecret != ""
}

func tokenFromTmp(t TokenTmp) (Token, error) {
	if strings.TrimSpace(t.Symbol) == "" {
		return Token{}, fmt.Errorf("incorrect 'tokens.symbol' param in yaml config: empty")
	}
	if !common.IsHexAddress(t.Contract) {
		return Token{}, fmt.Errorf("incorrect 'tokens.contract' param in yaml config: %s", t.Contract)
	}
	token := Token{
		Symbol:   strings.ToUpper(strings.TrimSpace(t.Symbol)),
		Contract: common.HexToAddress(t.Contract),
		Decimals: 18,
	}
	if t.Decimals != "" {
		d, err := strconv.ParseInt(t.Decimals, 10, 32)
		if err != nil || d < 0 || d > 77 {
			return Token{}, fmt.Errorf("incorrect 'tokens.decimals' param in yaml config (must be 0-77): %s", t.Decimals)
		}
		token.Decimals = int32(d)
	}
	if t.Price != "" {
		if _, err := decimal.NewFromString(t.Price); err != nil {
			return Token{}, fmt.Errorf("incorrect 'tokens.price' param in yaml config (must be a decimal), error: %w", err)
		}
		token.Price = t.Price
	}
	return token, nil
}

func durationOr(raw string, def time.Duration, key string) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("incorrect '%s' param in yaml config (correct format is 30s), error: %w", key, err)
	}
	return d, nil
}
