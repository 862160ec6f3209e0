package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `binance_base_url: http://localhost:9999
ethereum_rpc_url: https://rpc.example.org
wallet_address: "0x00000000000000000000000000000000000000aa"
tokens:
  - symbol: usdc
    contract: "0x00000000000000000000000000000000000000b1"
    decimals: "6"
    price: "1"
  - symbol: LINK
    contract: "0x00000000000000000000000000000000000000b2"
pricer: Bybit
quote: usdt
stablecoins: [USDC]
prices:
  btc: "50000"
cache_ttl: 1m
refresh_interval: 10s
listen: 127.0.0.1:9090
page_size: "25"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvBinanceAPIKey, "key")
	t.Setenv(EnvBinanceAPISecret, "secret")

	conf, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", conf.BinanceBaseURL)
	assert.Equal(t, "key", conf.BinanceAPIKey)
	assert.Equal(t, "secret", conf.BinanceAPISecret)
	assert.True(t, conf.HasBinanceAccount())
	assert.True(t, conf.HasWallet())
	assert.Equal(t, common.HexToAddress("0xaa"), conf.WalletAddress)
	require.Len(t, conf.Tokens, 2)
	assert.Equal(t, Token{Symbol: "USDC", Contract: common.HexToAddress("0xb1"), Decimals: 6, Price: "1"}, conf.Tokens[0])
	assert.Equal(t, int32(18), conf.Tokens[1].Decimals)
	assert.Equal(t, PricerBybit, conf.Pricer)
	assert.Equal(t, "USDT", conf.Quote)
	assert.Equal(t, []string{"USDC"}, conf.Stablecoins)
	assert.Equal(t, "50000", conf.Prices["BTC"].String())
	assert.Equal(t, time.Minute, conf.CacheTTL)
	assert.Equal(t, 10*time.Second, conf.RefreshInterval)
	assert.Equal(t, "127.0.0.1:9090", conf.Listen)
	assert.Equal(t, 25, conf.PageSize)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvBinanceAPIKey, "")
	t.Setenv(EnvBinanceAPISecret, "")

	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultBinanceBaseURL, conf.BinanceBaseURL)
	assert.Equal(t, PricerBinance, conf.Pricer)
	assert.Equal(t, 10, conf.PageSize)
	assert.Equal(t, 30*time.Second, conf.RefreshInterval)
	assert.False(t, conf.HasBinanceAccount())
	assert.False(t, conf.HasWallet())
}

func TestFromTmp_Errors(t *testing.T) {
	tests := []struct {
		name string
		tmp  ConfigTmp
		key  string
	}{
		{"bad wallet", ConfigTmp{WalletAddress: "nope"}, "'wallet_address'"},
		{"bad pricer", ConfigTmp{Pricer: "kraken"}, "'pricer'"},
		{"file pricer without file", ConfigTmp{Pricer: "file"}, "'holdings_file'"},
		{"bad price", ConfigTmp{Prices: map[string]string{"BTC": "lots"}}, "'prices.BTC'"},
		{"bad ttl", ConfigTmp{CacheTTL: "soon"}, "'cache_ttl'"},
		{"bad interval", ConfigTmp{RefreshInterval: "often"}, "'refresh_interval'"},
		{"zero interval", ConfigTmp{RefreshInterval: "0s"}, "'refresh_interval'"},
		{"bad page size", ConfigTmp{PageSize: "-1"}, "'page_size'"},
		{"token without symbol", ConfigTmp{Tokens: []TokenTmp{{Contract: "0x00000000000000000000000000000000000000b1"}}}, "'tokens.symbol'"},
		{"token bad contract", ConfigTmp{Tokens: []TokenTmp{{Symbol: "X", Contract: "0x1"}}}, "'tokens.contract'"},
		{"token bad decimals", ConfigTmp{Tokens: []TokenTmp{{Symbol: "X", Contract: "0x00000000000000000000000000000000000000b1", Decimals: "99"}}}, "'tokens.decimals'"},
		{"token bad price", ConfigTmp{Tokens: []TokenTmp{{Symbol: "X", Contract: "0x00000000000000000000000000000000000000b1", Price: "?"}}}, "'tokens.price'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTmp(tt.tmp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "pricer: [binance"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	conf, err := FromTmp(ConfigTmp{
		WalletAddress:  "0x00000000000000000000000000000000000000aa",
		EthereumRPCURL: "https://rpc.example.org",
		Tokens:         []TokenTmp{{Symbol: "USDC", Contract: "0x00000000000000000000000000000000000000b1", Decimals: "6"}},
		Prices:         map[string]string{"BTC": "50000"},
	})
	require.NoError(t, err)
	conf.BinanceAPIKey = "secret-key"

	data, err := conf.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-key")

	back, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, conf.WalletAddress, back.WalletAddress)
	assert.Equal(t, conf.Tokens, back.Tokens)
	assert.Equal(t, conf.Prices["BTC"].String(), back.Prices["BTC"].String())
	assert.Equal(t, conf.RefreshInterval, back.RefreshInterval)
}

func TestOverrides(t *testing.T) {
	t.Run("flags win over file", func(t *testing.T) {
		var o Overrides
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		o.Bind(fs)
		require.NoError(t, fs.Parse([]string{
			"-config", writeConfig(t, sampleYAML),
			"-pricer", "STATIC",
			"-listen", ":1234",
			"-interval", "1m",
			"-pagesize", "5",
		}))

		conf, err := o.Load()
		require.NoError(t, err)
		assert.Equal(t, PricerStatic, conf.Pricer)
		assert.Equal(t, ":1234", conf.Listen)
		assert.Equal(t, time.Minute, conf.RefreshInterval)
		assert.Equal(t, 5, conf.PageSize)
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []Overrides{
			{Pricer: "kraken"},
			{Pricer: "file"},
			{Interval: -time.Second},
			{PageSize: -1},
		}
		for _, o := range tests {
			conf := Default()
			assert.Error(t, o.Apply(&conf))
		}
	})

	t.Run("file pricer with holdings", func(t *testing.T) {
		conf := Default()
		require.NoError(t, Overrides{Pricer: "file", HoldingsFile: "h.yaml"}.Apply(&conf))
		assert.Equal(t, PricerFile, conf.Pricer)
		assert.Equal(t, "h.yaml", conf.HoldingsFile)
	})
}
