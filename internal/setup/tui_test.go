package setup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilewilson1999/Eggregator/config"
)

func TestValidators(t *testing.T) {
	file := filepath.Join(t.TempDir(), "holdings.yaml")
	require.NoError(t, os.WriteFile(file, []byte("exchange: []\n"), 0o644))

	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"empty address skips wallet", validateAddress, "", false},
		{"valid address", validateAddress, "0x00000000219ab540356cBB839Cbe05303d7705Fa", false},
		{"bad address", validateAddress, "0x123", true},
		{"https url", validateURL, "https://eth.llamarpc.com", false},
		{"ws url", validateURL, "wss://example.org/ws", false},
		{"relative url", validateURL, "localhost", true},
		{"ftp url", validateURL, "ftp://example.org", true},
		{"existing file", validateFile, file, false},
		{"missing file", validateFile, filepath.Join(t.TempDir(), "none.yaml"), true},
		{"directory", validateFile, t.TempDir(), true},
		{"symbol", validateSymbol, "USDT", false},
		{"empty symbol", validateSymbol, " ", true},
		{"symbol with pair separator", validateSymbol, "BTC_USDT", true},
		{"interval", validateInterval, "1m", false},
		{"zero interval", validateInterval, "0s", true},
		{"bad interval", validateInterval, "soon", true},
		{"page size", validatePageSize, "25", false},
		{"zero page size", validatePageSize, "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswersConfig(t *testing.T) {
	t.Run("live with wallet", func(t *testing.T) {
		a := defaultAnswers()
		a.WalletAddress = "0x00000000219ab540356cBB839Cbe05303d7705Fa"
		a.RefreshInterval = "1m"
		a.PageSize = "20"

		conf, err := a.config()
		require.NoError(t, err)
		assert.True(t, conf.HasWallet())
		assert.Equal(t, common.HexToAddress(a.WalletAddress), conf.WalletAddress)
		assert.Equal(t, time.Minute, conf.RefreshInterval)
		assert.Equal(t, 20, conf.PageSize)
		assert.Empty(t, conf.HoldingsFile)
	})

	t.Run("live without wallet drops rpc", func(t *testing.T) {
		conf, err := defaultAnswers().config()
		require.NoError(t, err)
		assert.False(t, conf.HasWallet())
		assert.Empty(t, conf.EthereumRPCURL)
	})

	t.Run("file source", func(t *testing.T) {
		a := defaultAnswers()
		a.Source = sourceFile
		a.HoldingsFile = "holdings.yaml"
		a.Pricer = config.PricerFile
		a.WalletAddress = "0x00000000219ab540356cBB839Cbe05303d7705Fa"

		conf, err := a.config()
		require.NoError(t, err)
		assert.Equal(t, "holdings.yaml", conf.HoldingsFile)
		assert.Equal(t, config.PricerFile, conf.Pricer)
		assert.False(t, conf.HasWallet())
	})

	t.Run("file pricer without file", func(t *testing.T) {
		a := defaultAnswers()
		a.Pricer = config.PricerFile
		_, err := a.config()
		assert.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	conf := config.Default()
	conf.PageSize = 25

	require.NoError(t, Save(path, conf))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.PageSize)
	assert.Equal(t, conf.Pricer, loaded.Pricer)
	assert.Equal(t, conf.RefreshInterval, loaded.RefreshInterval)
}

func TestSummary(t *testing.T) {
	a := defaultAnswers()
	a.WalletAddress = "0xabc"
	s := a.summary()
	assert.Contains(t, s, "Binance.US + Ethereum 0xabc")
	assert.Contains(t, s, "Prices: binance (USDT)")
}
