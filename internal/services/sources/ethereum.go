package sources

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/internal/domain"
	"github.com/smilewilson1999/Eggregator/internal/services/pricer"
	"github.com/smilewilson1999/Eggregator/pkg/retrier"
)

const (
	// NativeSymbol is the symbol reported for the account's ether balance.
	NativeSymbol   = "ETH"
	nativeDecimals = 18
)

const erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// chainReader is the part of ethclient.Client used to read balances.
type chainReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Token is an ERC-20 contract tracked in the wallet.
type Token struct {
	Symbol   string
	Contract common.Address
	Decimals int32
	// Price overrides the pricer when set.
	Price string
}

// EthereumSource reads the ether and ERC-20 balances of one address.
type EthereumSource struct {
	client  chainReader
	owner   common.Address
	tokens  []Token
	pricer  pricer.Pricer
	retrier *retrier.Retrier
	logger  *zap.Logger
	erc20   abi.ABI
}

// EthereumOption configures an EthereumSource.
type EthereumOption func(*EthereumSource)

// WithTokenPricer prices tokens that carry no configured price.
func WithTokenPricer(p pricer.Pricer) EthereumOption {
	return func(s *EthereumSource) {
		s.pricer = p
	}
}

// WithChainRetrier sets the backoff used for RPC calls.
func WithChainRetrier(r *retrier.Retrier) EthereumOption {
	return func(s *EthereumSource) {
		s.retrier = r
	}
}

// WithEthereumLogger sets the logger.
func WithEthereumLogger(l *zap.Logger) EthereumOption {
	return func(s *EthereumSource) {
		s.logger = l
	}
}

func NewEthereumSource(client chainReader, owner common.Address, tokens []Token, opts ...EthereumOption) (*EthereumSource, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20BalanceOfABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse erc20 abi")
	}

	s := &EthereumSource{
		client:  client,
		owner:   owner,
		tokens:  tokens,
		retrier: retrier.New(),
		logger:  zap.NewNop(),
		erc20:   parsed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WalletHoldings returns the ether balance first, then every token in
// configuration order.
func (s *EthereumSource) WalletHoldings(ctx context.Context) ([]domain.WalletHolding, error) {
	if s.client == nil {
		return nil, errors.Wrap(ErrNotConfigured, "ethereum client is nil")
	}

	wei, err := retrier.DoWithData(ctx, s.retrier, func(ctx context.Context) (*big.Int, error) {
		return s.client.BalanceAt(ctx, s.owner, nil)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ether balance of %s", s.owner.Hex())
	}

	holdings := make([]domain.WalletHolding, 0, len(s.tokens)+1)
	holdings = append(holdings, domain.WalletHolding{
		Symbol: NativeSymbol,
		Amount: scale(wei, nativeDecimals),
	})
	static := map[string]string{}

	for _, token := range s.tokens {
		raw, err := s.tokenBalance(ctx, token.Contract)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get %s balance", token.Symbol)
		}
		symbol := domain.NormalizeSymbol(token.Symbol)
		holdings = append(holdings, domain.WalletHolding{
			Symbol: symbol,
			Amount: scale(raw, token.Decimals),
		})
		if token.Price != "" {
			static[symbol] = token.Price
		}
	}

	prices := s.price(ctx, holdings, static)
	for i := range holdings {
		holdings[i].TokenPrice = "0"
		if p, ok := static[holdings[i].Symbol]; ok {
			holdings[i].TokenPrice = p
			continue
		}
		if p, ok := prices[holdings[i].Symbol]; ok {
			holdings[i].TokenPrice = p.String()
		}
	}
	return holdings, nil
}

func (s *EthereumSource) tokenBalance(ctx context.Context, contract common.Address) (*big.Int, error) {
	data, err := s.erc20.Pack("balanceOf", s.owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack balanceOf")
	}

	out, err := retrier.DoWithData(ctx, s.retrier, func(ctx context.Context) ([]byte, error) {
		return s.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	})
	if err != nil {
		return nil, err
	}

	values, err := s.erc20.Unpack("balanceOf", out)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack balanceOf")
	}
	if len(values) != 1 {
		return nil, errors.Errorf("balanceOf returned %d values", len(values))
	}
	raw, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("balanceOf returned %T", values[0])
	}
	return raw, nil
}

// price asks the pricer for every held symbol without a static price.
// A failing pricer leaves the symbols unpriced.
func (s *EthereumSource) price(ctx context.Context, holdings []domain.WalletHolding, static map[string]string) domain.Prices {
	if s.pricer == nil {
		return nil
	}
	var symbols []string
	for _, h := range holdings {
		if _, ok := static[h.Symbol]; ok || !h.Eligible() {
			continue
		}
		symbols = append(symbols, h.Symbol)
	}
	if len(symbols) == 0 {
		return nil
	}

	prices, err := s.pricer.GetPrices(ctx, symbols)
	if err != nil {
		s.logger.Warn("failed to price wallet tokens", zap.Strings("symbols", symbols), zap.Error(err))
		return nil
	}
	return prices
}

func scale(raw *big.Int, decimals int32) string {
	if raw == nil {
		return "0"
	}
	return decimal.NewFromBigInt(raw, -decimals).String()
}
