package clients

import (
	"context"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	hyperliquid "github.com/sonirico/go-hyperliquid"
)

// NewHyperliquidInfo returns the public Info API of Hyperliquid. Price reads
// need no account, so an ephemeral key is generated when privateKeyHex is empty.
func NewHyperliquidInfo(ctx context.Context, privateKeyHex string, baseURL string) (*hyperliquid.Info, error) {
	var (
		privateKey *ecdsa.PrivateKey
		err        error
	)
	if privateKeyHex == "" {
		privateKey, err = crypto.GenerateKey()
	} else {
		privateKey, err = crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(privateKeyHex, "0x"), "0X"))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load hyperliquid key")
	}

	pub, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("error casting public key to ECDSA")
	}
	accountAddr := crypto.PubkeyToAddress(*pub).Hex()

	// Info and SpotMeta are fetched lazily by the SDK
	ex := hyperliquid.NewExchange(
		ctx,
		privateKey,
		baseURL,
		nil,
		"",
		accountAddr,
		nil,
	)

	return ex.Info(), nil
}
