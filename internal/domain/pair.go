// Package domain defines the holdings, prices and display rows the portfolio table is built from.
package domain

import (
	"fmt"
	"strings"
)

// Pair cryptocurrency market pair used to quote an asset.
type Pair struct {
	// From base currency symbol.
	From string
	// To quote currency symbol.
	To string
}

// NewPair builds an upper-cased pair.
func NewPair(from, to string) Pair {
	return Pair{From: NormalizeSymbol(from), To: NormalizeSymbol(to)}
}

// String returns the string representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated symbol representation.
func (p Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}

// NormalizeSymbol trims and upper-cases an asset symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
