package market

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// MaxFeeBps caps the protocol swap fee at 5%.
const MaxFeeBps uint32 = 500

var (
	ErrNotInitialized     = errors.New("market: not initialized")
	ErrAlreadyInitialized = errors.New("market: already initialized")
	ErrFeeTooHigh         = errors.New("market: fee too high")
	ErrUnauthorized       = errors.New("market: unauthorized")
	ErrInvalidAsset       = errors.New("market: invalid asset symbol")
)

// MarketState is the global singleton gating the AMM engine. The pause flag
// and fee rate are read by every pool operation; the volume counter is
// written by the pool engine after each swap.
type MarketState struct {
	Authority    [20]byte
	RewardAsset  string
	FeeBps       uint32
	TotalVolume  *big.Int
	TotalPlayers uint64
	Paused       bool
}

// Clone returns a deep copy so callers can mutate the copy without affecting
// the stored instance.
func (m *MarketState) Clone() *MarketState {
	if m == nil {
		return nil
	}
	clone := *m
	if m.TotalVolume != nil {
		clone.TotalVolume = new(big.Int).Set(m.TotalVolume)
	} else {
		clone.TotalVolume = big.NewInt(0)
	}
	return &clone
}

// SanitizeMarketState validates and normalises a market state record without
// mutating the original value.
func SanitizeMarketState(m *MarketState) (*MarketState, error) {
	if m == nil {
		return nil, fmt.Errorf("nil market state")
	}
	clone := m.Clone()
	asset, err := NormalizeAsset(clone.RewardAsset)
	if err != nil {
		return nil, err
	}
	clone.RewardAsset = asset
	if clone.FeeBps > MaxFeeBps {
		return nil, ErrFeeTooHigh
	}
	if clone.TotalVolume.Sign() < 0 {
		return nil, fmt.Errorf("market: negative volume counter")
	}
	return clone, nil
}

// NormalizeAsset ensures the supplied asset symbol is non-empty, at most 16
// characters, drawn from [A-Z0-9/], and returns the canonical uppercase form.
// The '/' separator is reserved for derived liquidity-token identifiers.
func NormalizeAsset(symbol string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	if trimmed == "" || len(trimmed) > 16 {
		return "", ErrInvalidAsset
	}
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '/':
		default:
			return "", ErrInvalidAsset
		}
	}
	return trimmed, nil
}
