package state

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/ethereum/go-ethereum/rlp"

	"fizzdex/storage"
)

var (
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	ErrBalanceOverflow     = errors.New("state: balance overflow")
	ErrMintUnauthorized    = errors.New("state: mint unauthorized")
)

// TokenMetadata records the mint authority for an asset. Assets are
// registered on first mint or explicitly (liquidity tokens are registered by
// the pool engine under the pool's derived authority).
type TokenMetadata struct {
	Symbol        string
	MintAuthority [20]byte
}

func tokenMetaKey(asset string) []byte {
	return storageKey(tokenMetaPrefix, []byte(asset))
}

func balanceKey(asset string, addr [20]byte) []byte {
	return storageKey(tokenBalancePrefix, []byte(asset), []byte(":"), addr[:])
}

func (m *Manager) tokenGet(asset string) (*TokenMetadata, bool) {
	data, err := m.db.Get(tokenMetaKey(asset))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	meta := new(TokenMetadata)
	if err := rlp.DecodeBytes(data, meta); err != nil {
		return nil, false
	}
	return meta, true
}

// TokenRegister records the mint authority for an asset. Registering the
// same asset twice is idempotent when the authority matches and an error
// otherwise.
func (m *Manager) TokenRegister(symbol string, authority [20]byte) error {
	if existing, ok := m.tokenGet(symbol); ok {
		if existing.MintAuthority != authority {
			return fmt.Errorf("state: token %s already registered to a different authority", symbol)
		}
		return nil
	}
	encoded, err := rlp.EncodeToBytes(&TokenMetadata{Symbol: symbol, MintAuthority: authority})
	if err != nil {
		return err
	}
	return m.db.Put(tokenMetaKey(symbol), encoded)
}

// Balance returns the ledger balance of addr in asset. Unknown accounts hold
// zero.
func (m *Manager) Balance(asset string, addr [20]byte) (uint64, error) {
	data, err := m.db.Get(balanceKey(asset, addr))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var balance uint64
	if err := rlp.DecodeBytes(data, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (m *Manager) setBalance(asset string, addr [20]byte, balance uint64) error {
	encoded, err := rlp.EncodeToBytes(balance)
	if err != nil {
		return err
	}
	return m.db.Put(balanceKey(asset, addr), encoded)
}

// Transfer moves amount of asset between two accounts. It either fully
// applies or fails with no effect.
func (m *Manager) Transfer(asset string, from, to [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if from == to {
		return nil
	}
	fromBalance, err := m.Balance(asset, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientBalance
	}
	toBalance, err := m.Balance(asset, to)
	if err != nil {
		return err
	}
	newTo, carry := bits.Add64(toBalance, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	if err := m.setBalance(asset, from, fromBalance-amount); err != nil {
		return err
	}
	if err := m.setBalance(asset, to, newTo); err != nil {
		_ = m.setBalance(asset, from, fromBalance)
		return err
	}
	return nil
}

// Mint creates amount of asset in to's account. The caller must present the
// asset's registered mint authority; an unregistered asset is registered to
// the presented authority on first mint.
func (m *Manager) Mint(asset string, to [20]byte, amount uint64, authority [20]byte) error {
	meta, ok := m.tokenGet(asset)
	if !ok {
		if err := m.TokenRegister(asset, authority); err != nil {
			return err
		}
	} else if meta.MintAuthority != authority {
		return ErrMintUnauthorized
	}
	if amount == 0 {
		return nil
	}
	balance, err := m.Balance(asset, to)
	if err != nil {
		return err
	}
	updated, carry := bits.Add64(balance, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	return m.setBalance(asset, to, updated)
}

// Burn destroys amount of asset held by from.
func (m *Manager) Burn(asset string, from [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := m.Balance(asset, from)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}
	return m.setBalance(asset, from, balance-amount)
}
