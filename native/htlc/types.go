package htlc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"fizzdex/crypto"
	"fizzdex/native/market"
)

var (
	ErrNotFound           = errors.New("htlc: swap not found")
	ErrSwapExists         = errors.New("htlc: swap already exists")
	ErrInvalidAmount      = errors.New("htlc: amount must be positive")
	ErrInvalidTimelock    = errors.New("htlc: timelock must be in the future")
	ErrInvalidSecret      = errors.New("htlc: invalid secret")
	ErrUnauthorized       = errors.New("htlc: unauthorized")
	ErrAlreadyCompleted   = errors.New("htlc: swap already completed")
	ErrAlreadyRefunded    = errors.New("htlc: swap already refunded")
	ErrTimelockNotExpired = errors.New("htlc: timelock not expired")
)

var (
	swapIDSeed = []byte("htlc/swap/")
	escrowSeed = []byte("htlc/vault/")
)

// AtomicSwap is one hash-time-locked escrow. The record is terminal-mutated
// exactly once by either Complete or Refund and is never deleted, leaving an
// append-only audit trail.
type AtomicSwap struct {
	ID          [32]byte
	Initiator   [20]byte
	Participant [20]byte
	Asset       string
	EscrowVault [20]byte
	Amount      uint64
	SecretHash  [32]byte
	Timelock    int64
	Completed   bool
	Refunded    bool
}

// Clone returns a copy of the swap record.
func (s *AtomicSwap) Clone() *AtomicSwap {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// Terminal reports whether the swap has reached one of its two mutually
// exclusive end states.
func (s *AtomicSwap) Terminal() bool {
	return s.Completed || s.Refunded
}

// SanitizeAtomicSwap validates a swap record without mutating the original.
func SanitizeAtomicSwap(s *AtomicSwap) (*AtomicSwap, error) {
	if s == nil {
		return nil, fmt.Errorf("nil atomic swap")
	}
	clone := s.Clone()
	asset, err := market.NormalizeAsset(clone.Asset)
	if err != nil {
		return nil, err
	}
	clone.Asset = asset
	if clone.Completed && clone.Refunded {
		return nil, fmt.Errorf("htlc: completed and refunded are mutually exclusive")
	}
	if clone.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	return clone, nil
}

func tupleSeed(tag []byte, initiator, participant [20]byte, asset string, timelock int64) [][]byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timelock))
	return [][]byte{tag, initiator[:], participant[:], []byte(asset), ts[:]}
}

// SwapID derives the deterministic identifier for the
// (initiator, participant, asset, timelock) tuple. The tuple acts as an
// implicit nonce: a second initiate with the same four values collides.
func SwapID(initiator, participant [20]byte, asset string, timelock int64) [32]byte {
	return crypto.Keccak256(tupleSeed(swapIDSeed, initiator, participant, asset, timelock)...)
}

// EscrowVaultAddress derives the escrow holding for the same tuple under a
// distinct tag, keeping the record key and the vault address disjoint.
func EscrowVaultAddress(initiator, participant [20]byte, asset string, timelock int64) [20]byte {
	return crypto.DeriveAddress(tupleSeed(escrowSeed, initiator, participant, asset, timelock)...)
}
