package rewards

import (
	"errors"

	"fizzdex/crypto"
)

// Reward tiers, denominated in the reward asset's base units (9 decimals).
const (
	FizzReward     uint64 = 10_000_000_000
	BuzzReward     uint64 = 15_000_000_000
	FizzBuzzReward uint64 = 50_000_000_000

	// PlayCooldown is the minimum number of seconds between two plays by the
	// same player.
	PlayCooldown int64 = 60
)

var (
	ErrInvalidNumber  = errors.New("rewards: number must be between 1 and 100")
	ErrCooldownActive = errors.New("rewards: cooldown still active")
	ErrNoRewards      = errors.New("rewards: nothing to claim")
	ErrPlayerNotFound = errors.New("rewards: player not found")
	ErrOverflow       = errors.New("rewards: arithmetic overflow")
)

// PlayerState tracks one player's game history and unclaimed balance. It is
// lazily created on first play.
type PlayerState struct {
	TotalPlays     uint64
	FizzCount      uint32
	BuzzCount      uint32
	FizzBuzzCount  uint32
	PendingRewards uint64
	TotalClaimed   uint64
	LastPlayTime   int64
}

// Clone returns a copy of the player record.
func (p *PlayerState) Clone() *PlayerState {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Tier names reported in events and query responses.
const (
	TierNone     = "none"
	TierFizz     = "fizz"
	TierBuzz     = "buzz"
	TierFizzBuzz = "fizzbuzz"
)

// RewardVault is the derived address funding reward claims. Operators top it
// up with the reward asset out of band.
func RewardVault() [20]byte {
	return crypto.DeriveAddress([]byte("rewards/vault"))
}
