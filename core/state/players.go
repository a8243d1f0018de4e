package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"fizzdex/native/rewards"
)

func playerStorageKey(addr [20]byte) []byte {
	return storageKey(playerRecordPrefix, addr[:])
}

type storedPlayerState struct {
	TotalPlays     uint64
	FizzCount      uint32
	BuzzCount      uint32
	FizzBuzzCount  uint32
	PendingRewards uint64
	TotalClaimed   uint64
	LastPlayTime   *big.Int
}

// PlayerPut persists a player record keyed by the player address.
func (m *Manager) PlayerPut(addr [20]byte, player *rewards.PlayerState) error {
	if player == nil {
		return nil
	}
	record := &storedPlayerState{
		TotalPlays:     player.TotalPlays,
		FizzCount:      player.FizzCount,
		BuzzCount:      player.BuzzCount,
		FizzBuzzCount:  player.FizzBuzzCount,
		PendingRewards: player.PendingRewards,
		TotalClaimed:   player.TotalClaimed,
		LastPlayTime:   big.NewInt(player.LastPlayTime),
	}
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	return m.db.Put(playerStorageKey(addr), encoded)
}

// PlayerGet loads a player record.
func (m *Manager) PlayerGet(addr [20]byte) (*rewards.PlayerState, bool) {
	data, err := m.db.Get(playerStorageKey(addr))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	stored := new(storedPlayerState)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	out := &rewards.PlayerState{
		TotalPlays:     stored.TotalPlays,
		FizzCount:      stored.FizzCount,
		BuzzCount:      stored.BuzzCount,
		FizzBuzzCount:  stored.FizzBuzzCount,
		PendingRewards: stored.PendingRewards,
		TotalClaimed:   stored.TotalClaimed,
	}
	if stored.LastPlayTime != nil {
		out.LastPlayTime = stored.LastPlayTime.Int64()
	}
	return out, true
}
