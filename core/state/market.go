package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"fizzdex/native/market"
)

func marketStorageKey() []byte {
	return storageKey(marketStateKeyBytes)
}

type storedMarketState struct {
	Authority    [20]byte
	RewardAsset  string
	FeeBps       uint32
	TotalVolume  *big.Int
	TotalPlayers uint64
	Paused       bool
}

func newStoredMarketState(m *market.MarketState) *storedMarketState {
	if m == nil {
		return nil
	}
	volume := big.NewInt(0)
	if m.TotalVolume != nil {
		volume = new(big.Int).Set(m.TotalVolume)
	}
	return &storedMarketState{
		Authority:    m.Authority,
		RewardAsset:  m.RewardAsset,
		FeeBps:       m.FeeBps,
		TotalVolume:  volume,
		TotalPlayers: m.TotalPlayers,
		Paused:       m.Paused,
	}
}

func (s *storedMarketState) toMarketState() (*market.MarketState, error) {
	if s == nil {
		return nil, fmt.Errorf("market: nil storage record")
	}
	out := &market.MarketState{
		Authority:    s.Authority,
		RewardAsset:  s.RewardAsset,
		FeeBps:       s.FeeBps,
		TotalVolume:  big.NewInt(0),
		TotalPlayers: s.TotalPlayers,
		Paused:       s.Paused,
	}
	if s.TotalVolume != nil {
		out.TotalVolume = new(big.Int).Set(s.TotalVolume)
	}
	return out, nil
}

// MarketPut persists the global market singleton.
func (m *Manager) MarketPut(state *market.MarketState) error {
	sanitized, err := market.SanitizeMarketState(state)
	if err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(newStoredMarketState(sanitized))
	if err != nil {
		return err
	}
	return m.db.Put(marketStorageKey(), encoded)
}

// MarketGet loads the global market singleton.
func (m *Manager) MarketGet() (*market.MarketState, bool) {
	data, err := m.db.Get(marketStorageKey())
	if err != nil || len(data) == 0 {
		return nil, false
	}
	stored := new(storedMarketState)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	state, err := stored.toMarketState()
	if err != nil {
		return nil, false
	}
	return state, true
}
