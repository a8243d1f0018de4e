package events

import (
	"strconv"

	"fizzdex/core/types"
	"fizzdex/crypto"
)

const (
	// TypeMarketInitialized is emitted once at deployment.
	TypeMarketInitialized = "market.initialized"
	// TypeMarketPauseSet is emitted when the administrator toggles the pause
	// flag.
	TypeMarketPauseSet = "market.pause_set"
)

type MarketInitialized struct {
	Authority   [20]byte
	RewardAsset string
	FeeBps      uint32
}

func (MarketInitialized) EventType() string { return TypeMarketInitialized }

func (e MarketInitialized) Event() *types.Event {
	return &types.Event{
		Type: TypeMarketInitialized,
		Attributes: map[string]string{
			"authority":   crypto.NewAddress(crypto.FDXPrefix, e.Authority[:]).String(),
			"rewardAsset": e.RewardAsset,
			"feeBps":      strconv.FormatUint(uint64(e.FeeBps), 10),
		},
	}
}

type MarketPauseSet struct {
	Paused bool
}

func (MarketPauseSet) EventType() string { return TypeMarketPauseSet }

func (e MarketPauseSet) Event() *types.Event {
	return &types.Event{
		Type: TypeMarketPauseSet,
		Attributes: map[string]string{
			"paused": strconv.FormatBool(e.Paused),
		},
	}
}
