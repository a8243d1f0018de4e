package events

import (
	"strconv"

	"fizzdex/core/types"
	"fizzdex/crypto"
)

const (
	// TypeFizzCapsPlayed is emitted for every accepted play.
	TypeFizzCapsPlayed = "rewards.played"
	// TypeRewardsClaimed is emitted when a player drains pending rewards.
	TypeRewardsClaimed = "rewards.claimed"
)

type FizzCapsPlayed struct {
	Player [20]byte
	Number uint8
	Tier   string
	Reward uint64
}

func (FizzCapsPlayed) EventType() string { return TypeFizzCapsPlayed }

func (e FizzCapsPlayed) Event() *types.Event {
	return &types.Event{
		Type: TypeFizzCapsPlayed,
		Attributes: map[string]string{
			"player": crypto.NewAddress(crypto.FDXPrefix, e.Player[:]).String(),
			"number": strconv.FormatUint(uint64(e.Number), 10),
			"tier":   e.Tier,
			"reward": strconv.FormatUint(e.Reward, 10),
		},
	}
}

type RewardsClaimed struct {
	Player [20]byte
	Amount uint64
}

func (RewardsClaimed) EventType() string { return TypeRewardsClaimed }

func (e RewardsClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeRewardsClaimed,
		Attributes: map[string]string{
			"player": crypto.NewAddress(crypto.FDXPrefix, e.Player[:]).String(),
			"amount": strconv.FormatUint(e.Amount, 10),
		},
	}
}
