package events

import (
	"encoding/hex"
	"strconv"

	"fizzdex/core/types"
	"fizzdex/crypto"
)

const (
	// TypeAtomicSwapInitiated is emitted when an HTLC escrow is funded.
	TypeAtomicSwapInitiated = "htlc.initiated"
	// TypeAtomicSwapCompleted is emitted when the participant reveals the
	// preimage and claims the escrow. The secret becomes public through this
	// event, which is what lets the counterpart leg on another ledger settle
	// with the same value.
	TypeAtomicSwapCompleted = "htlc.completed"
	// TypeAtomicSwapRefunded is emitted when the initiator reclaims an
	// expired escrow.
	TypeAtomicSwapRefunded = "htlc.refunded"
)

type AtomicSwapInitiated struct {
	ID          [32]byte
	Initiator   [20]byte
	Participant [20]byte
	Asset       string
	Amount      uint64
	Timelock    int64
}

func (AtomicSwapInitiated) EventType() string { return TypeAtomicSwapInitiated }

func (e AtomicSwapInitiated) Event() *types.Event {
	return &types.Event{
		Type: TypeAtomicSwapInitiated,
		Attributes: map[string]string{
			"id":          hex.EncodeToString(e.ID[:]),
			"initiator":   crypto.NewAddress(crypto.FDXPrefix, e.Initiator[:]).String(),
			"participant": crypto.NewAddress(crypto.FDXPrefix, e.Participant[:]).String(),
			"asset":       e.Asset,
			"amount":      strconv.FormatUint(e.Amount, 10),
			"timelock":    strconv.FormatInt(e.Timelock, 10),
		},
	}
}

type AtomicSwapCompleted struct {
	ID     [32]byte
	Secret []byte
}

func (AtomicSwapCompleted) EventType() string { return TypeAtomicSwapCompleted }

func (e AtomicSwapCompleted) Event() *types.Event {
	return &types.Event{
		Type: TypeAtomicSwapCompleted,
		Attributes: map[string]string{
			"id":     hex.EncodeToString(e.ID[:]),
			"secret": hex.EncodeToString(e.Secret),
		},
	}
}

type AtomicSwapRefunded struct {
	ID [32]byte
}

func (AtomicSwapRefunded) EventType() string { return TypeAtomicSwapRefunded }

func (e AtomicSwapRefunded) Event() *types.Event {
	return &types.Event{
		Type: TypeAtomicSwapRefunded,
		Attributes: map[string]string{
			"id": hex.EncodeToString(e.ID[:]),
		},
	}
}
