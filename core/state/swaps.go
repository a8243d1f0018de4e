package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"fizzdex/native/htlc"
)

func swapStorageKey(id [32]byte) []byte {
	return storageKey(swapRecordPrefix, id[:])
}

type storedAtomicSwap struct {
	ID          [32]byte
	Initiator   [20]byte
	Participant [20]byte
	Asset       string
	EscrowVault [20]byte
	Amount      uint64
	SecretHash  [32]byte
	Timelock    *big.Int
	Completed   bool
	Refunded    bool
}

// SwapPut persists an atomic swap record. Records are never deleted; the
// terminal flags keep the audit trail intact.
func (m *Manager) SwapPut(swap *htlc.AtomicSwap) error {
	sanitized, err := htlc.SanitizeAtomicSwap(swap)
	if err != nil {
		return err
	}
	record := &storedAtomicSwap{
		ID:          sanitized.ID,
		Initiator:   sanitized.Initiator,
		Participant: sanitized.Participant,
		Asset:       sanitized.Asset,
		EscrowVault: sanitized.EscrowVault,
		Amount:      sanitized.Amount,
		SecretHash:  sanitized.SecretHash,
		Timelock:    big.NewInt(sanitized.Timelock),
		Completed:   sanitized.Completed,
		Refunded:    sanitized.Refunded,
	}
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	return m.db.Put(swapStorageKey(sanitized.ID), encoded)
}

// SwapGet loads an atomic swap record by its tuple-derived identifier.
func (m *Manager) SwapGet(id [32]byte) (*htlc.AtomicSwap, bool) {
	data, err := m.db.Get(swapStorageKey(id))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	stored := new(storedAtomicSwap)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	out := &htlc.AtomicSwap{
		ID:          stored.ID,
		Initiator:   stored.Initiator,
		Participant: stored.Participant,
		Asset:       stored.Asset,
		EscrowVault: stored.EscrowVault,
		Amount:      stored.Amount,
		SecretHash:  stored.SecretHash,
		Completed:   stored.Completed,
		Refunded:    stored.Refunded,
	}
	if stored.Timelock != nil {
		out.Timelock = stored.Timelock.Int64()
	}
	return out, true
}
