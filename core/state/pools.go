package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"fizzdex/native/amm"
)

func poolStorageKey(assetA, assetB string) []byte {
	return storageKey(poolRecordPrefix, []byte(assetA), []byte("/"), []byte(assetB))
}

type storedPool struct {
	AssetA        string
	AssetB        string
	VaultA        [20]byte
	VaultB        [20]byte
	LPMint        string
	ReserveA      uint64
	ReserveB      uint64
	TotalLPSupply uint64
	Locked        bool
}

// PoolPut persists a pool record keyed by its ordered asset pair.
func (m *Manager) PoolPut(pool *amm.Pool) error {
	sanitized, err := amm.SanitizePool(pool)
	if err != nil {
		return err
	}
	record := &storedPool{
		AssetA:        sanitized.AssetA,
		AssetB:        sanitized.AssetB,
		VaultA:        sanitized.VaultA,
		VaultB:        sanitized.VaultB,
		LPMint:        sanitized.LPMint,
		ReserveA:      sanitized.ReserveA,
		ReserveB:      sanitized.ReserveB,
		TotalLPSupply: sanitized.TotalLPSupply,
		Locked:        sanitized.Locked,
	}
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	return m.db.Put(poolStorageKey(sanitized.AssetA, sanitized.AssetB), encoded)
}

// PoolGet loads the pool for an ordered asset pair. (A,B) and (B,A) resolve
// to distinct records.
func (m *Manager) PoolGet(assetA, assetB string) (*amm.Pool, bool) {
	data, err := m.db.Get(poolStorageKey(assetA, assetB))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	stored := new(storedPool)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	return &amm.Pool{
		AssetA:        stored.AssetA,
		AssetB:        stored.AssetB,
		VaultA:        stored.VaultA,
		VaultB:        stored.VaultB,
		LPMint:        stored.LPMint,
		ReserveA:      stored.ReserveA,
		ReserveB:      stored.ReserveB,
		TotalLPSupply: stored.TotalLPSupply,
		Locked:        stored.Locked,
	}, true
}
