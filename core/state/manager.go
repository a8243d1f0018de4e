package state

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"fizzdex/storage"
)

// Manager reads and writes every persisted record of the exchange: the
// market singleton, pools, players, atomic swaps and the token ledger. It
// satisfies the narrow state interfaces declared by each native engine, so
// the engines never see the key-value store directly.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// storageKey derives the database key for a record from its prefixed
// preimage. Hashing keeps keys fixed-width and collision-resistant across
// record families.
func storageKey(parts ...[]byte) []byte {
	return ethcrypto.Keccak256(parts...)
}
