package amm

import (
	"errors"
	"fmt"

	"fizzdex/crypto"
	"fizzdex/native/market"
)

var (
	ErrPaused                = errors.New("amm: market paused")
	ErrPoolExists            = errors.New("amm: pool already exists")
	ErrPoolNotFound          = errors.New("amm: pool not found")
	ErrPoolLocked            = errors.New("amm: pool locked")
	ErrInvalidAmount         = errors.New("amm: amount must be positive")
	ErrSlippage              = errors.New("amm: slippage tolerance exceeded")
	ErrInsufficientLiquidity = errors.New("amm: insufficient liquidity")
	ErrOverflow              = errors.New("amm: arithmetic overflow")
	ErrUnderflow             = errors.New("amm: arithmetic underflow")
	ErrDivisionByZero        = errors.New("amm: division by zero")
)

var (
	vaultASeed      = []byte("amm/vault/a/")
	vaultBSeed      = []byte("amm/vault/b/")
	lpAuthoritySeed = []byte("amm/lp/")
)

// Pool holds the reserves and liquidity-token supply for one ordered asset
// pair. (A,B) and (B,A) are distinct pools with independently tracked
// liquidity; the ordered keying is deliberate and must not be normalised.
type Pool struct {
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

// Clone returns a copy of the pool record.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Empty reports whether the pool holds no liquidity. The pool invariant ties
// the three quantities together: either all are zero or none is.
func (p *Pool) Empty() bool {
	return p.TotalLPSupply == 0
}

// SanitizePool validates a pool record, enforcing the empty-or-funded
// invariant, without mutating the original value.
func SanitizePool(p *Pool) (*Pool, error) {
	if p == nil {
		return nil, fmt.Errorf("nil pool")
	}
	clone := p.Clone()
	assetA, err := market.NormalizeAsset(clone.AssetA)
	if err != nil {
		return nil, err
	}
	assetB, err := market.NormalizeAsset(clone.AssetB)
	if err != nil {
		return nil, err
	}
	clone.AssetA = assetA
	clone.AssetB = assetB
	zeroA, zeroB, zeroLP := clone.ReserveA == 0, clone.ReserveB == 0, clone.TotalLPSupply == 0
	if zeroA != zeroLP || zeroB != zeroLP {
		return nil, fmt.Errorf("amm: pool must be empty or fully funded")
	}
	return clone, nil
}

// LPMintSymbol derives the liquidity-token identifier for an ordered pair.
func LPMintSymbol(assetA, assetB string) string {
	return "LP/" + assetA + "/" + assetB
}

// VaultAddresses derives the two vault addresses owned by the pool for an
// ordered pair.
func VaultAddresses(assetA, assetB string) ([20]byte, [20]byte) {
	vaultA := crypto.DeriveAddress(vaultASeed, []byte(assetA), []byte(assetB))
	vaultB := crypto.DeriveAddress(vaultBSeed, []byte(assetA), []byte(assetB))
	return vaultA, vaultB
}

// LPAuthority derives the address authorised to mint the pool's liquidity
// token.
func LPAuthority(assetA, assetB string) [20]byte {
	return crypto.DeriveAddress(lpAuthoritySeed, []byte(assetA), []byte(assetB))
}
