package crypto

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable part of a bech32-encoded account
// address. Every account on the exchange uses the same prefix.
type AddressPrefix string

// FDXPrefix is the prefix for exchange account addresses.
const FDXPrefix AddressPrefix = "fdx"

// Address represents a 20-byte account address with a human-readable prefix.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

func NewAddress(prefix AddressPrefix, b []byte) Address {
	if len(b) != 20 {
		panic("address must be 20 bytes long")
	}
	return Address{prefix: prefix, bytes: b}
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

func (a Address) Bytes() []byte {
	return a.bytes
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	if len(conv) != 20 {
		return Address{}, fmt.Errorf("address payload must be 20 bytes, got %d", len(conv))
	}
	return NewAddress(AddressPrefix(prefix), conv), nil
}

// MustDecodeAddress parses an address and panics on failure. Intended for
// configuration values validated at startup.
func MustDecodeAddress(addrStr string) Address {
	addr, err := DecodeAddress(addrStr)
	if err != nil {
		panic(err)
	}
	return addr
}

// DeriveAddress produces a deterministic 20-byte address from a
// purpose-tagged preimage. Module vaults (pool vaults, HTLC escrow vaults,
// the reward vault) are addressed this way so they own balances on the token
// ledger without a corresponding private key.
func DeriveAddress(seed ...[]byte) [20]byte {
	hash := ethcrypto.Keccak256(seed...)
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}

// Keccak256 computes the keccak-256 digest over the concatenated inputs. It
// is the hash used both for record keys and for HTLC hash locks, keeping the
// secret compatible with EVM-side keccak256(secret) verification.
func Keccak256(data ...[]byte) [32]byte {
	hash := ethcrypto.Keccak256(data...)
	var out [32]byte
	copy(out[:], hash)
	return out
}
