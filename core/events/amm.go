package events

import (
	"strconv"

	"fizzdex/core/types"
	"fizzdex/crypto"
)

const (
	// TypePoolCreated is emitted when a new liquidity pool is allocated.
	TypePoolCreated = "amm.pool_created"
	// TypeLiquidityAdded is emitted when a provider deposits into a pool.
	TypeLiquidityAdded = "amm.liquidity_added"
	// TypeSwapExecuted is emitted for every successful constant-product swap.
	TypeSwapExecuted = "amm.swap_executed"
)

type PoolCreated struct {
	AssetA string
	AssetB string
	LPMint string
}

func (PoolCreated) EventType() string { return TypePoolCreated }

func (e PoolCreated) Event() *types.Event {
	return &types.Event{
		Type: TypePoolCreated,
		Attributes: map[string]string{
			"assetA": e.AssetA,
			"assetB": e.AssetB,
			"lpMint": e.LPMint,
		},
	}
}

type LiquidityAdded struct {
	Provider [20]byte
	AssetA   string
	AssetB   string
	AmountA  uint64
	AmountB  uint64
	Minted   uint64
}

func (LiquidityAdded) EventType() string { return TypeLiquidityAdded }

func (e LiquidityAdded) Event() *types.Event {
	return &types.Event{
		Type: TypeLiquidityAdded,
		Attributes: map[string]string{
			"provider": crypto.NewAddress(crypto.FDXPrefix, e.Provider[:]).String(),
			"assetA":   e.AssetA,
			"assetB":   e.AssetB,
			"amountA":  strconv.FormatUint(e.AmountA, 10),
			"amountB":  strconv.FormatUint(e.AmountB, 10),
			"minted":   strconv.FormatUint(e.Minted, 10),
		},
	}
}

type SwapExecuted struct {
	Trader    [20]byte
	AssetA    string
	AssetB    string
	AToB      bool
	AmountIn  uint64
	AmountOut uint64
}

func (SwapExecuted) EventType() string { return TypeSwapExecuted }

func (e SwapExecuted) Event() *types.Event {
	return &types.Event{
		Type: TypeSwapExecuted,
		Attributes: map[string]string{
			"trader":    crypto.NewAddress(crypto.FDXPrefix, e.Trader[:]).String(),
			"assetA":    e.AssetA,
			"assetB":    e.AssetB,
			"aToB":      strconv.FormatBool(e.AToB),
			"amountIn":  strconv.FormatUint(e.AmountIn, 10),
			"amountOut": strconv.FormatUint(e.AmountOut, 10),
		},
	}
}
