package amm

import (
	"errors"
	"math/big"

	"fizzdex/core/events"
	"fizzdex/core/types"
	"fizzdex/native/market"
)

var errNilState = errors.New("amm engine: state not configured")

type engineState interface {
	MarketGet() (*market.MarketState, bool)
	MarketPut(*market.MarketState) error
	PoolGet(assetA, assetB string) (*Pool, bool)
	PoolPut(*Pool) error
	TokenRegister(symbol string, authority [20]byte) error
	Transfer(asset string, from, to [20]byte, amount uint64) error
	Mint(asset string, to [20]byte, amount uint64, authority [20]byte) error
	Burn(asset string, from [20]byte, amount uint64) error
}

type ammEvent struct {
	evt *types.Event
}

func (e ammEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e ammEvent) Event() *types.Event { return e.evt }

// Engine implements the constant-product pool logic: pool allocation,
// proportional liquidity provisioning and fee-bearing swaps. Every mutating
// call consults the global market state first and holds the per-pool stored
// lock across all token-ledger calls as reentrancy protection.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine creates a pool engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(ammEvent{evt: event})
}

func (e *Engine) loadMarket() (*market.MarketState, error) {
	state, ok := e.state.MarketGet()
	if !ok {
		return nil, market.ErrNotInitialized
	}
	return state, nil
}

// CreatePool allocates a pool for the ordered pair (assetA, assetB) with
// zeroed reserves. It registers the pool's liquidity-token mint under the
// pool's derived authority. No token-ledger balances move.
func (e *Engine) CreatePool(assetA, assetB string) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	normalizedA, err := market.NormalizeAsset(assetA)
	if err != nil {
		return nil, err
	}
	normalizedB, err := market.NormalizeAsset(assetB)
	if err != nil {
		return nil, err
	}
	marketState, err := e.loadMarket()
	if err != nil {
		return nil, err
	}
	if marketState.Paused {
		return nil, ErrPaused
	}
	if _, ok := e.state.PoolGet(normalizedA, normalizedB); ok {
		return nil, ErrPoolExists
	}
	vaultA, vaultB := VaultAddresses(normalizedA, normalizedB)
	pool := &Pool{
		AssetA: normalizedA,
		AssetB: normalizedB,
		VaultA: vaultA,
		VaultB: vaultB,
		LPMint: LPMintSymbol(normalizedA, normalizedB),
	}
	if err := e.state.TokenRegister(pool.LPMint, LPAuthority(normalizedA, normalizedB)); err != nil {
		return nil, err
	}
	if err := e.state.PoolPut(pool); err != nil {
		return nil, err
	}
	e.emit(events.PoolCreated{AssetA: normalizedA, AssetB: normalizedB, LPMint: pool.LPMint}.Event())
	return pool.Clone(), nil
}

// AddLiquidity deposits amountA and amountB into the pool and mints
// liquidity tokens to the caller. The first deposit is priced at the
// geometric mean of the amounts; later deposits at the minimum of the two
// floor proportions. Fails with ErrSlippage when the minted amount would be
// below minLPAmount. The operation is all-or-nothing: a failed ledger step
// rolls back every prior transfer and never leaves the pool lock held.
func (e *Engine) AddLiquidity(caller [20]byte, assetA, assetB string, amountA, amountB, minLPAmount uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	marketState, err := e.loadMarket()
	if err != nil {
		return 0, err
	}
	if marketState.Paused {
		return 0, ErrPaused
	}
	normalizedA, err := market.NormalizeAsset(assetA)
	if err != nil {
		return 0, err
	}
	normalizedB, err := market.NormalizeAsset(assetB)
	if err != nil {
		return 0, err
	}
	pool, ok := e.state.PoolGet(normalizedA, normalizedB)
	if !ok {
		return 0, ErrPoolNotFound
	}
	if pool.Locked {
		return 0, ErrPoolLocked
	}
	if amountA == 0 || amountB == 0 {
		return 0, ErrInvalidAmount
	}

	var lpAmount uint64
	if pool.Empty() {
		lpAmount, err = initialLPAmount(amountA, amountB)
	} else {
		lpAmount, err = proportionalLPAmount(amountA, amountB, pool.ReserveA, pool.ReserveB, pool.TotalLPSupply)
	}
	if err != nil {
		return 0, err
	}
	if lpAmount < minLPAmount {
		return 0, ErrSlippage
	}

	// The stored lock is set before the first ledger call and cleared only by
	// the final pool write, after reserves and supply are updated.
	pool.Locked = true
	if err := e.state.PoolPut(pool); err != nil {
		return 0, err
	}
	unlock := func() {
		pool.Locked = false
		_ = e.state.PoolPut(pool)
	}

	if err := e.state.Transfer(normalizedA, caller, pool.VaultA, amountA); err != nil {
		unlock()
		return 0, err
	}
	rollbacks := []func(){func() {
		_ = e.state.Transfer(normalizedA, pool.VaultA, caller, amountA)
	}}
	revert := func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			rollbacks[i]()
		}
	}
	if err := e.state.Transfer(normalizedB, caller, pool.VaultB, amountB); err != nil {
		revert()
		unlock()
		return 0, err
	}
	rollbacks = append(rollbacks, func() {
		_ = e.state.Transfer(normalizedB, pool.VaultB, caller, amountB)
	})
	lpAuthority := LPAuthority(normalizedA, normalizedB)
	if err := e.state.Mint(pool.LPMint, caller, lpAmount, lpAuthority); err != nil {
		revert()
		unlock()
		return 0, err
	}
	rollbacks = append(rollbacks, func() {
		_ = e.state.Burn(pool.LPMint, caller, lpAmount)
	})

	updated := pool.Clone()
	updated.Locked = false
	if updated.ReserveA, err = addUint64(pool.ReserveA, amountA); err != nil {
		revert()
		unlock()
		return 0, err
	}
	if updated.ReserveB, err = addUint64(pool.ReserveB, amountB); err != nil {
		revert()
		unlock()
		return 0, err
	}
	if updated.TotalLPSupply, err = addUint64(pool.TotalLPSupply, lpAmount); err != nil {
		revert()
		unlock()
		return 0, err
	}
	if err := e.state.PoolPut(updated); err != nil {
		revert()
		unlock()
		return 0, err
	}
	e.emit(events.LiquidityAdded{
		Provider: caller,
		AssetA:   normalizedA,
		AssetB:   normalizedB,
		AmountA:  amountA,
		AmountB:  amountB,
		Minted:   lpAmount,
	}.Event())
	return lpAmount, nil
}

// Swap trades amountIn of one pool asset for the other along the
// constant-product curve. aToB selects the direction. The implicit fee stays
// in the reserves; amountIn is accumulated into the global volume counter.
// Same lock and rollback discipline as AddLiquidity.
func (e *Engine) Swap(caller [20]byte, assetA, assetB string, amountIn, minAmountOut uint64, aToB bool) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	marketState, err := e.loadMarket()
	if err != nil {
		return 0, err
	}
	if marketState.Paused {
		return 0, ErrPaused
	}
	normalizedA, err := market.NormalizeAsset(assetA)
	if err != nil {
		return 0, err
	}
	normalizedB, err := market.NormalizeAsset(assetB)
	if err != nil {
		return 0, err
	}
	pool, ok := e.state.PoolGet(normalizedA, normalizedB)
	if !ok {
		return 0, ErrPoolNotFound
	}
	if pool.Locked {
		return 0, ErrPoolLocked
	}
	if amountIn == 0 {
		return 0, ErrInvalidAmount
	}

	reserveIn, reserveOut := pool.ReserveA, pool.ReserveB
	assetIn, assetOut := normalizedA, normalizedB
	vaultIn, vaultOut := pool.VaultA, pool.VaultB
	if !aToB {
		reserveIn, reserveOut = pool.ReserveB, pool.ReserveA
		assetIn, assetOut = normalizedB, normalizedA
		vaultIn, vaultOut = pool.VaultB, pool.VaultA
	}

	amountOut, err := swapOutput(amountIn, reserveIn, reserveOut, marketState.FeeBps)
	if err != nil {
		return 0, err
	}
	if amountOut < minAmountOut {
		return 0, ErrSlippage
	}
	// Strict inequality: the output reserve must never be fully drained.
	if amountOut >= reserveOut {
		return 0, ErrInsufficientLiquidity
	}

	pool.Locked = true
	if err := e.state.PoolPut(pool); err != nil {
		return 0, err
	}
	unlock := func() {
		pool.Locked = false
		_ = e.state.PoolPut(pool)
	}

	if err := e.state.Transfer(assetIn, caller, vaultIn, amountIn); err != nil {
		unlock()
		return 0, err
	}
	rollbacks := []func(){func() {
		_ = e.state.Transfer(assetIn, vaultIn, caller, amountIn)
	}}
	revert := func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			rollbacks[i]()
		}
	}
	if err := e.state.Transfer(assetOut, vaultOut, caller, amountOut); err != nil {
		revert()
		unlock()
		return 0, err
	}
	rollbacks = append(rollbacks, func() {
		_ = e.state.Transfer(assetOut, caller, vaultOut, amountOut)
	})

	updated := pool.Clone()
	updated.Locked = false
	newReserveIn, err := addUint64(reserveIn, amountIn)
	if err != nil {
		revert()
		unlock()
		return 0, err
	}
	newReserveOut, err := subUint64(reserveOut, amountOut)
	if err != nil {
		revert()
		unlock()
		return 0, err
	}
	if aToB {
		updated.ReserveA, updated.ReserveB = newReserveIn, newReserveOut
	} else {
		updated.ReserveB, updated.ReserveA = newReserveIn, newReserveOut
	}

	originalMarket := marketState.Clone()
	marketState.TotalVolume = new(big.Int).Add(marketState.TotalVolume, new(big.Int).SetUint64(amountIn))
	if err := e.state.MarketPut(marketState); err != nil {
		revert()
		unlock()
		return 0, err
	}
	if err := e.state.PoolPut(updated); err != nil {
		_ = e.state.MarketPut(originalMarket)
		revert()
		unlock()
		return 0, err
	}
	e.emit(events.SwapExecuted{
		Trader:    caller,
		AssetA:    normalizedA,
		AssetB:    normalizedB,
		AToB:      aToB,
		AmountIn:  amountIn,
		AmountOut: amountOut,
	}.Event())
	return amountOut, nil
}

// GetPool returns a copy of the pool record for the ordered pair.
func (e *Engine) GetPool(assetA, assetB string) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	normalizedA, err := market.NormalizeAsset(assetA)
	if err != nil {
		return nil, err
	}
	normalizedB, err := market.NormalizeAsset(assetB)
	if err != nil {
		return nil, err
	}
	pool, ok := e.state.PoolGet(normalizedA, normalizedB)
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool.Clone(), nil
}
