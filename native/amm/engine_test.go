package amm

import (
	"errors"
	"math/big"
	"testing"

	"fizzdex/core/events"
	"fizzdex/native/market"
)

var errMintRefused = errors.New("mint refused")

type mockState struct {
	market   *market.MarketState
	pools    map[string]*Pool
	tokens   map[string][20]byte
	balances map[string]map[[20]byte]uint64

	failMint     bool
	failPoolPuts int
	poolPuts     int
}

func newMockState() *mockState {
	return &mockState{
		pools:    make(map[string]*Pool),
		tokens:   make(map[string][20]byte),
		balances: make(map[string]map[[20]byte]uint64),
	}
}

func (m *mockState) MarketGet() (*market.MarketState, bool) {
	if m.market == nil {
		return nil, false
	}
	return m.market.Clone(), true
}

func (m *mockState) MarketPut(state *market.MarketState) error {
	m.market = state.Clone()
	return nil
}

func poolKey(assetA, assetB string) string {
	return assetA + "|" + assetB
}

func (m *mockState) PoolGet(assetA, assetB string) (*Pool, bool) {
	pool, ok := m.pools[poolKey(assetA, assetB)]
	if !ok {
		return nil, false
	}
	return pool.Clone(), true
}

func (m *mockState) PoolPut(pool *Pool) error {
	m.poolPuts++
	if m.failPoolPuts > 0 && m.poolPuts >= m.failPoolPuts {
		return errors.New("pool put refused")
	}
	m.pools[poolKey(pool.AssetA, pool.AssetB)] = pool.Clone()
	return nil
}

func (m *mockState) TokenRegister(symbol string, authority [20]byte) error {
	m.tokens[symbol] = authority
	return nil
}

func (m *mockState) balance(asset string, addr [20]byte) uint64 {
	return m.balances[asset][addr]
}

func (m *mockState) credit(asset string, addr [20]byte, amount uint64) {
	if m.balances[asset] == nil {
		m.balances[asset] = make(map[[20]byte]uint64)
	}
	m.balances[asset][addr] += amount
}

func (m *mockState) Transfer(asset string, from, to [20]byte, amount uint64) error {
	if m.balances[asset][from] < amount {
		return errors.New("insufficient balance")
	}
	m.balances[asset][from] -= amount
	m.credit(asset, to, amount)
	return nil
}

func (m *mockState) Mint(asset string, to [20]byte, amount uint64, authority [20]byte) error {
	if m.failMint {
		return errMintRefused
	}
	if registered, ok := m.tokens[asset]; ok && registered != authority {
		return errors.New("mint unauthorized")
	}
	m.credit(asset, to, amount)
	return nil
}

func (m *mockState) Burn(asset string, from [20]byte, amount uint64) error {
	if m.balances[asset][from] < amount {
		return errors.New("insufficient balance")
	}
	m.balances[asset][from] -= amount
	return nil
}

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	c.events = append(c.events, evt)
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func initializedState(feeBps uint32) *mockState {
	state := newMockState()
	state.market = &market.MarketState{
		Authority:   addr(0xFF),
		RewardAsset: "FIZZ",
		FeeBps:      feeBps,
		TotalVolume: big.NewInt(0),
	}
	return state
}

func poolEngine(state *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	return engine
}

func TestCreatePool(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)

	pool, err := engine.CreatePool("fizz", "buzz")
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if pool.AssetA != "FIZZ" || pool.AssetB != "BUZZ" {
		t.Fatalf("assets not normalized: %+v", pool)
	}
	if !pool.Empty() || pool.ReserveA != 0 || pool.ReserveB != 0 {
		t.Fatalf("new pool is not empty: %+v", pool)
	}
	if pool.LPMint != "LP/FIZZ/BUZZ" {
		t.Fatalf("unexpected lp mint: %s", pool.LPMint)
	}
	if authority, ok := state.tokens[pool.LPMint]; !ok || authority != LPAuthority("FIZZ", "BUZZ") {
		t.Fatalf("lp mint authority not registered")
	}

	if _, err := engine.CreatePool("FIZZ", "BUZZ"); !errors.Is(err, ErrPoolExists) {
		t.Fatalf("expected duplicate pool error, got %v", err)
	}

	// The reversed pair is a distinct pool.
	reversed, err := engine.CreatePool("BUZZ", "FIZZ")
	if err != nil {
		t.Fatalf("create reversed pool: %v", err)
	}
	if reversed.VaultA == pool.VaultA || reversed.LPMint == pool.LPMint {
		t.Fatalf("reversed pool shares identity with original")
	}
}

func TestCreatePoolRequiresMarket(t *testing.T) {
	engine := poolEngine(newMockState())
	if _, err := engine.CreatePool("FIZZ", "BUZZ"); !errors.Is(err, market.ErrNotInitialized) {
		t.Fatalf("expected uninitialized market error, got %v", err)
	}
}

func TestCreatePoolRejectsWhilePaused(t *testing.T) {
	state := initializedState(30)
	state.market.Paused = true
	engine := poolEngine(state)
	if _, err := engine.CreatePool("FIZZ", "BUZZ"); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected pause error, got %v", err)
	}
}

func TestAddLiquidityInitialDeposit(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	caller := addr(0x01)
	state.credit("FIZZ", caller, 1000)
	state.credit("BUZZ", caller, 1000)

	pool, err := engine.CreatePool("FIZZ", "BUZZ")
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}

	minted, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 400, 100, 0)
	if err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	if minted != 200 {
		t.Fatalf("initial deposit minted %d, want 200", minted)
	}
	stored, _ := state.PoolGet("FIZZ", "BUZZ")
	if stored.ReserveA != 400 || stored.ReserveB != 100 || stored.TotalLPSupply != 200 {
		t.Fatalf("unexpected pool after deposit: %+v", stored)
	}
	if stored.Locked {
		t.Fatalf("pool left locked")
	}
	if got := state.balance("FIZZ", stored.VaultA); got != 400 {
		t.Fatalf("vault A holds %d, want 400", got)
	}
	if got := state.balance("BUZZ", stored.VaultB); got != 100 {
		t.Fatalf("vault B holds %d, want 100", got)
	}
	if got := state.balance(pool.LPMint, caller); got != 200 {
		t.Fatalf("caller lp balance %d, want 200", got)
	}
}

func TestAddLiquidityProportionalDeposit(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	caller := addr(0x01)
	state.credit("FIZZ", caller, 10_000)
	state.credit("BUZZ", caller, 10_000)

	if _, err := engine.CreatePool("FIZZ", "BUZZ"); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 1000, 1000, 0); err != nil {
		t.Fatalf("initial deposit: %v", err)
	}

	// An unbalanced follow-up is credited at the scarcer-asset ratio.
	minted, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 500, 250, 0)
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if minted != 250 {
		t.Fatalf("second deposit minted %d, want 250", minted)
	}
	stored, _ := state.PoolGet("FIZZ", "BUZZ")
	if stored.ReserveA != 1500 || stored.ReserveB != 1250 || stored.TotalLPSupply != 1250 {
		t.Fatalf("unexpected pool after second deposit: %+v", stored)
	}
}

func TestAddLiquiditySlippage(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	caller := addr(0x01)
	state.credit("FIZZ", caller, 1000)
	state.credit("BUZZ", caller, 1000)

	if _, err := engine.CreatePool("FIZZ", "BUZZ"); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 400, 100, 201); !errors.Is(err, ErrSlippage) {
		t.Fatalf("expected slippage error, got %v", err)
	}
	if got := state.balance("FIZZ", caller); got != 1000 {
		t.Fatalf("balance moved on slippage failure: %d", got)
	}
}

func TestAddLiquidityRollsBackOnMintFailure(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	caller := addr(0x01)
	state.credit("FIZZ", caller, 1000)
	state.credit("BUZZ", caller, 1000)

	if _, err := engine.CreatePool("FIZZ", "BUZZ"); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	state.failMint = true

	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 400, 100, 0); !errors.Is(err, errMintRefused) {
		t.Fatalf("expected mint failure, got %v", err)
	}
	if got := state.balance("FIZZ", caller); got != 1000 {
		t.Fatalf("asset A not restored: %d", got)
	}
	if got := state.balance("BUZZ", caller); got != 1000 {
		t.Fatalf("asset B not restored: %d", got)
	}
	stored, _ := state.PoolGet("FIZZ", "BUZZ")
	if stored.Locked {
		t.Fatalf("pool left locked after rollback")
	}
	if !stored.Empty() {
		t.Fatalf("pool reserves mutated after rollback: %+v", stored)
	}
}

func TestAddLiquidityValidation(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	caller := addr(0x01)

	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 100, 100, 0); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("expected missing pool error, got %v", err)
	}
	if _, err := engine.CreatePool("FIZZ", "BUZZ"); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 0, 100, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero A, got %v", err)
	}
	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", 100, 0, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero B, got %v", err)
	}
}

func seedPool(t *testing.T, state *mockState, engine *Engine, caller [20]byte, amountA, amountB uint64) {
	t.Helper()
	state.credit("FIZZ", caller, amountA)
	state.credit("BUZZ", caller, amountB)
	if _, err := engine.CreatePool("FIZZ", "BUZZ"); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if _, err := engine.AddLiquidity(caller, "FIZZ", "BUZZ", amountA, amountB, 0); err != nil {
		t.Fatalf("seed liquidity: %v", err)
	}
}

func TestSwapChargesFeeIntoReserves(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	emitter := &captureEmitter{}
	engine.SetEmitter(emitter)
	provider := addr(0x01)
	trader := addr(0x02)
	seedPool(t, state, engine, provider, 1_000_000, 1_000_000)
	state.credit("FIZZ", trader, 1000)

	amountOut, err := engine.Swap(trader, "FIZZ", "BUZZ", 1000, 0, true)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if amountOut != 996 {
		t.Fatalf("swap output %d, want 996", amountOut)
	}
	stored, _ := state.PoolGet("FIZZ", "BUZZ")
	if stored.ReserveA != 1_001_000 || stored.ReserveB != 999_004 {
		t.Fatalf("unexpected reserves after swap: %+v", stored)
	}

	// The implicit fee keeps k from decreasing.
	before := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1_000_000))
	after := new(big.Int).Mul(new(big.Int).SetUint64(stored.ReserveA), new(big.Int).SetUint64(stored.ReserveB))
	if after.Cmp(before) < 0 {
		t.Fatalf("constant product decreased: %s -> %s", before, after)
	}

	if got := state.balance("BUZZ", trader); got != 996 {
		t.Fatalf("trader received %d, want 996", got)
	}
	if state.market.TotalVolume.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("volume not accumulated: %s", state.market.TotalVolume)
	}
	if len(emitter.events) == 0 || emitter.events[len(emitter.events)-1].EventType() != events.TypeSwapExecuted {
		t.Fatalf("swap event not emitted")
	}
}

func TestSwapReverseDirection(t *testing.T) {
	state := initializedState(0)
	engine := poolEngine(state)
	provider := addr(0x01)
	trader := addr(0x02)
	seedPool(t, state, engine, provider, 1000, 1000)
	state.credit("BUZZ", trader, 1000)

	amountOut, err := engine.Swap(trader, "FIZZ", "BUZZ", 1000, 0, false)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if amountOut != 500 {
		t.Fatalf("swap output %d, want 500", amountOut)
	}
	stored, _ := state.PoolGet("FIZZ", "BUZZ")
	if stored.ReserveA != 500 || stored.ReserveB != 2000 {
		t.Fatalf("unexpected reserves after reverse swap: %+v", stored)
	}
	if got := state.balance("FIZZ", trader); got != 500 {
		t.Fatalf("trader received %d, want 500", got)
	}
}

func TestSwapSlippage(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	provider := addr(0x01)
	trader := addr(0x02)
	seedPool(t, state, engine, provider, 1_000_000, 1_000_000)
	state.credit("FIZZ", trader, 1000)

	if _, err := engine.Swap(trader, "FIZZ", "BUZZ", 1000, 997, true); !errors.Is(err, ErrSlippage) {
		t.Fatalf("expected slippage error, got %v", err)
	}
	if got := state.balance("FIZZ", trader); got != 1000 {
		t.Fatalf("trader balance moved on slippage failure: %d", got)
	}
}

func TestSwapEmptyPool(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	trader := addr(0x02)
	if _, err := engine.CreatePool("FIZZ", "BUZZ"); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	state.credit("FIZZ", trader, 1000)

	if _, err := engine.Swap(trader, "FIZZ", "BUZZ", 1000, 0, true); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected insufficient liquidity, got %v", err)
	}
}

func TestSwapRespectsLockAndPause(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	provider := addr(0x01)
	trader := addr(0x02)
	seedPool(t, state, engine, provider, 1000, 1000)
	state.credit("FIZZ", trader, 1000)

	locked, _ := state.PoolGet("FIZZ", "BUZZ")
	locked.Locked = true
	state.pools[poolKey("FIZZ", "BUZZ")] = locked
	if _, err := engine.Swap(trader, "FIZZ", "BUZZ", 100, 0, true); !errors.Is(err, ErrPoolLocked) {
		t.Fatalf("expected locked pool error, got %v", err)
	}
	locked.Locked = false
	state.pools[poolKey("FIZZ", "BUZZ")] = locked

	state.market.Paused = true
	if _, err := engine.Swap(trader, "FIZZ", "BUZZ", 100, 0, true); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected pause error, got %v", err)
	}
}

func TestSwapRollsBackOnFinalWriteFailure(t *testing.T) {
	state := initializedState(30)
	engine := poolEngine(state)
	provider := addr(0x01)
	trader := addr(0x02)
	seedPool(t, state, engine, provider, 1_000_000, 1_000_000)
	state.credit("FIZZ", trader, 1000)

	// Fail the final unlocked pool write: the lock write succeeds, the
	// closing write does not.
	state.failPoolPuts = state.poolPuts + 2

	if _, err := engine.Swap(trader, "FIZZ", "BUZZ", 1000, 0, true); err == nil {
		t.Fatalf("expected swap failure")
	}
	if got := state.balance("FIZZ", trader); got != 1000 {
		t.Fatalf("input not restored: %d", got)
	}
	if got := state.balance("BUZZ", trader); got != 0 {
		t.Fatalf("output not reclaimed: %d", got)
	}
	if state.market.TotalVolume.Sign() != 0 {
		t.Fatalf("volume not restored: %s", state.market.TotalVolume)
	}
}
