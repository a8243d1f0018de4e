package rewards

import (
	"errors"
	"math/big"
	"testing"

	"fizzdex/native/market"
)

type mockState struct {
	market   *market.MarketState
	players  map[[20]byte]*PlayerState
	balances map[string]map[[20]byte]uint64
}

func newMockState() *mockState {
	return &mockState{
		players:  make(map[[20]byte]*PlayerState),
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

func (m *mockState) PlayerGet(addr [20]byte) (*PlayerState, bool) {
	player, ok := m.players[addr]
	if !ok {
		return nil, false
	}
	return player.Clone(), true
}

func (m *mockState) PlayerPut(addr [20]byte, player *PlayerState) error {
	m.players[addr] = player.Clone()
	return nil
}

func (m *mockState) credit(asset string, addr [20]byte, amount uint64) {
	if m.balances[asset] == nil {
		m.balances[asset] = make(map[[20]byte]uint64)
	}
	m.balances[asset][addr] += amount
}

func (m *mockState) balance(asset string, addr [20]byte) uint64 {
	return m.balances[asset][addr]
}

func (m *mockState) Transfer(asset string, from, to [20]byte, amount uint64) error {
	if m.balances[asset][from] < amount {
		return errors.New("insufficient balance")
	}
	m.balances[asset][from] -= amount
	m.credit(asset, to, amount)
	return nil
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func initializedState() *mockState {
	state := newMockState()
	state.market = &market.MarketState{
		Authority:   addr(0xFF),
		RewardAsset: "FIZZ",
		FeeBps:      30,
		TotalVolume: big.NewInt(0),
	}
	return state
}

func gameEngine(state *mockState, now int64) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return now })
	return engine
}

func TestClassify(t *testing.T) {
	cases := []struct {
		number uint8
		tier   string
		reward uint64
	}{
		{1, TierNone, 0},
		{2, TierNone, 0},
		{3, TierFizz, FizzReward},
		{5, TierBuzz, BuzzReward},
		{9, TierFizz, FizzReward},
		{10, TierBuzz, BuzzReward},
		{15, TierFizzBuzz, FizzBuzzReward},
		{30, TierFizzBuzz, FizzBuzzReward},
		{45, TierFizzBuzz, FizzBuzzReward},
		{99, TierFizz, FizzReward},
		{100, TierBuzz, BuzzReward},
	}
	for _, tc := range cases {
		tier, reward := Classify(tc.number)
		if tier != tc.tier || reward != tc.reward {
			t.Fatalf("Classify(%d) = %s/%d, want %s/%d", tc.number, tier, reward, tc.tier, tc.reward)
		}
	}
}

func TestPlayAccruesTierRewards(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)
	player := addr(0x01)

	tier, reward, err := engine.Play(player, 15)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if tier != TierFizzBuzz || reward != FizzBuzzReward {
		t.Fatalf("unexpected result: %s/%d", tier, reward)
	}

	record, err := engine.GetPlayer(player)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if record.TotalPlays != 1 || record.FizzBuzzCount != 1 {
		t.Fatalf("counters not updated: %+v", record)
	}
	if record.PendingRewards != FizzBuzzReward {
		t.Fatalf("pending rewards %d, want %d", record.PendingRewards, FizzBuzzReward)
	}
	if record.LastPlayTime != 1000 {
		t.Fatalf("last play time %d, want 1000", record.LastPlayTime)
	}

	// No-tier numbers still count as plays but accrue nothing.
	engine.SetNowFunc(func() int64 { return 1060 })
	tier, reward, err = engine.Play(player, 1)
	if err != nil {
		t.Fatalf("second play: %v", err)
	}
	if tier != TierNone || reward != 0 {
		t.Fatalf("unexpected result for 1: %s/%d", tier, reward)
	}
	record, _ = engine.GetPlayer(player)
	if record.TotalPlays != 2 || record.PendingRewards != FizzBuzzReward {
		t.Fatalf("unexpected record after miss: %+v", record)
	}
}

func TestPlayValidatesNumberRange(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)
	player := addr(0x01)

	if _, _, err := engine.Play(player, 0); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected range error for 0, got %v", err)
	}
	if _, _, err := engine.Play(player, 101); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected range error for 101, got %v", err)
	}
}

func TestPlayCooldownBoundaries(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)
	player := addr(0x01)

	if _, _, err := engine.Play(player, 3); err != nil {
		t.Fatalf("first play: %v", err)
	}
	engine.SetNowFunc(func() int64 { return 1059 })
	if _, _, err := engine.Play(player, 3); !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("expected cooldown at 59s, got %v", err)
	}
	// Exactly PlayCooldown seconds later is allowed again.
	engine.SetNowFunc(func() int64 { return 1060 })
	if _, _, err := engine.Play(player, 3); err != nil {
		t.Fatalf("play at cooldown boundary: %v", err)
	}
}

func TestPlayCooldownIsPerPlayer(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)

	if _, _, err := engine.Play(addr(0x01), 3); err != nil {
		t.Fatalf("first player: %v", err)
	}
	if _, _, err := engine.Play(addr(0x02), 5); err != nil {
		t.Fatalf("second player blocked by first player's cooldown: %v", err)
	}
}

func TestFirstPlayCountsDistinctPlayer(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)
	player := addr(0x01)

	if _, _, err := engine.Play(player, 3); err != nil {
		t.Fatalf("play: %v", err)
	}
	if state.market.TotalPlayers != 1 {
		t.Fatalf("total players %d, want 1", state.market.TotalPlayers)
	}
	engine.SetNowFunc(func() int64 { return 1060 })
	if _, _, err := engine.Play(player, 5); err != nil {
		t.Fatalf("second play: %v", err)
	}
	if state.market.TotalPlayers != 1 {
		t.Fatalf("repeat play bumped total players: %d", state.market.TotalPlayers)
	}
	if _, _, err := engine.Play(addr(0x02), 5); err != nil {
		t.Fatalf("second player: %v", err)
	}
	if state.market.TotalPlayers != 2 {
		t.Fatalf("total players %d, want 2", state.market.TotalPlayers)
	}
}

func TestClaimDrainsPendingBalance(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)
	player := addr(0x01)
	state.credit("FIZZ", RewardVault(), 100_000_000_000)

	if _, _, err := engine.Play(player, 15); err != nil {
		t.Fatalf("play: %v", err)
	}
	engine.SetNowFunc(func() int64 { return 1060 })
	if _, _, err := engine.Play(player, 3); err != nil {
		t.Fatalf("second play: %v", err)
	}

	want := FizzBuzzReward + FizzReward
	claimed, err := engine.Claim(player)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed != want {
		t.Fatalf("claimed %d, want %d", claimed, want)
	}
	if got := state.balance("FIZZ", player); got != want {
		t.Fatalf("player balance %d, want %d", got, want)
	}
	record, _ := engine.GetPlayer(player)
	if record.PendingRewards != 0 || record.TotalClaimed != want {
		t.Fatalf("unexpected record after claim: %+v", record)
	}

	if _, err := engine.Claim(player); !errors.Is(err, ErrNoRewards) {
		t.Fatalf("expected empty claim rejection, got %v", err)
	}
}

func TestClaimRollsBackOnVaultShortfall(t *testing.T) {
	state := initializedState()
	engine := gameEngine(state, 1000)
	player := addr(0x01)
	// Vault underfunded: the transfer fails.

	if _, _, err := engine.Play(player, 15); err != nil {
		t.Fatalf("play: %v", err)
	}
	if _, err := engine.Claim(player); err == nil {
		t.Fatalf("expected claim failure on empty vault")
	}
	record, _ := engine.GetPlayer(player)
	if record.PendingRewards != FizzBuzzReward || record.TotalClaimed != 0 {
		t.Fatalf("pending balance not restored: %+v", record)
	}
}

func TestClaimRequiresMarket(t *testing.T) {
	engine := gameEngine(newMockState(), 1000)
	if _, err := engine.Claim(addr(0x01)); !errors.Is(err, market.ErrNotInitialized) {
		t.Fatalf("expected uninitialized market error, got %v", err)
	}
}

func TestGetPlayerUnknown(t *testing.T) {
	engine := gameEngine(initializedState(), 1000)
	if _, err := engine.GetPlayer(addr(0x09)); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
}
