package rewards

import (
	"errors"
	"math/bits"
	"time"

	"fizzdex/core/events"
	"fizzdex/core/types"
	"fizzdex/native/market"
)

var errNilState = errors.New("rewards engine: state not configured")

type engineState interface {
	MarketGet() (*market.MarketState, bool)
	MarketPut(*market.MarketState) error
	PlayerGet(addr [20]byte) (*PlayerState, bool)
	PlayerPut(addr [20]byte, player *PlayerState) error
	Transfer(asset string, from, to [20]byte, amount uint64) error
}

type rewardsEvent struct {
	evt *types.Event
}

func (e rewardsEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e rewardsEvent) Event() *types.Event { return e.evt }

// Engine runs the Fizz Caps mini-game: cooldown-gated plays accruing tiered
// rewards into a pending balance, drained by Claim through the token ledger.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a rewards engine with a no-op emitter and the wall clock
// as time source.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetNowFunc overrides the time source used by the engine. Primarily
// intended for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

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
	e.emitter.Emit(rewardsEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Classify maps a number to its reward tier. Multiples of 15 take the top
// tier; the 3 check runs before the 5 check, so a plain multiple of 5 only
// reaches Buzz when it is not also a multiple of 3.
func Classify(number uint8) (string, uint64) {
	switch {
	case number%15 == 0:
		return TierFizzBuzz, FizzBuzzReward
	case number%3 == 0:
		return TierFizz, FizzReward
	case number%5 == 0:
		return TierBuzz, BuzzReward
	default:
		return TierNone, 0
	}
}

// Play accepts a number between 1 and 100, enforces the per-player cooldown
// and accrues the tier reward into the pending balance. The player record is
// created lazily; its first creation bumps the global distinct-player
// counter.
func (e *Engine) Play(player [20]byte, number uint8) (string, uint64, error) {
	if e == nil || e.state == nil {
		return "", 0, errNilState
	}
	if number == 0 || number > 100 {
		return "", 0, ErrInvalidNumber
	}
	now := e.now()
	record, existed := e.state.PlayerGet(player)
	if !existed {
		record = &PlayerState{}
	}
	if now < record.LastPlayTime+PlayCooldown {
		return "", 0, ErrCooldownActive
	}
	record.LastPlayTime = now
	totalPlays, err := checkedAdd(record.TotalPlays, 1)
	if err != nil {
		return "", 0, err
	}
	record.TotalPlays = totalPlays

	tier, reward := Classify(number)
	switch tier {
	case TierFizzBuzz:
		record.FizzBuzzCount++
	case TierFizz:
		record.FizzCount++
	case TierBuzz:
		record.BuzzCount++
	}
	if reward > 0 {
		pending, err := checkedAdd(record.PendingRewards, reward)
		if err != nil {
			return "", 0, err
		}
		record.PendingRewards = pending
	}
	if err := e.state.PlayerPut(player, record); err != nil {
		return "", 0, err
	}
	if !existed {
		if marketState, ok := e.state.MarketGet(); ok {
			marketState.TotalPlayers++
			if err := e.state.MarketPut(marketState); err != nil {
				return "", 0, err
			}
		}
	}
	e.emit(events.FizzCapsPlayed{Player: player, Number: number, Tier: tier, Reward: reward}.Event())
	return tier, reward, nil
}

// Claim drains the player's pending balance: it is zeroed, added to the
// lifetime claimed counter, and paid out from the reward vault in the
// market's reward asset.
func (e *Engine) Claim(player [20]byte) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	marketState, ok := e.state.MarketGet()
	if !ok {
		return 0, market.ErrNotInitialized
	}
	record, ok := e.state.PlayerGet(player)
	if !ok || record.PendingRewards == 0 {
		return 0, ErrNoRewards
	}
	amount := record.PendingRewards
	claimed, err := checkedAdd(record.TotalClaimed, amount)
	if err != nil {
		return 0, err
	}
	record.PendingRewards = 0
	record.TotalClaimed = claimed
	if err := e.state.PlayerPut(player, record); err != nil {
		return 0, err
	}
	if err := e.state.Transfer(marketState.RewardAsset, RewardVault(), player, amount); err != nil {
		record.PendingRewards = amount
		record.TotalClaimed = claimed - amount
		_ = e.state.PlayerPut(player, record)
		return 0, err
	}
	e.emit(events.RewardsClaimed{Player: player, Amount: amount}.Event())
	return amount, nil
}

// GetPlayer returns a copy of the player record.
func (e *Engine) GetPlayer(player [20]byte) (*PlayerState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok := e.state.PlayerGet(player)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return record.Clone(), nil
}
