package market

import (
	"errors"
	"math/big"

	"fizzdex/core/events"
	"fizzdex/core/types"
)

var errNilState = errors.New("market engine: state not configured")

type engineState interface {
	MarketGet() (*MarketState, bool)
	MarketPut(*MarketState) error
}

type marketEvent struct {
	evt *types.Event
}

func (e marketEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketEvent) Event() *types.Event { return e.evt }

// Engine owns the global market singleton: one-time initialisation, the
// administrator-gated pause flag, and the aggregate counters fed by the pool
// and rewards engines.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine creates a market engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
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
	e.emitter.Emit(marketEvent{evt: event})
}

// Initialize creates the global market singleton. It fails if the singleton
// already exists; the first caller becomes the administrator.
func (e *Engine) Initialize(authority [20]byte, rewardAsset string, feeBps uint32) (*MarketState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if feeBps > MaxFeeBps {
		return nil, ErrFeeTooHigh
	}
	asset, err := NormalizeAsset(rewardAsset)
	if err != nil {
		return nil, err
	}
	if _, ok := e.state.MarketGet(); ok {
		return nil, ErrAlreadyInitialized
	}
	state := &MarketState{
		Authority:    authority,
		RewardAsset:  asset,
		FeeBps:       feeBps,
		TotalVolume:  big.NewInt(0),
		TotalPlayers: 0,
		Paused:       false,
	}
	if err := e.state.MarketPut(state); err != nil {
		return nil, err
	}
	e.emit(events.MarketInitialized{Authority: authority, RewardAsset: asset, FeeBps: feeBps}.Event())
	return state.Clone(), nil
}

// SetPause toggles the emergency pause flag. Only the administrator recorded
// at initialisation may invoke it. The flag gates pool operations; the HTLC
// engine deliberately ignores it so bilateral, time-bound swaps cannot be
// trapped by an operator pause.
func (e *Engine) SetPause(caller [20]byte, paused bool) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	state, ok := e.state.MarketGet()
	if !ok {
		return ErrNotInitialized
	}
	if caller != state.Authority {
		return ErrUnauthorized
	}
	state.Paused = paused
	if err := e.state.MarketPut(state); err != nil {
		return err
	}
	e.emit(events.MarketPauseSet{Paused: paused}.Event())
	return nil
}

// Get returns a copy of the market singleton.
func (e *Engine) Get() (*MarketState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	state, ok := e.state.MarketGet()
	if !ok {
		return nil, ErrNotInitialized
	}
	return state.Clone(), nil
}
