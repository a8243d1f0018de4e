package htlc

import (
	"errors"
	"time"

	"fizzdex/core/events"
	"fizzdex/core/types"
	"fizzdex/crypto"
	"fizzdex/native/market"
)

var errNilState = errors.New("htlc engine: state not configured")

type engineState interface {
	SwapGet(id [32]byte) (*AtomicSwap, bool)
	SwapPut(*AtomicSwap) error
	Transfer(asset string, from, to [20]byte, amount uint64) error
}

type htlcEvent struct {
	evt *types.Event
}

func (e htlcEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e htlcEvent) Event() *types.Event { return e.evt }

// Engine implements the hash-time-locked atomic swap state machine:
// Open -> {Completed, Refunded}, both terminal and mutually exclusive.
// The engine is deliberately not gated by the market pause flag: an HTLC is
// bilateral and time-bound, and pausing it could trap escrowed funds past
// the timelock.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates an atomic swap engine with a no-op emitter and the wall
// clock as time source.
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
	e.emitter.Emit(htlcEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Initiate locks amount of asset in a dedicated escrow vault and opens a new
// swap record keyed by (initiator, participant, asset, timelock). The tuple
// must be unique; the timelock must be strictly in the future.
func (e *Engine) Initiate(initiator, participant [20]byte, asset string, amount uint64, secretHash [32]byte, timelock int64) (*AtomicSwap, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	normalized, err := market.NormalizeAsset(asset)
	if err != nil {
		return nil, err
	}
	if timelock <= e.now() {
		return nil, ErrInvalidTimelock
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	id := SwapID(initiator, participant, normalized, timelock)
	if _, ok := e.state.SwapGet(id); ok {
		return nil, ErrSwapExists
	}
	vault := EscrowVaultAddress(initiator, participant, normalized, timelock)
	if err := e.state.Transfer(normalized, initiator, vault, amount); err != nil {
		return nil, err
	}
	record := &AtomicSwap{
		ID:          id,
		Initiator:   initiator,
		Participant: participant,
		Asset:       normalized,
		EscrowVault: vault,
		Amount:      amount,
		SecretHash:  secretHash,
		Timelock:    timelock,
	}
	if err := e.state.SwapPut(record); err != nil {
		_ = e.state.Transfer(normalized, vault, initiator, amount)
		return nil, err
	}
	e.emit(events.AtomicSwapInitiated{
		ID:          id,
		Initiator:   initiator,
		Participant: participant,
		Asset:       normalized,
		Amount:      amount,
		Timelock:    timelock,
	}.Event())
	return record.Clone(), nil
}

// Complete settles the swap in favour of the participant against disclosure
// of the preimage. The secret is hashed with keccak256, matching EVM-side
// keccak256(secret) so the identical value unlocks both legs of a
// cross-chain swap. Replays against a terminal record are rejected, never
// absorbed.
func (e *Engine) Complete(caller [20]byte, id [32]byte, secret []byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, ok := e.state.SwapGet(id)
	if !ok {
		return ErrNotFound
	}
	if record.Completed {
		return ErrAlreadyCompleted
	}
	if record.Refunded {
		return ErrAlreadyRefunded
	}
	if caller != record.Participant {
		return ErrUnauthorized
	}
	if crypto.Keccak256(secret) != record.SecretHash {
		return ErrInvalidSecret
	}
	if err := e.state.Transfer(record.Asset, record.EscrowVault, record.Participant, record.Amount); err != nil {
		return err
	}
	record.Completed = true
	if err := e.state.SwapPut(record); err != nil {
		_ = e.state.Transfer(record.Asset, record.Participant, record.EscrowVault, record.Amount)
		return err
	}
	e.emit(events.AtomicSwapCompleted{ID: id, Secret: secret}.Event())
	return nil
}

// Refund returns the escrow to the initiator once the timelock has strictly
// elapsed. This is the sole recovery path when the participant never
// completes.
func (e *Engine) Refund(caller [20]byte, id [32]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, ok := e.state.SwapGet(id)
	if !ok {
		return ErrNotFound
	}
	if caller != record.Initiator {
		return ErrUnauthorized
	}
	if record.Completed {
		return ErrAlreadyCompleted
	}
	if record.Refunded {
		return ErrAlreadyRefunded
	}
	if e.now() <= record.Timelock {
		return ErrTimelockNotExpired
	}
	if err := e.state.Transfer(record.Asset, record.EscrowVault, record.Initiator, record.Amount); err != nil {
		return err
	}
	record.Refunded = true
	if err := e.state.SwapPut(record); err != nil {
		_ = e.state.Transfer(record.Asset, record.Initiator, record.EscrowVault, record.Amount)
		return err
	}
	e.emit(events.AtomicSwapRefunded{ID: id}.Event())
	return nil
}

// Get returns a copy of the swap record.
func (e *Engine) Get(id [32]byte) (*AtomicSwap, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok := e.state.SwapGet(id)
	if !ok {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}
