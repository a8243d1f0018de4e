package core

import (
	"sync"

	"fizzdex/core/events"
	"fizzdex/core/state"
	"fizzdex/native/amm"
	"fizzdex/native/htlc"
	"fizzdex/native/market"
	"fizzdex/native/rewards"
	"fizzdex/storage"
)

// Node wires the native engines to a shared state manager and serialises
// every call: each operation runs to completion against the store before the
// next one starts, so no caller ever observes a half-applied mutation. The
// per-pool stored lock inside the AMM engine stays on top of this as
// reentrancy defense-in-depth.
type Node struct {
	mu sync.Mutex

	state   *state.Manager
	market  *market.Engine
	amm     *amm.Engine
	htlc    *htlc.Engine
	rewards *rewards.Engine
}

// NewNode builds a node over the supplied database.
func NewNode(db storage.Database) *Node {
	manager := state.NewManager(db)
	node := &Node{
		state:   manager,
		market:  market.NewEngine(),
		amm:     amm.NewEngine(),
		htlc:    htlc.NewEngine(),
		rewards: rewards.NewEngine(),
	}
	node.market.SetState(manager)
	node.amm.SetState(manager)
	node.htlc.SetState(manager)
	node.rewards.SetState(manager)
	return node
}

// SetEmitter installs one event emitter across all engines.
func (n *Node) SetEmitter(emitter events.Emitter) {
	n.market.SetEmitter(emitter)
	n.amm.SetEmitter(emitter)
	n.htlc.SetEmitter(emitter)
	n.rewards.SetEmitter(emitter)
}

// SetNowFunc overrides the time source of the time-sensitive engines.
// Primarily intended for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.htlc.SetNowFunc(now)
	n.rewards.SetNowFunc(now)
}

// --- Global market state ---

func (n *Node) MarketInitialize(authority [20]byte, rewardAsset string, feeBps uint32) (*market.MarketState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.Initialize(authority, rewardAsset, feeBps)
}

func (n *Node) MarketSetPause(caller [20]byte, paused bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.SetPause(caller, paused)
}

func (n *Node) MarketGet() (*market.MarketState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.Get()
}

// --- Pool engine ---

func (n *Node) CreatePool(assetA, assetB string) (*amm.Pool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.amm.CreatePool(assetA, assetB)
}

func (n *Node) AddLiquidity(caller [20]byte, assetA, assetB string, amountA, amountB, minLPAmount uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.amm.AddLiquidity(caller, assetA, assetB, amountA, amountB, minLPAmount)
}

func (n *Node) Swap(caller [20]byte, assetA, assetB string, amountIn, minAmountOut uint64, aToB bool) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.amm.Swap(caller, assetA, assetB, amountIn, minAmountOut, aToB)
}

func (n *Node) GetPool(assetA, assetB string) (*amm.Pool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.amm.GetPool(assetA, assetB)
}

// --- Atomic swap engine ---

func (n *Node) AtomicSwapInitiate(initiator, participant [20]byte, asset string, amount uint64, secretHash [32]byte, timelock int64) (*htlc.AtomicSwap, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.htlc.Initiate(initiator, participant, asset, amount, secretHash, timelock)
}

func (n *Node) AtomicSwapComplete(caller [20]byte, id [32]byte, secret []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.htlc.Complete(caller, id, secret)
}

func (n *Node) AtomicSwapRefund(caller [20]byte, id [32]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.htlc.Refund(caller, id)
}

func (n *Node) AtomicSwapGet(id [32]byte) (*htlc.AtomicSwap, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.htlc.Get(id)
}

// --- Rewards ---

func (n *Node) RewardsPlay(player [20]byte, number uint8) (string, uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rewards.Play(player, number)
}

func (n *Node) RewardsClaim(player [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rewards.Claim(player)
}

func (n *Node) RewardsGetPlayer(player [20]byte) (*rewards.PlayerState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rewards.GetPlayer(player)
}

// --- Token ledger (operator surface) ---

func (n *Node) TokenMint(asset string, to [20]byte, amount uint64, authority [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	normalized, err := market.NormalizeAsset(asset)
	if err != nil {
		return err
	}
	return n.state.Mint(normalized, to, amount, authority)
}

func (n *Node) TokenBalance(asset string, addr [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	normalized, err := market.NormalizeAsset(asset)
	if err != nil {
		return 0, err
	}
	return n.state.Balance(normalized, addr)
}
