package state

var (
	marketStateKeyBytes = []byte("market/state")
	poolRecordPrefix    = []byte("amm/pool/")
	playerRecordPrefix  = []byte("rewards/player/")
	swapRecordPrefix    = []byte("htlc/record/")
	tokenMetaPrefix     = []byte("token/meta/")
	tokenBalancePrefix  = []byte("token/balance/")
)
