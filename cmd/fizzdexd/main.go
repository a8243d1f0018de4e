package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fizzdex/config"
	"fizzdex/core"
	"fizzdex/crypto"
	"fizzdex/native/market"
	"fizzdex/observability"
	"fizzdex/observability/logging"
	"fizzdex/rpc"
	"fizzdex/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("FIZZDEX_ENV"))
	logger := logging.Setup("fizzdexd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if env == "" {
		logger = logging.Setup("fizzdexd", cfg.Env)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	node := core.NewNode(db)
	node.SetEmitter(observability.NewSink(logger))

	if cfg.BootstrapMarket() {
		if err := bootstrapMarket(node, cfg, logger); err != nil {
			panic(fmt.Sprintf("Failed to bootstrap market: %v", err))
		}
	}

	rpcServer := rpc.NewServer(node)
	logger.Info("Starting RPC server",
		slog.String("address", cfg.RPCAddress),
		slog.String("network", cfg.NetworkName))
	if err := rpcServer.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// bootstrapMarket seeds the global market state from the [market] config
// section. A market that already exists in the data directory wins; the
// config seed is only applied on first boot.
func bootstrapMarket(node *core.Node, cfg *config.Config, logger *slog.Logger) error {
	authority, err := crypto.DecodeAddress(cfg.Market.Authority)
	if err != nil {
		return err
	}
	var authorityBytes [20]byte
	copy(authorityBytes[:], authority.Bytes())

	state, err := node.MarketInitialize(authorityBytes, cfg.Market.RewardAsset, cfg.Market.FeeBps)
	if errors.Is(err, market.ErrAlreadyInitialized) {
		logger.Info("Market already initialised, ignoring config seed")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("Market initialised",
		slog.String("authority", cfg.Market.Authority),
		slog.String("rewardAsset", state.RewardAsset),
		slog.Uint64("feeBps", uint64(state.FeeBps)))
	return nil
}
