package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agentbet/gopredict/chain/client"
	"github.com/agentbet/gopredict/chain/types"
	"github.com/agentbet/gopredict/internal/config"
	"github.com/agentbet/gopredict/internal/journal"
	"github.com/agentbet/gopredict/internal/server"
	"github.com/agentbet/gopredict/internal/wallet"
	"github.com/agentbet/gopredict/pkg/logger"
	"github.com/agentbet/gopredict/pkg/metadata"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", os.Getenv("GOPREDICT_CONFIG"), "YAML config file path")
		listenAddr = flag.String("listen", "", "HTTP listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *listenAddr != "" {
		cfg.Server.Listen = *listenAddr
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.OutputFile,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	signer, err := buildSigner(cfg.Wallet)
	if err != nil {
		log.Fatalf("init signer failed: %v", err)
	}

	chain, err := client.New(client.Options{
		RPCURL:    cfg.RPCURL,
		ChainID:   types.Chain(cfg.ChainID),
		Contracts: contractsFromConfig(cfg.Contracts),
		Signer:    signer,
	})
	if err != nil {
		log.Fatalf("init chain client failed: %v", err)
	}
	defer chain.Close()

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Fatalf("open journal failed: %v", err)
	}
	defer j.Close()

	var metaOpts []metadata.Option
	if cfg.Metadata.IPFSGateway != "" {
		metaOpts = append(metaOpts, metadata.WithIPFSGateway(cfg.Metadata.IPFSGateway))
	}

	srv, err := server.New(server.Config{
		Chain:    chain,
		Journal:  j,
		Metadata: metadata.New(metaOpts...),
	})
	if err != nil {
		log.Fatalf("init server failed: %v", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Get().Infof("gateway listening on %s", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Errorf("http server error: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	fmt.Println("server stopped")
}

// buildSigner derives the signer from config. A nil signer means the
// gateway runs read-only and rejects submissions.
func buildSigner(cfg config.WalletConfig) (client.Signer, error) {
	switch {
	case cfg.PrivateKey != "":
		return wallet.FromPrivateKey(cfg.PrivateKey)
	case cfg.Mnemonic != "":
		return wallet.FromMnemonic(cfg.Mnemonic, cfg.DerivationPath)
	default:
		return nil, nil
	}
}

// contractsFromConfig applies the optional address overrides on top of
// the chain's default deployment.
func contractsFromConfig(cfg config.ContractsConfig) *client.ContractConfig {
	if cfg == (config.ContractsConfig{}) {
		return nil
	}
	contracts := client.BaseMainnetContracts
	if cfg.AgentRegistry != "" {
		contracts.AgentRegistry = cfg.AgentRegistry
	}
	if cfg.MarketFactory != "" {
		contracts.MarketFactory = cfg.MarketFactory
	}
	if cfg.BettingEngine != "" {
		contracts.BettingEngine = cfg.BettingEngine
	}
	if cfg.OracleResolver != "" {
		contracts.OracleResolver = cfg.OracleResolver
	}
	if cfg.TreasuryManager != "" {
		contracts.TreasuryManager = cfg.TreasuryManager
	}
	return &contracts
}
