// Package config loads the YAML configuration file and applies
// environment overrides. Secrets (keys, mnemonics) are expected from
// the environment, not the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/agentbet/gopredict/chain/types"
)

// WalletConfig selects the signing key. PrivateKey wins over Mnemonic
// when both are set; both empty means a read-only client.
type WalletConfig struct {
	PrivateKey     string `yaml:"private_key"`
	Mnemonic       string `yaml:"mnemonic"`
	DerivationPath string `yaml:"derivation_path"`
}

// ContractsConfig optionally overrides the deployed addresses, e.g.
// for a fork or a testnet deployment. Empty fields keep the defaults.
type ContractsConfig struct {
	AgentRegistry   string `yaml:"agent_registry"`
	MarketFactory   string `yaml:"market_factory"`
	BettingEngine   string `yaml:"betting_engine"`
	OracleResolver  string `yaml:"oracle_resolver"`
	TreasuryManager string `yaml:"treasury_manager"`
}

// ServerConfig configures the REST gateway.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// JournalConfig configures the local transaction journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the shared logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	OutputFile string `yaml:"output_file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// MetadataConfig configures agent profile fetching.
type MetadataConfig struct {
	IPFSGateway string `yaml:"ipfs_gateway"`
}

// Config is the full process configuration.
type Config struct {
	RPCURL    string          `yaml:"rpc_url"`
	ChainID   int64           `yaml:"chain_id"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Contracts ContractsConfig `yaml:"contracts"`
	Server    ServerConfig    `yaml:"server"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
	Metadata  MetadataConfig  `yaml:"metadata"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		RPCURL:  "https://mainnet.base.org",
		ChainID: int64(types.ChainBase),
		Server:  ServerConfig{Listen: ":8080"},
		Journal: JournalConfig{Path: "data/journal.db"},
		Log:     LogConfig{Level: "info", MaxSize: 50, MaxBackups: 5, MaxAge: 14},
	}
}

// Load reads path (optional), merges it over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.RPCURL == "" {
		return cfg, fmt.Errorf("rpc_url is required")
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = int64(types.ChainBase)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.RPCURL, "GOPREDICT_RPC_URL")
	setString(&cfg.Wallet.PrivateKey, "GOPREDICT_PRIVATE_KEY")
	setString(&cfg.Wallet.Mnemonic, "GOPREDICT_MNEMONIC")
	setString(&cfg.Wallet.DerivationPath, "GOPREDICT_DERIVATION_PATH")
	setString(&cfg.Server.Listen, "GOPREDICT_LISTEN")
	setString(&cfg.Journal.Path, "GOPREDICT_JOURNAL_PATH")
	setString(&cfg.Log.Level, "GOPREDICT_LOG_LEVEL")
	setString(&cfg.Log.OutputFile, "GOPREDICT_LOG_FILE")
	setString(&cfg.Metadata.IPFSGateway, "GOPREDICT_IPFS_GATEWAY")

	if v := os.Getenv("GOPREDICT_CHAIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.ChainID = id
		}
	}
}
