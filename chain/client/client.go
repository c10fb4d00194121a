package client

import (
	"fmt"

	"github.com/agentbet/gopredict/chain/types"
)

// Options configure a Client. Contracts defaults to the deployment for
// ChainID; Signer may be nil for a read-only client.
type Options struct {
	RPCURL    string
	ChainID   types.Chain
	Contracts *ContractConfig
	Signer    Signer
}

// Client bundles the façades over the five protocol contracts, all
// sharing one ledger connection and one transaction lifecycle engine.
type Client struct {
	ChainID   types.Chain
	Ledger    Ledger
	Lifecycle *TransactionLifecycle

	AgentRegistry  *AgentRegistryClient
	MarketFactory  *MarketFactoryClient
	BettingEngine  *BettingEngineClient
	OracleResolver *OracleResolverClient
	Treasury       *TreasuryClient

	ethLedger *EthLedger
}

// New dials the node and constructs the façades.
func New(opts Options) (*Client, error) {
	if opts.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if opts.ChainID == 0 {
		opts.ChainID = types.ChainBase
	}
	ledger, err := DialLedger(opts.RPCURL, opts.ChainID, opts.Signer)
	if err != nil {
		return nil, err
	}
	c, err := NewWithLedger(ledger, opts.ChainID, opts.Contracts)
	if err != nil {
		ledger.Close()
		return nil, err
	}
	c.ethLedger = ledger
	return c, nil
}

// NewWithLedger constructs the façades over an existing ledger
// capability. Tests use this with a mock.
func NewWithLedger(ledger Ledger, chainID types.Chain, contracts *ContractConfig) (*Client, error) {
	if contracts == nil {
		cfg, err := GetContractConfig(chainID)
		if err != nil {
			return nil, err
		}
		contracts = cfg
	}

	bind := func(name, abiJSON string) (*BoundContract, error) {
		addr, err := contracts.Address(name)
		if err != nil {
			return nil, err
		}
		return BindContract(name, abiJSON, addr)
	}

	registry, err := bind("AgentRegistry", AgentRegistryABI)
	if err != nil {
		return nil, err
	}
	factory, err := bind("MarketFactory", MarketFactoryABI)
	if err != nil {
		return nil, err
	}
	betting, err := bind("BettingEngine", BettingEngineABI)
	if err != nil {
		return nil, err
	}
	oracle, err := bind("OracleResolver", OracleResolverABI)
	if err != nil {
		return nil, err
	}
	treasury, err := bind("TreasuryManager", TreasuryManagerABI)
	if err != nil {
		return nil, err
	}

	lifecycle := NewTransactionLifecycle(ledger)

	return &Client{
		ChainID:        chainID,
		Ledger:         ledger,
		Lifecycle:      lifecycle,
		AgentRegistry:  NewAgentRegistryClient(registry, ledger, lifecycle),
		MarketFactory:  NewMarketFactoryClient(factory, ledger, lifecycle),
		BettingEngine:  NewBettingEngineClient(betting, ledger, lifecycle),
		OracleResolver: NewOracleResolverClient(oracle, ledger, lifecycle),
		Treasury:       NewTreasuryClient(treasury, ledger),
	}, nil
}

// Close releases the underlying RPC connection if the client owns one.
func (c *Client) Close() {
	if c.ethLedger != nil {
		c.ethLedger.Close()
	}
}
