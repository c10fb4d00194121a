package client

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agentbet/gopredict/chain/types"
)

// ContractConfig holds the deployed addresses of the five protocol modules.
type ContractConfig struct {
	AgentRegistry   string
	MarketFactory   string
	BettingEngine   string
	OracleResolver  string
	TreasuryManager string
}

// BaseMainnetContracts are the Base mainnet deployments.
var BaseMainnetContracts = ContractConfig{
	AgentRegistry:   "0xC7e730797e1E4Cd988596a6BA4484a93A1211070",
	MarketFactory:   "0xd2D6c9739fb8e9dE6460CE24cc399ef473d01Bfd",
	BettingEngine:   "0xc0BBdb413A0c575b101C8c1E7873566d4A8Ff3Ae",
	OracleResolver:  "0x914ed4Fd86151d2C7edC753751007A082135AC48",
	TreasuryManager: "0x1049a4ef4e6Fdce61E98c38f6D5fb1D32A395D35",
}

// GetContractConfig returns the deployment for the given chain.
func GetContractConfig(chainID types.Chain) (*ContractConfig, error) {
	switch chainID {
	case types.ChainBase:
		return &BaseMainnetContracts, nil
	default:
		return nil, fmt.Errorf("unsupported chain id: %d", chainID)
	}
}

// Address parses the address for a named module, or fails if the
// module is unknown or the address malformed.
func (c *ContractConfig) Address(module string) (common.Address, error) {
	var raw string
	switch module {
	case "AgentRegistry":
		raw = c.AgentRegistry
	case "MarketFactory":
		raw = c.MarketFactory
	case "BettingEngine":
		raw = c.BettingEngine
	case "OracleResolver":
		raw = c.OracleResolver
	case "TreasuryManager":
		raw = c.TreasuryManager
	default:
		return common.Address{}, fmt.Errorf("unknown contract module: %s", module)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address for %s: %s", module, raw)
	}
	return common.HexToAddress(raw), nil
}
