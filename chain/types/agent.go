package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Agent mirrors the tuple returned by AgentRegistry.getAgent.
// Field names must match the ABI component names for unpacking.
type Agent struct {
	Id           *big.Int
	Creator      common.Address
	Name         string
	MetadataURI  string
	TotalStaked  *big.Int
	SponsorCount *big.Int
	Reputation   *big.Int
	IsActive     bool
	CreatedAt    *big.Int
}

// AgentRegisteredEvent is the decoded AgentRegistered log.
type AgentRegisteredEvent struct {
	AgentId *big.Int
	Creator common.Address
	Name    string
	Stake   *big.Int
}

// AgentSponsoredEvent is the decoded AgentSponsored log.
type AgentSponsoredEvent struct {
	AgentId *big.Int
	Sponsor common.Address
	Amount  *big.Int
}
