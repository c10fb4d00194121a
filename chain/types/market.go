package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Market mirrors the tuple returned by MarketFactory.getMarket.
type Market struct {
	Id             *big.Int
	AgentId        *big.Int
	Creator        common.Address
	Question       string
	Description    string
	Category       uint8
	OutcomeCount   *big.Int
	TotalVolume    *big.Int
	CreatedAt      *big.Int
	Deadline       *big.Int
	IsResolved     bool
	WinningOutcome *big.Int
}

// Expired reports whether the betting deadline has passed.
func (m *Market) Expired(now time.Time) bool {
	if m.Deadline == nil {
		return false
	}
	return m.Deadline.Cmp(big.NewInt(now.Unix())) <= 0
}

// Resolution mirrors the tuple returned by OracleResolver.getResolution.
type Resolution struct {
	MarketId       *big.Int
	WinningOutcome *big.Int
	ResolvedAt     *big.Int
	Resolved       bool
}

// MarketCreatedEvent is the decoded MarketCreated log.
type MarketCreatedEvent struct {
	MarketId *big.Int
	AgentId  *big.Int
	Creator  common.Address
	Question string
}

// BetPlacedEvent is the decoded BetPlaced log.
type BetPlacedEvent struct {
	MarketId     *big.Int
	Bettor       common.Address
	OutcomeIndex *big.Int
	Amount       *big.Int
	Payout       *big.Int
}

// MarketResolvedEvent is the decoded MarketResolved log.
type MarketResolvedEvent struct {
	MarketId       *big.Int
	WinningOutcome *big.Int
	Resolver       common.Address
}
