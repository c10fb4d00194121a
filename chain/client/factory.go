package client

import (
	"context"
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/agentbet/gopredict/chain/types"
)

// SecondsPerDay converts the UI's duration-in-days input to the
// contract's duration-in-seconds parameter.
const SecondsPerDay = 86400

// CreateMarketParams are the user inputs for a new prediction market.
// Duration is entered in days and transmitted in seconds. Outcome
// count and duration floor are contract policy, not checked here.
type CreateMarketParams struct {
	AgentID      uint64
	Question     string
	Description  string
	Category     types.Category
	Outcomes     []string
	DurationDays uint64
}

// MarketFactoryClient is the façade over the MarketFactory contract.
type MarketFactoryClient struct {
	contract  *BoundContract
	ledger    Ledger
	lifecycle *TransactionLifecycle
}

// NewMarketFactoryClient binds the façade to the deployed factory.
func NewMarketFactoryClient(contract *BoundContract, ledger Ledger, lifecycle *TransactionLifecycle) *MarketFactoryClient {
	return &MarketFactoryClient{contract: contract, ledger: ledger, lifecycle: lifecycle}
}

// CreateMarket submits createMarket with the declared argument order:
// agentId, question, description, category, outcomes, duration.
func (c *MarketFactoryClient) CreateMarket(ctx context.Context, params CreateMarketParams) (*TransactionHandle, error) {
	durationSeconds := new(big.Int).Mul(
		new(big.Int).SetUint64(params.DurationDays),
		big.NewInt(SecondsPerDay),
	)
	desc, err := c.contract.Encode("createMarket", []interface{}{
		params.AgentID,
		params.Question,
		params.Description,
		uint8(params.Category),
		params.Outcomes,
		durationSeconds,
	}, nil)
	if err != nil {
		return nil, err
	}
	return c.lifecycle.Submit(ctx, desc)
}

// MarketQuery builds a conditional read of getMarket. While marketID
// points to nil the query stays idle and no ledger call is made.
func (c *MarketFactoryClient) MarketQuery(marketID *uint64) *ReadQuery[*types.Market] {
	build := func() (*CallDescriptor, error) {
		if marketID == nil {
			return nil, nil
		}
		return c.contract.Encode("getMarket", []interface{}{*marketID}, nil)
	}
	return NewReadQuery(c.ledger, build, c.decodeMarket)
}

// GetMarket reads one market by id.
func (c *MarketFactoryClient) GetMarket(ctx context.Context, marketID uint64) (*types.Market, error) {
	desc, err := c.contract.Encode("getMarket", []interface{}{marketID}, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return c.decodeMarket(raw)
}

// TotalMarkets reads the created market count.
func (c *MarketFactoryClient) TotalMarkets(ctx context.Context) (*big.Int, error) {
	desc, err := c.contract.Encode("totalMarkets", nil, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return decodeUint256(c.contract, "totalMarkets")(raw)
}

// ListMarkets reads markets 0..totalMarkets-1, capped at limit when
// limit > 0.
func (c *MarketFactoryClient) ListMarkets(ctx context.Context, limit int) ([]*types.Market, error) {
	total, err := c.TotalMarkets(ctx)
	if err != nil {
		return nil, err
	}
	count := total.Uint64()
	if limit > 0 && uint64(limit) < count {
		count = uint64(limit)
	}
	markets := make([]*types.Market, 0, count)
	for id := uint64(0); id < count; id++ {
		market, err := c.GetMarket(ctx, id)
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
	}
	return markets, nil
}

// CreatedEvent extracts the MarketCreated event from a confirmed
// receipt, exposing the id the factory assigned.
func (c *MarketFactoryClient) CreatedEvent(receipt *ethtypes.Receipt) (*types.MarketCreatedEvent, bool, error) {
	var ev types.MarketCreatedEvent
	found, err := c.contract.FindEvent("MarketCreated", receipt, &ev)
	if err != nil || !found {
		return nil, found, err
	}
	return &ev, true, nil
}

func (c *MarketFactoryClient) decodeMarket(raw []byte) (*types.Market, error) {
	var market types.Market
	if err := c.contract.Decode("getMarket", raw, &market); err != nil {
		return nil, err
	}
	return &market, nil
}
