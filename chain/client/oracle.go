package client

import (
	"context"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/agentbet/gopredict/chain/types"
)

// OracleResolverClient is the façade over the OracleResolver contract.
// Resolution logic lives in the contract; this façade only encodes the
// resolve call and reads resolution state back.
type OracleResolverClient struct {
	contract  *BoundContract
	ledger    Ledger
	lifecycle *TransactionLifecycle
}

// NewOracleResolverClient binds the façade to the deployed resolver.
func NewOracleResolverClient(contract *BoundContract, ledger Ledger, lifecycle *TransactionLifecycle) *OracleResolverClient {
	return &OracleResolverClient{contract: contract, ledger: ledger, lifecycle: lifecycle}
}

// ResolveMarket submits resolveMarket(marketId, winningOutcome).
func (c *OracleResolverClient) ResolveMarket(ctx context.Context, marketID, winningOutcome uint64) (*TransactionHandle, error) {
	desc, err := c.contract.Encode("resolveMarket", []interface{}{marketID, winningOutcome}, nil)
	if err != nil {
		return nil, err
	}
	return c.lifecycle.Submit(ctx, desc)
}

// ResolutionQuery builds a conditional read of getResolution. While
// marketID points to nil the query stays idle.
func (c *OracleResolverClient) ResolutionQuery(marketID *uint64) *ReadQuery[*types.Resolution] {
	build := func() (*CallDescriptor, error) {
		if marketID == nil {
			return nil, nil
		}
		return c.contract.Encode("getResolution", []interface{}{*marketID}, nil)
	}
	return NewReadQuery(c.ledger, build, c.decodeResolution)
}

// GetResolution reads the resolution state of one market.
func (c *OracleResolverClient) GetResolution(ctx context.Context, marketID uint64) (*types.Resolution, error) {
	desc, err := c.contract.Encode("getResolution", []interface{}{marketID}, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return c.decodeResolution(raw)
}

// ResolvedEvent extracts the MarketResolved event from a confirmed
// receipt.
func (c *OracleResolverClient) ResolvedEvent(receipt *ethtypes.Receipt) (*types.MarketResolvedEvent, bool, error) {
	var ev types.MarketResolvedEvent
	found, err := c.contract.FindEvent("MarketResolved", receipt, &ev)
	if err != nil || !found {
		return nil, found, err
	}
	return &ev, true, nil
}

func (c *OracleResolverClient) decodeResolution(raw []byte) (*types.Resolution, error) {
	var res types.Resolution
	if err := c.contract.Decode("getResolution", raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
