package client

import (
	"context"
	"math/big"
	"strings"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/agentbet/gopredict/chain/types"
)

// BettingEngineClient is the façade over the BettingEngine contract:
// bet placement, odds queries, and winnings claims.
type BettingEngineClient struct {
	contract  *BoundContract
	ledger    Ledger
	lifecycle *TransactionLifecycle
}

// NewBettingEngineClient binds the façade to the deployed engine.
func NewBettingEngineClient(contract *BoundContract, ledger Ledger, lifecycle *TransactionLifecycle) *BettingEngineClient {
	return &BettingEngineClient{contract: contract, ledger: ledger, lifecycle: lifecycle}
}

// PlaceBet submits placeBet(marketId, outcomeIndex, minPayout) with
// the bet amount attached as the transferred value. Amounts are
// display-unit decimal strings; an empty minPayout means no slippage
// floor ("0").
func (c *BettingEngineClient) PlaceBet(ctx context.Context, marketID, outcomeIndex uint64, betAmount, minPayout string) (*TransactionHandle, error) {
	value, err := ToBaseUnits(betAmount)
	if err != nil {
		return nil, err
	}
	if minPayout == "" {
		minPayout = "0"
	}
	minPayoutWei, err := ToBaseUnits(minPayout)
	if err != nil {
		return nil, err
	}
	desc, err := c.contract.Encode("placeBet", []interface{}{marketID, outcomeIndex, minPayoutWei}, value)
	if err != nil {
		return nil, err
	}
	return c.lifecycle.Submit(ctx, desc)
}

// OddsQuery builds a conditional read of getOdds for a prospective
// bet. The query stays idle — no ledger call — until betAmount points
// to a positive decimal string; a malformed amount fails the query
// without touching the ledger.
func (c *BettingEngineClient) OddsQuery(marketID, outcomeIndex uint64, betAmount *string) *ReadQuery[*big.Int] {
	build := func() (*CallDescriptor, error) {
		if betAmount == nil || strings.TrimSpace(*betAmount) == "" {
			return nil, nil
		}
		wei, err := ToBaseUnits(*betAmount)
		if err != nil {
			return nil, err
		}
		if wei.Sign() == 0 {
			return nil, nil
		}
		return c.contract.Encode("getOdds", []interface{}{marketID, outcomeIndex, wei}, nil)
	}
	return NewReadQuery(c.ledger, build, decodeUint256(c.contract, "getOdds"))
}

// GetOdds reads the projected payout in base units for a bet of
// betAmount (display units) on the given outcome.
func (c *BettingEngineClient) GetOdds(ctx context.Context, marketID, outcomeIndex uint64, betAmount string) (*big.Int, error) {
	wei, err := ToBaseUnits(betAmount)
	if err != nil {
		return nil, err
	}
	desc, err := c.contract.Encode("getOdds", []interface{}{marketID, outcomeIndex, wei}, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return decodeUint256(c.contract, "getOdds")(raw)
}

// ClaimWinnings submits claimWinnings(marketId). No value transfer:
// the function is nonpayable.
func (c *BettingEngineClient) ClaimWinnings(ctx context.Context, marketID uint64) (*TransactionHandle, error) {
	desc, err := c.contract.Encode("claimWinnings", []interface{}{marketID}, nil)
	if err != nil {
		return nil, err
	}
	return c.lifecycle.Submit(ctx, desc)
}

// PlacedEvent extracts the BetPlaced event from a confirmed receipt.
func (c *BettingEngineClient) PlacedEvent(receipt *ethtypes.Receipt) (*types.BetPlacedEvent, bool, error) {
	var ev types.BetPlacedEvent
	found, err := c.contract.FindEvent("BetPlaced", receipt, &ev)
	if err != nil || !found {
		return nil, found, err
	}
	return &ev, true, nil
}
