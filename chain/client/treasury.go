package client

import (
	"context"
	"math/big"
)

// TreasuryTotals is the protocol treasury snapshot: both values are in
// base units.
type TreasuryTotals struct {
	ProtocolTreasury *big.Int
	TotalDistributed *big.Int
}

// TreasuryClient is the read-only façade over the TreasuryManager
// contract.
type TreasuryClient struct {
	contract *BoundContract
	ledger   Ledger
}

// NewTreasuryClient binds the façade to the deployed treasury manager.
func NewTreasuryClient(contract *BoundContract, ledger Ledger) *TreasuryClient {
	return &TreasuryClient{contract: contract, ledger: ledger}
}

// ProtocolTreasury reads the current treasury balance.
func (c *TreasuryClient) ProtocolTreasury(ctx context.Context) (*big.Int, error) {
	return c.readUint256(ctx, "protocolTreasury")
}

// TotalDistributed reads the lifetime payout total.
func (c *TreasuryClient) TotalDistributed(ctx context.Context) (*big.Int, error) {
	return c.readUint256(ctx, "totalDistributed")
}

// Totals reads both treasury figures. The two reads are independent;
// the first failure aborts.
func (c *TreasuryClient) Totals(ctx context.Context) (*TreasuryTotals, error) {
	treasury, err := c.ProtocolTreasury(ctx)
	if err != nil {
		return nil, err
	}
	distributed, err := c.TotalDistributed(ctx)
	if err != nil {
		return nil, err
	}
	return &TreasuryTotals{ProtocolTreasury: treasury, TotalDistributed: distributed}, nil
}

func (c *TreasuryClient) readUint256(ctx context.Context, function string) (*big.Int, error) {
	desc, err := c.contract.Encode(function, nil, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return decodeUint256(c.contract, function)(raw)
}
