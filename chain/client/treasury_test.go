package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreasuryTotals(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	treasury := bindTreasury(t)
	balance, err := treasury.ABI.Methods["protocolTreasury"].Outputs.Pack(big1(7000))
	require.NoError(t, err)
	distributed, err := treasury.ABI.Methods["totalDistributed"].Outputs.Pack(big1(123456))
	require.NoError(t, err)
	mock.ReadResults["protocolTreasury"] = balance
	mock.ReadResults["totalDistributed"] = distributed

	totals, err := c.Treasury.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, totals.ProtocolTreasury.Cmp(big1(7000)))
	assert.Equal(t, 0, totals.TotalDistributed.Cmp(big1(123456)))
}

func TestTreasuryTotalsAbortsOnFirstFailure(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)
	mock.ErrorOnNext["read:protocolTreasury"] = errors.New("node unavailable")

	totals, err := c.Treasury.Totals(context.Background())
	assert.Nil(t, totals)
	assert.Error(t, err)
	assert.Equal(t, 0, mock.CallCount("read:totalDistributed"))
}

func bindTreasury(t *testing.T) *BoundContract {
	t.Helper()
	addr, err := BaseMainnetContracts.Address("TreasuryManager")
	require.NoError(t, err)
	contract, err := BindContract("TreasuryManager", TreasuryManagerABI, addr)
	require.NoError(t, err)
	return contract
}
