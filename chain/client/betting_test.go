package client

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindBetting(t *testing.T) *BoundContract {
	t.Helper()
	addr, err := BaseMainnetContracts.Address("BettingEngine")
	require.NoError(t, err)
	contract, err := BindContract("BettingEngine", BettingEngineABI, addr)
	require.NoError(t, err)
	return contract
}

func TestPlaceBetAttachesAmount(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	_, err := c.BettingEngine.PlaceBet(context.Background(), 4, 1, "0.00001", "0.00002")
	require.NoError(t, err)

	require.Len(t, mock.Submitted, 1)
	desc := mock.Submitted[0]
	assert.Equal(t, "placeBet", desc.Function)

	// The bet amount rides as the transferred value, not an argument.
	wantValue, _ := new(big.Int).SetString("10000000000000", 10)
	assert.Equal(t, 0, desc.AttachedValue().Cmp(wantValue))

	args, err := bindBetting(t).ABI.Methods["placeBet"].Inputs.Unpack(desc.Data[4:])
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, 0, args[0].(*big.Int).Cmp(big1(4)))
	assert.Equal(t, 0, args[1].(*big.Int).Cmp(big1(1)))
	wantMin, _ := new(big.Int).SetString("20000000000000", 10)
	assert.Equal(t, 0, args[2].(*big.Int).Cmp(wantMin))
}

func TestPlaceBetDefaultsMinPayout(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	_, err := c.BettingEngine.PlaceBet(context.Background(), 4, 0, "0.5", "")
	require.NoError(t, err)

	args, err := bindBetting(t).ABI.Methods["placeBet"].Inputs.Unpack(mock.Submitted[0].Data[4:])
	require.NoError(t, err)
	assert.Equal(t, 0, args[2].(*big.Int).Sign())
}

func TestPlaceBetInvalidAmount(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	handle, err := c.BettingEngine.PlaceBet(context.Background(), 4, 0, "half an ether", "")
	assert.Nil(t, handle)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 0, mock.CallCount("SubmitCall"))
}

func TestOddsQueryIdleStates(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	// No amount entered yet: idle, no ledger traffic.
	query := c.BettingEngine.OddsQuery(4, 1, nil)
	result := query.Execute(context.Background())
	assert.True(t, result.Idle())

	empty := "  "
	result = c.BettingEngine.OddsQuery(4, 1, &empty).Execute(context.Background())
	assert.True(t, result.Idle())

	zero := "0"
	result = c.BettingEngine.OddsQuery(4, 1, &zero).Execute(context.Background())
	assert.True(t, result.Idle())

	assert.Equal(t, 0, mock.CallCount("ReadCall"))
}

func TestOddsQueryMalformedAmount(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	bad := "1..5"
	result := c.BettingEngine.OddsQuery(4, 1, &bad).Execute(context.Background())
	assert.ErrorIs(t, result.Err, ErrInvalidAmount)
	assert.False(t, result.Present)
	assert.Equal(t, 0, mock.CallCount("ReadCall"))
}

func TestOddsQueryResolves(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	payout, err := bindBetting(t).ABI.Methods["getOdds"].Outputs.Pack(big1(250))
	require.NoError(t, err)
	mock.ReadResults["getOdds"] = payout

	amount := "0.1"
	result := c.BettingEngine.OddsQuery(4, 1, &amount).Execute(context.Background())
	require.NoError(t, result.Err)
	require.True(t, result.Present)
	assert.Equal(t, 0, result.Value.Cmp(big1(250)))
}

func TestClaimWinningsNoValue(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	_, err := c.BettingEngine.ClaimWinnings(context.Background(), 9)
	require.NoError(t, err)

	require.Len(t, mock.Submitted, 1)
	desc := mock.Submitted[0]
	assert.Equal(t, "claimWinnings", desc.Function)
	assert.Equal(t, 0, desc.AttachedValue().Sign())
}
