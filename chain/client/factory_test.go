package client

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbet/gopredict/chain/types"
)

func packMarketResult(t *testing.T, market types.Market) []byte {
	t.Helper()
	raw, err := bindFactory(t).ABI.Methods["getMarket"].Outputs.Pack(market)
	require.NoError(t, err)
	return raw
}

func TestCreateMarketDurationInSeconds(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	_, err := c.MarketFactory.CreateMarket(context.Background(), CreateMarketParams{
		AgentID:      3,
		Question:     "Will ETH close above 5000 this quarter?",
		Description:  "Settles on the quarterly close.",
		Category:     types.CategoryCrypto,
		Outcomes:     []string{"Yes", "No"},
		DurationDays: 7,
	})
	require.NoError(t, err)

	require.Len(t, mock.Submitted, 1)
	desc := mock.Submitted[0]
	assert.Equal(t, "createMarket", desc.Function)
	assert.Nil(t, desc.Value)

	// Days are converted before encoding: 7 days is 604800 seconds.
	method := bindFactory(t).ABI.Methods["createMarket"]
	args, err := method.Inputs.Unpack(desc.Data[4:])
	require.NoError(t, err)
	require.Len(t, args, 6)
	assert.Equal(t, 0, args[0].(*big.Int).Cmp(big1(3)))
	assert.Equal(t, uint8(types.CategoryCrypto), args[3].(uint8))
	assert.Equal(t, []string{"Yes", "No"}, args[4].([]string))
	assert.Equal(t, 0, args[5].(*big.Int).Cmp(big1(604800)))
}

func TestCreateMarketManyOutcomes(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	// Outcome count limits are contract policy; the client transmits
	// whatever the caller supplies.
	outcomes := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}
	_, err := c.MarketFactory.CreateMarket(context.Background(), CreateMarketParams{
		AgentID:      1,
		Question:     "Which letter wins?",
		Category:     types.CategoryOther,
		Outcomes:     outcomes,
		DurationDays: 1,
	})
	require.NoError(t, err)

	method := bindFactory(t).ABI.Methods["createMarket"]
	args, err := method.Inputs.Unpack(mock.Submitted[0].Data[4:])
	require.NoError(t, err)
	assert.Equal(t, outcomes, args[4].([]string))
}

func TestGetMarketDecodesTuple(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	creator := common.HexToAddress("0x00000000000000000000000000000000000000DD")
	mock.ReadResults["getMarket"] = packMarketResult(t, types.Market{
		Id:             big1(4),
		AgentId:        big1(3),
		Creator:        creator,
		Question:       "Will it rain tomorrow?",
		Description:    "Resolved against the local station.",
		Category:       uint8(types.CategoryOther),
		OutcomeCount:   big1(2),
		TotalVolume:    big1(0),
		CreatedAt:      big1(1700000000),
		Deadline:       big1(1700604800),
		IsResolved:     false,
		WinningOutcome: big1(0),
	})

	market, err := c.MarketFactory.GetMarket(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 0, market.Id.Cmp(big1(4)))
	assert.Equal(t, creator, market.Creator)
	assert.Equal(t, "Will it rain tomorrow?", market.Question)
	assert.False(t, market.IsResolved)
}

func TestListMarketsReadsAll(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	total, err := bindFactory(t).ABI.Methods["totalMarkets"].Outputs.Pack(big1(2))
	require.NoError(t, err)
	mock.ReadResults["totalMarkets"] = total
	mock.ReadResults["getMarket"] = packMarketResult(t, types.Market{
		Id:             big1(0),
		AgentId:        big1(0),
		Creator:        common.Address{},
		Question:       "q",
		Description:    "",
		Category:       0,
		OutcomeCount:   big1(2),
		TotalVolume:    big1(0),
		CreatedAt:      big1(0),
		Deadline:       big1(0),
		IsResolved:     false,
		WinningOutcome: big1(0),
	})

	markets, err := c.MarketFactory.ListMarkets(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, markets, 2)
	assert.Equal(t, 2, mock.CallCount("read:getMarket"))
}
