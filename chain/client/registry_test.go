package client

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbet/gopredict/chain/types"
)

func packAgentResult(t *testing.T, agent types.Agent) []byte {
	t.Helper()
	raw, err := bindRegistry(t).ABI.Methods["getAgent"].Outputs.Pack(agent)
	require.NoError(t, err)
	return raw
}

func TestRegisterAgentAttachesStake(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	handle, err := c.AgentRegistry.RegisterAgent(context.Background(),
		"apollo", "ipfs://QmAgentMeta", "0.0001")
	require.NoError(t, err)
	require.NotNil(t, handle)

	require.Len(t, mock.Submitted, 1)
	desc := mock.Submitted[0]
	assert.Equal(t, "registerAgent", desc.Function)
	assert.Equal(t, common.HexToAddress(BaseMainnetContracts.AgentRegistry), desc.To)

	// 0.0001 display units is 10^14 base units.
	want, _ := new(big.Int).SetString("100000000000000", 10)
	assert.Equal(t, 0, desc.AttachedValue().Cmp(want))
}

func TestRegisterAgentInvalidStake(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	handle, err := c.AgentRegistry.RegisterAgent(context.Background(),
		"apollo", "ipfs://QmAgentMeta", "-1")
	assert.Nil(t, handle)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Amount validation fails before any network interaction.
	assert.Equal(t, 0, mock.CallCount("SubmitCall"))
}

func TestSponsorAgentValue(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	_, err := c.AgentRegistry.SponsorAgent(context.Background(), 7, "1.5")
	require.NoError(t, err)

	require.Len(t, mock.Submitted, 1)
	desc := mock.Submitted[0]
	assert.Equal(t, "sponsorAgent", desc.Function)
	want, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, 0, desc.AttachedValue().Cmp(want))
}

func TestGetAgentDecodesTuple(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	creator := common.HexToAddress("0x00000000000000000000000000000000000000AA")
	mock.ReadResults["getAgent"] = packAgentResult(t, types.Agent{
		Id:           big1(7),
		Creator:      creator,
		Name:         "apollo",
		MetadataURI:  "ipfs://QmAgentMeta",
		TotalStaked:  big1(100),
		SponsorCount: big1(2),
		Reputation:   big1(50),
		IsActive:     true,
		CreatedAt:    big1(1700000000),
	})

	agent, err := c.AgentRegistry.GetAgent(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, agent.Id.Cmp(big1(7)))
	assert.Equal(t, creator, agent.Creator)
	assert.Equal(t, "apollo", agent.Name)
	assert.True(t, agent.IsActive)
}

func TestListAgentsHonorsLimit(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	registry := bindRegistry(t)
	total, err := registry.ABI.Methods["totalAgents"].Outputs.Pack(big1(5))
	require.NoError(t, err)
	mock.ReadResults["totalAgents"] = total
	mock.ReadResults["getAgent"] = packAgentResult(t, types.Agent{
		Id:           big1(0),
		Creator:      common.Address{},
		Name:         "apollo",
		MetadataURI:  "",
		TotalStaked:  big1(0),
		SponsorCount: big1(0),
		Reputation:   big1(0),
		IsActive:     true,
		CreatedAt:    big1(0),
	})

	agents, err := c.AgentRegistry.ListAgents(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, agents, 3)
	assert.Equal(t, 3, mock.CallCount("read:getAgent"))
}

// registeredLog fabricates the AgentRegistered log the contract would
// emit: indexed agentId and creator in topics, name and stake in data.
func registeredLog(t *testing.T, addr common.Address, agentID int64, creator common.Address, name string, stake *big.Int) *ethtypes.Log {
	t.Helper()
	ev := bindRegistry(t).ABI.Events["AgentRegistered"]
	data, err := ev.Inputs.NonIndexed().Pack(name, stake)
	require.NoError(t, err)
	return &ethtypes.Log{
		Address: addr,
		Topics: []common.Hash{
			ev.ID,
			common.BigToHash(big.NewInt(agentID)),
			common.BytesToHash(common.LeftPadBytes(creator.Bytes(), 32)),
		},
		Data: data,
	}
}

func TestRegisteredEventFromReceipt(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	creator := common.HexToAddress("0x00000000000000000000000000000000000000BB")
	mock.ReceiptLogs = []*ethtypes.Log{
		registeredLog(t, common.HexToAddress(BaseMainnetContracts.AgentRegistry),
			12, creator, "apollo", big1(1000)),
	}

	handle, err := c.AgentRegistry.RegisterAgent(context.Background(),
		"apollo", "ipfs://QmAgentMeta", "0.0001")
	require.NoError(t, err)
	_, err = handle.Wait(context.Background())
	require.NoError(t, err)

	ev, found, err := c.AgentRegistry.RegisteredEvent(handle.Receipt())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, ev.AgentId.Cmp(big1(12)))
	assert.Equal(t, creator, ev.Creator)
	assert.Equal(t, "apollo", ev.Name)
	assert.Equal(t, 0, ev.Stake.Cmp(big1(1000)))
}

func TestRegisteredEventAbsent(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	// A log from another contract at the same topic does not match.
	creator := common.HexToAddress("0x00000000000000000000000000000000000000CC")
	other := common.HexToAddress("0x0000000000000000000000000000000000000001")
	mock.ReceiptLogs = []*ethtypes.Log{
		registeredLog(t, other, 1, creator, "impostor", big1(1)),
	}

	handle, err := c.AgentRegistry.SponsorAgent(context.Background(), 1, "0.001")
	require.NoError(t, err)
	_, err = handle.Wait(context.Background())
	require.NoError(t, err)

	ev, found, err := c.AgentRegistry.RegisteredEvent(handle.Receipt())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, ev)
}
