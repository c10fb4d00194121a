package client

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbet/gopredict/chain/types"
)

func big1(n int64) *big.Int { return big.NewInt(n) }

func newTestClient(t *testing.T, ledger Ledger) *Client {
	t.Helper()
	c, err := NewWithLedger(ledger, types.ChainBase, nil)
	require.NoError(t, err)
	return c
}

func TestReadQueryIdleWithoutInputs(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	// No agent id chosen yet: the query must stay idle and must not
	// touch the ledger.
	query := c.AgentRegistry.AgentQuery(nil)
	result := query.Execute(context.Background())

	assert.True(t, result.Idle())
	assert.False(t, result.Loading)
	assert.False(t, result.Present)
	assert.NoError(t, result.Err)
	assert.Equal(t, 0, mock.CallCount("ReadCall"))
}

func TestReadQueryExecutesWhenInputResolves(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)

	registry := bindRegistry(t)
	agent := types.Agent{
		Id:           big1(7),
		Name:         "Forecaster",
		MetadataURI:  "ipfs://meta",
		TotalStaked:  big1(100),
		SponsorCount: big1(2),
		Reputation:   big1(50),
		IsActive:     true,
		CreatedAt:    big1(1700000000),
	}
	raw, err := registry.ABI.Methods["getAgent"].Outputs.Pack(agent)
	require.NoError(t, err)
	mock.ReadResults["getAgent"] = raw

	var agentID *uint64
	query := c.AgentRegistry.AgentQuery(agentID)

	// Pointer target unresolved: still idle.
	assert.True(t, query.Execute(context.Background()).Idle())
	assert.Equal(t, 0, mock.CallCount("ReadCall"))

	// Same query identity, input now resolved.
	id := uint64(7)
	query = c.AgentRegistry.AgentQuery(&id)
	result := query.Execute(context.Background())

	require.NoError(t, result.Err)
	require.True(t, result.Present)
	assert.Equal(t, "Forecaster", result.Value.Name)
	assert.True(t, result.Value.IsActive)
	assert.Equal(t, 0, result.Value.Id.Cmp(big1(7)))
	assert.Equal(t, 1, mock.CallCount("ReadCall"))
}

func TestReadQueryRefetchIsIdempotent(t *testing.T) {
	mock := NewMockLedger()
	registry := bindRegistry(t)

	raw, err := registry.ABI.Methods["totalAgents"].Outputs.Pack(big1(3))
	require.NoError(t, err)
	mock.ReadResults["totalAgents"] = raw

	query := NewReadQuery(mock, func() (*CallDescriptor, error) {
		return registry.Encode("totalAgents", nil, nil)
	}, decodeUint256(registry, "totalAgents"))

	first := query.Execute(context.Background())
	second := query.Execute(context.Background())

	require.True(t, first.Present)
	require.True(t, second.Present)
	assert.Equal(t, 0, first.Value.Cmp(second.Value))
	assert.Equal(t, 2, mock.CallCount("ReadCall"))
}

func TestReadQueryDecodeError(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)
	mock.ReadResults["getAgent"] = []byte{0x01, 0x02} // malformed shape

	id := uint64(1)
	result := c.AgentRegistry.AgentQuery(&id).Execute(context.Background())

	var decodeErr *DecodeError
	require.ErrorAs(t, result.Err, &decodeErr)
	assert.False(t, result.Present)
	assert.False(t, result.Loading)
}

func TestReadQueryLedgerErrorIsolated(t *testing.T) {
	mock := NewMockLedger()
	c := newTestClient(t, mock)
	mock.ErrorOnNext["ReadCall"] = errors.New("node down")

	id := uint64(1)
	query := c.AgentRegistry.AgentQuery(&id)
	result := query.Execute(context.Background())
	require.Error(t, result.Err)
	assert.False(t, result.Present)

	// A sibling query is unaffected by the failure.
	registry := bindRegistry(t)
	raw, err := registry.ABI.Methods["totalAgents"].Outputs.Pack(big1(5))
	require.NoError(t, err)
	mock.ReadResults["totalAgents"] = raw
	total, err := c.AgentRegistry.TotalAgents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total.Cmp(big1(5)))
}

// gateLedger blocks ReadCall until released, to observe in-flight state.
type gateLedger struct {
	*MockLedger
	entered chan struct{}
	release chan struct{}
}

func (g *gateLedger) ReadCall(ctx context.Context, desc *CallDescriptor) ([]byte, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.MockLedger.ReadCall(ctx, desc)
}

func TestReadQueryCollapsesConcurrentExecutes(t *testing.T) {
	gate := &gateLedger{
		MockLedger: NewMockLedger(),
		entered:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
	registry := bindRegistry(t)
	raw, err := registry.ABI.Methods["totalAgents"].Outputs.Pack(big1(9))
	require.NoError(t, err)
	gate.ReadResults["totalAgents"] = raw

	query := NewReadQuery(gate, func() (*CallDescriptor, error) {
		return registry.Encode("totalAgents", nil, nil)
	}, decodeUint256(registry, "totalAgents"))

	results := make(chan struct{})
	go func() {
		query.Execute(context.Background())
		close(results)
	}()

	<-gate.entered // first execute is now in flight

	// A concurrent execute collapses: it reports the loading snapshot
	// without issuing a second ledger call.
	snapshot := query.Execute(context.Background())
	assert.True(t, snapshot.Loading)

	close(gate.release)
	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("first execute did not finish")
	}

	final := query.Snapshot()
	require.True(t, final.Present)
	assert.Equal(t, 0, final.Value.Cmp(big1(9)))

	// Both executes together produced exactly one ledger read.
	assert.Equal(t, 1, gate.CallCount("ReadCall"))
}

func TestReadQuerySubscribe(t *testing.T) {
	mock := NewMockLedger()
	registry := bindRegistry(t)
	raw, err := registry.ABI.Methods["totalAgents"].Outputs.Pack(big1(4))
	require.NoError(t, err)
	mock.ReadResults["totalAgents"] = raw

	query := NewReadQuery(mock, func() (*CallDescriptor, error) {
		return registry.Encode("totalAgents", nil, nil)
	}, decodeUint256(registry, "totalAgents"))

	ch, cancel := query.Subscribe()
	defer cancel()

	query.Execute(context.Background())

	select {
	case snapshot := <-ch:
		// The subscriber sees the latest snapshot; intermediate
		// loading states may be dropped.
		if snapshot.Loading {
			snapshot = <-ch
		}
		require.True(t, snapshot.Present)
		assert.Equal(t, 0, snapshot.Value.Cmp(big1(4)))
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}
}
