package client

import (
	"context"
	"math/big"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/agentbet/gopredict/chain/types"
)

// AgentRegistryClient is the façade over the AgentRegistry contract:
// agent registration, sponsoring, and agent lookups.
type AgentRegistryClient struct {
	contract  *BoundContract
	ledger    Ledger
	lifecycle *TransactionLifecycle
}

// NewAgentRegistryClient binds the façade to the deployed registry.
func NewAgentRegistryClient(contract *BoundContract, ledger Ledger, lifecycle *TransactionLifecycle) *AgentRegistryClient {
	return &AgentRegistryClient{contract: contract, ledger: ledger, lifecycle: lifecycle}
}

// RegisterAgent submits registerAgent(name, metadataURI) with the
// stake (display units, e.g. "0.0001") attached as the transferred
// value. Amount and encoding errors are returned before any network
// interaction.
func (c *AgentRegistryClient) RegisterAgent(ctx context.Context, name, metadataURI, stake string) (*TransactionHandle, error) {
	value, err := ToBaseUnits(stake)
	if err != nil {
		return nil, err
	}
	desc, err := c.contract.Encode("registerAgent", []interface{}{name, metadataURI}, value)
	if err != nil {
		return nil, err
	}
	return c.lifecycle.Submit(ctx, desc)
}

// SponsorAgent submits sponsorAgent(agentId) with the sponsorship
// amount attached.
func (c *AgentRegistryClient) SponsorAgent(ctx context.Context, agentID uint64, amount string) (*TransactionHandle, error) {
	value, err := ToBaseUnits(amount)
	if err != nil {
		return nil, err
	}
	desc, err := c.contract.Encode("sponsorAgent", []interface{}{agentID}, value)
	if err != nil {
		return nil, err
	}
	return c.lifecycle.Submit(ctx, desc)
}

// AgentQuery builds a conditional read of getAgent. While agentID
// points to nil the query stays idle and no ledger call is made.
func (c *AgentRegistryClient) AgentQuery(agentID *uint64) *ReadQuery[*types.Agent] {
	build := func() (*CallDescriptor, error) {
		if agentID == nil {
			return nil, nil
		}
		return c.contract.Encode("getAgent", []interface{}{*agentID}, nil)
	}
	return NewReadQuery(c.ledger, build, c.decodeAgent)
}

// GetAgent reads one agent by id.
func (c *AgentRegistryClient) GetAgent(ctx context.Context, agentID uint64) (*types.Agent, error) {
	desc, err := c.contract.Encode("getAgent", []interface{}{agentID}, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return c.decodeAgent(raw)
}

// TotalAgents reads the registered agent count.
func (c *AgentRegistryClient) TotalAgents(ctx context.Context) (*big.Int, error) {
	desc, err := c.contract.Encode("totalAgents", nil, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.ledger.ReadCall(ctx, desc)
	if err != nil {
		return nil, err
	}
	return decodeUint256(c.contract, "totalAgents")(raw)
}

// ListAgents reads agents 0..totalAgents-1, capped at limit when
// limit > 0. A failing individual read aborts the listing.
func (c *AgentRegistryClient) ListAgents(ctx context.Context, limit int) ([]*types.Agent, error) {
	total, err := c.TotalAgents(ctx)
	if err != nil {
		return nil, err
	}
	count := total.Uint64()
	if limit > 0 && uint64(limit) < count {
		count = uint64(limit)
	}
	agents := make([]*types.Agent, 0, count)
	for id := uint64(0); id < count; id++ {
		agent, err := c.GetAgent(ctx, id)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// RegisteredEvent extracts the AgentRegistered event from a confirmed
// receipt, exposing the id the contract assigned.
func (c *AgentRegistryClient) RegisteredEvent(receipt *ethtypes.Receipt) (*types.AgentRegisteredEvent, bool, error) {
	var ev types.AgentRegisteredEvent
	found, err := c.contract.FindEvent("AgentRegistered", receipt, &ev)
	if err != nil || !found {
		return nil, found, err
	}
	return &ev, true, nil
}

// SponsoredEvent extracts the AgentSponsored event from a confirmed
// receipt.
func (c *AgentRegistryClient) SponsoredEvent(receipt *ethtypes.Receipt) (*types.AgentSponsoredEvent, bool, error) {
	var ev types.AgentSponsoredEvent
	found, err := c.contract.FindEvent("AgentSponsored", receipt, &ev)
	if err != nil || !found {
		return nil, found, err
	}
	return &ev, true, nil
}

func (c *AgentRegistryClient) decodeAgent(raw []byte) (*types.Agent, error) {
	var agent types.Agent
	if err := c.contract.Decode("getAgent", raw, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// decodeUint256 decodes a single uint256 return value.
func decodeUint256(contract *BoundContract, function string) func([]byte) (*big.Int, error) {
	return func(raw []byte) (*big.Int, error) {
		var out *big.Int
		if err := contract.Decode(function, raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
