package client

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// MockLedger is an in-memory Ledger for tests.
type MockLedger struct {
	mu sync.Mutex

	// Response data, keyed by function name for reads.
	ReadResults map[string][]byte

	// Submission behavior.
	SubmitErr       error           // rejection before broadcast
	ConfirmDelay    time.Duration   // how long confirmation takes
	ConfirmErr      error           // confirmation observation failure
	RevertOnConfirm bool            // mined receipt with status 0
	ReceiptLogs     []*ethtypes.Log // logs attached to mined receipts

	// Call tracking.
	Calls     map[string]int
	Submitted []*CallDescriptor

	// Error injection, consumed on first use.
	ErrorOnNext map[string]error

	nextHash uint64
}

// NewMockLedger creates an empty mock ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{
		ReadResults: make(map[string][]byte),
		Calls:       make(map[string]int),
		ErrorOnNext: make(map[string]error),
	}
}

func (m *MockLedger) trackCall(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
	if err, ok := m.ErrorOnNext[name]; ok {
		delete(m.ErrorOnNext, name)
		return err
	}
	return nil
}

// CallCount returns how often name was invoked.
func (m *MockLedger) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// ReadCall returns the canned result for the descriptor's function.
func (m *MockLedger) ReadCall(_ context.Context, desc *CallDescriptor) ([]byte, error) {
	if err := m.trackCall("ReadCall"); err != nil {
		return nil, err
	}
	if err := m.trackCall("read:" + desc.Function); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadResults[desc.Function], nil
}

// SubmitCall records the descriptor and hands out a fresh hash, or
// rejects when configured to.
func (m *MockLedger) SubmitCall(_ context.Context, desc *CallDescriptor) (common.Hash, error) {
	if err := m.trackCall("SubmitCall"); err != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: m.SubmitErr}
	}
	m.nextHash++
	m.Submitted = append(m.Submitted, desc)
	return common.BigToHash(new(big.Int).SetUint64(m.nextHash)), nil
}

// AwaitConfirmation waits ConfirmDelay and returns a mined receipt.
func (m *MockLedger) AwaitConfirmation(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	if err := m.trackCall("AwaitConfirmation"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	delay := m.ConfirmDelay
	confirmErr := m.ConfirmErr
	reverted := m.RevertOnConfirm
	logs := m.ReceiptLogs
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if confirmErr != nil {
		return nil, confirmErr
	}
	status := ethtypes.ReceiptStatusSuccessful
	if reverted {
		status = ethtypes.ReceiptStatusFailed
	}
	return &ethtypes.Receipt{TxHash: hash, Status: status, Logs: logs}, nil
}
