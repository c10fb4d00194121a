package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/agentbet/gopredict/chain/types"
)

// TxStatus is a point-in-time snapshot of one transaction's lifecycle.
type TxStatus struct {
	Hash  common.Hash
	State types.TxState
	Err   error
}

// Pending reports whether the transaction is still in flight.
func (s TxStatus) Pending() bool { return s.State == types.TxStateSubmitted }

// Succeeded reports on-chain confirmation.
func (s TxStatus) Succeeded() bool { return s.State == types.TxStateConfirmed }

// TransactionHandle identifies one in-flight or completed transaction.
// The hash is immutable; the state advances monotonically
// submitted -> confirmed|failed and never regresses. Handles are never
// reused: every Submit produces a fresh one.
type TransactionHandle struct {
	hash common.Hash

	mu      sync.Mutex
	state   types.TxState
	err     error
	receipt *ethtypes.Receipt
	done    chan struct{}
	subs    map[int]chan TxStatus
	nextSub int
}

func newTransactionHandle(hash common.Hash) *TransactionHandle {
	return &TransactionHandle{
		hash:  hash,
		state: types.TxStateSubmitted,
		done:  make(chan struct{}),
		subs:  make(map[int]chan TxStatus),
	}
}

// Hash returns the submission identifier.
func (h *TransactionHandle) Hash() common.Hash { return h.hash }

// Status returns the current snapshot.
func (h *TransactionHandle) Status() TxStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return TxStatus{Hash: h.hash, State: h.state, Err: h.err}
}

// Pending reports whether a terminal state has not been reached yet.
func (h *TransactionHandle) Pending() bool { return h.Status().Pending() }

// Receipt returns the mined receipt once the handle is terminal, nil
// before that.
func (h *TransactionHandle) Receipt() *ethtypes.Receipt {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.receipt
}

// Wait blocks until the handle settles or ctx ends. Cancelling ctx
// stops observing only; the transaction itself is not revocable and
// the handle keeps resolving in the background.
func (h *TransactionHandle) Wait(ctx context.Context) (TxStatus, error) {
	select {
	case <-h.done:
		return h.Status(), nil
	case <-ctx.Done():
		return h.Status(), ctx.Err()
	}
}

// Subscribe returns a channel receiving status snapshots on every
// transition plus a cancel func. Slow consumers see the latest
// snapshot; intermediate ones may be dropped.
func (h *TransactionHandle) Subscribe() (<-chan TxStatus, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	ch := make(chan TxStatus, 1)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// settle advances to a terminal state exactly once. Later calls are
// no-ops: terminal states are final.
func (h *TransactionHandle) settle(state types.TxState, receipt *ethtypes.Receipt, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Terminal() {
		return
	}
	h.state = state
	h.receipt = receipt
	h.err = err
	close(h.done)
	status := TxStatus{Hash: h.hash, State: h.state, Err: h.err}
	for _, ch := range h.subs {
		select {
		case ch <- status:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- status:
			default:
			}
		}
	}
}

// Recorder observes submissions for bookkeeping. Implementations must
// not block; they are called inline on lifecycle transitions.
type Recorder interface {
	RecordSubmitted(hash common.Hash, desc *CallDescriptor)
	RecordSettled(hash common.Hash, state types.TxState, err error)
}

// TransactionLifecycle submits state-changing calls and tracks each
// one from broadcast to its terminal state. One engine is shared by
// all façades; every Submit produces an independent handle.
type TransactionLifecycle struct {
	ledger   Ledger
	recorder Recorder
	log      *logrus.Entry
}

// NewTransactionLifecycle wires the engine to the ledger capability.
func NewTransactionLifecycle(ledger Ledger) *TransactionLifecycle {
	return &TransactionLifecycle{
		ledger: ledger,
		log:    logrus.WithField("component", "lifecycle"),
	}
}

// SetRecorder attaches an optional submission recorder.
func (l *TransactionLifecycle) SetRecorder(r Recorder) { l.recorder = r }

// Submit hands the descriptor to the signing capability and, once
// broadcast is accepted, returns a handle already in the submitted
// state. A refusal before broadcast returns *SubmissionRejectedError
// and no handle; nothing was submitted. Exactly one transaction is
// produced per call — retries are the caller's explicit decision.
//
// ctx bounds the submission round-trip only. Confirmation is observed
// in the background until the transaction settles, however long that
// takes; bound your wait with the ctx passed to Wait.
func (l *TransactionLifecycle) Submit(ctx context.Context, desc *CallDescriptor) (*TransactionHandle, error) {
	hash, err := l.ledger.SubmitCall(ctx, desc)
	if err != nil {
		if _, ok := err.(*SubmissionRejectedError); !ok {
			err = &SubmissionRejectedError{Cause: err}
		}
		return nil, err
	}

	handle := newTransactionHandle(hash)
	if l.recorder != nil {
		l.recorder.RecordSubmitted(hash, desc)
	}

	go l.observe(handle)
	return handle, nil
}

func (l *TransactionLifecycle) observe(handle *TransactionHandle) {
	receipt, err := l.ledger.AwaitConfirmation(context.Background(), handle.Hash())

	var state types.TxState
	var settleErr error
	switch {
	case err != nil:
		state, settleErr = types.TxStateFailed, err
	case receipt.Status == ethtypes.ReceiptStatusSuccessful:
		state = types.TxStateConfirmed
	default:
		state, settleErr = types.TxStateFailed, fmt.Errorf("%w: %s", ErrReverted, handle.Hash().Hex())
	}

	handle.settle(state, receipt, settleErr)
	if l.recorder != nil {
		l.recorder.RecordSettled(handle.Hash(), state, settleErr)
	}

	entry := l.log.WithFields(logrus.Fields{"hash": handle.Hash().Hex(), "state": state})
	if settleErr != nil {
		entry.WithError(settleErr).Warn("transaction settled")
	} else {
		entry.Info("transaction settled")
	}
}
