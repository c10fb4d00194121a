package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/agentbet/gopredict/chain/types"
)

// Ledger is the external node capability: side-effect-free reads,
// signed state-changing submissions, and confirmation observation.
// The production implementation talks JSON-RPC; tests swap in a mock.
type Ledger interface {
	// ReadCall executes desc against current state without mutating it.
	ReadCall(ctx context.Context, desc *CallDescriptor) ([]byte, error)

	// SubmitCall signs and broadcasts desc. A refusal before broadcast
	// returns *SubmissionRejectedError and no hash.
	SubmitCall(ctx context.Context, desc *CallDescriptor) (common.Hash, error)

	// AwaitConfirmation blocks until the transaction is mined or ctx
	// is done. A mined receipt with status 0 is returned as-is; the
	// caller classifies it as reverted.
	AwaitConfirmation(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error)
}

// Signer is the external wallet capability: it owns the key and signs
// transactions for its address. Key management is out of scope here.
type Signer interface {
	Address() common.Address
	SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// EthLedger implements Ledger over an Ethereum JSON-RPC node.
type EthLedger struct {
	client       *ethclient.Client
	signer       Signer
	chainID      *big.Int
	pollInterval time.Duration
	log          *logrus.Entry
}

// DialLedger connects to the node at rpcURL. The signer may be nil for
// read-only use; SubmitCall then rejects every call.
func DialLedger(rpcURL string, chainID types.Chain, signer Signer) (*EthLedger, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrLedgerUnavailable, rpcURL, err)
	}
	return &EthLedger{
		client:       client,
		signer:       signer,
		chainID:      big.NewInt(int64(chainID)),
		pollInterval: 2 * time.Second,
		log:          logrus.WithField("component", "ledger"),
	}, nil
}

// Close releases the underlying RPC connection.
func (l *EthLedger) Close() {
	l.client.Close()
}

// ReadCall issues eth_call against latest state.
func (l *EthLedger) ReadCall(ctx context.Context, desc *CallDescriptor) ([]byte, error) {
	to := desc.To
	raw, err := l.client.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: desc.Data,
	}, nil)
	if err != nil {
		if isRevertError(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReverted, desc.Function, err)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrLedgerUnavailable, desc.Function, err)
	}
	return raw, nil
}

// SubmitCall builds, signs and broadcasts a legacy transaction for
// desc. Every failure up to and including broadcast is a submission
// rejection: no handle exists and nothing was spent.
func (l *EthLedger) SubmitCall(ctx context.Context, desc *CallDescriptor) (common.Hash, error) {
	if l.signer == nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: fmt.Errorf("no signer configured")}
	}
	from := l.signer.Address()

	nonce, err := l.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: fmt.Errorf("fetch nonce: %w", err)}
	}
	gasPrice, err := l.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: fmt.Errorf("suggest gas price: %w", err)}
	}
	to := desc.To
	gasLimit, err := l.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Data:  desc.Data,
		Value: desc.AttachedValue(),
	})
	if err != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: fmt.Errorf("estimate gas: %w", err)}
	}

	tx := ethtypes.NewTransaction(nonce, to, desc.AttachedValue(), gasLimit, gasPrice, desc.Data)
	signedTx, err := l.signer.SignTx(tx, l.chainID)
	if err != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: fmt.Errorf("sign: %w", err)}
	}
	if err := l.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, &SubmissionRejectedError{Cause: fmt.Errorf("broadcast: %w", err)}
	}

	l.log.WithFields(logrus.Fields{
		"hash":     signedTx.Hash().Hex(),
		"function": desc.Function,
		"to":       to.Hex(),
	}).Info("transaction broadcast")
	return signedTx.Hash(), nil
}

// AwaitConfirmation polls for the receipt until the transaction is
// mined or ctx ends. There is no hard timeout here; callers bound the
// wait through ctx.
func (l *EthLedger) AwaitConfirmation(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := l.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			l.log.WithField("hash", hash.Hex()).WithError(err).Debug("receipt poll failed, retrying")
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: confirmation wait: %v", ErrLedgerUnavailable, ctx.Err())
		case <-ticker.C:
		}
	}
}

func isRevertError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
