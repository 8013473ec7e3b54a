package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
)

// ReconcileNonce detects a stuck transaction of the signing account and
// replaces it with a zero-value self-fill at the stuck sequence number.
type ReconcileNonce struct {
	chain    ChainClient
	progress ProgressSink
	log      *slog.Logger
}

// NewReconcileNonce creates a new nonce reconciler
func NewReconcileNonce(chain ChainClient, progress ProgressSink, log *slog.Logger) *ReconcileNonce {
	return &ReconcileNonce{
		chain:    chain,
		progress: progress,
		log:      log.With("component", "ReconcileNonce"),
	}
}

// NonceReport is the outcome of a nonce check
type NonceReport struct {
	Latest  uint64
	Pending uint64
	// Halted is set when a filler transaction was submitted; the run must stop
	Halted   bool
	FillerTx *PendingTx
}

// Execute compares the latest and pending transaction counts. When latest < pending
// it submits a zero-value transfer to the zero address with nonce = latest and
// reports Halted; the filler is not waited for.
func (r *ReconcileNonce) Execute(ctx context.Context) (*NonceReport, error) {
	account := r.chain.Account()

	latest, err := r.chain.TransactionCount(ctx, account, BlockLatest)
	if err != nil {
		return nil, domain.NewTransportError("get latest transaction count", err)
	}
	pending, err := r.chain.TransactionCount(ctx, account, BlockPending)
	if err != nil {
		return nil, domain.NewTransportError("get pending transaction count", err)
	}

	report := &NonceReport{Latest: latest, Pending: pending}
	r.log.Debug("nonce check", "account", account, "latest", latest, "pending", pending)
	r.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageNonceCheck,
		Message: fmt.Sprintf("latest=%d pending=%d", latest, pending),
	})

	if latest >= pending {
		return report, nil
	}

	nonce := latest
	zero := common.Address{}
	tx, err := r.chain.SendTransaction(ctx, TxRequest{
		To:    &zero,
		Value: new(big.Int),
		Nonce: &nonce,
	})
	if err != nil {
		return nil, domain.NewTransportError("send nonce filler transaction", err)
	}

	r.log.Warn("stuck transaction detected, submitted filler",
		"account", account, "nonce", nonce, "tx", tx.Hash)
	r.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageNonceFilled,
		Message:  fmt.Sprintf("filler transaction %s sent with nonce %d", tx.Hash.Hex(), nonce),
		Metadata: tx,
	})

	report.Halted = true
	report.FillerTx = tx
	return report, nil
}
