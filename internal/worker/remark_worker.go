package worker

import (
	"context"
	"fmt"

	"spendy/internal/amqp"
	"spendy/internal/core"
	"spendy/internal/log"
	"spendy/internal/remark"
)

// Storage is the slice of the repository the worker needs.
type Storage interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	SetTransactionComment(ctx context.Context, id, comment string) error
	ListTransactionsMissingComment(ctx context.Context, limit int) ([]core.Transaction, error)
}

// RemarkWorker consumes remark requests and writes generated commentary
// back onto transactions. Requests normally arrive over AMQP; a periodic
// scan picks up anything the queue missed.
type RemarkWorker struct {
	storage   Storage
	generator remark.Generator
	batchSize int
	logger    *log.Logger
}

func NewRemarkWorker(storage Storage, generator remark.Generator, batchSize int, logger *log.Logger) *RemarkWorker {
	return &RemarkWorker{
		storage:   storage,
		generator: generator,
		batchSize: batchSize,
		logger:    logger.WithComponent("remark-worker"),
	}
}

// HandleRemarkMessage processes one remark request from AMQP.
func (w *RemarkWorker) HandleRemarkMessage(ctx context.Context, msg *amqp.RemarkRequestMessage) error {
	w.logger.InfoContext(ctx, "Processing remark request", "txn_id", msg.TxnID)

	txn, err := w.storage.GetTransaction(ctx, msg.TxnID)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if txn.AIComment != "" {
		w.logger.InfoContext(ctx, "Transaction already has a comment, skipping", "txn_id", msg.TxnID)
		return nil
	}

	return w.generateAndStore(ctx, txn)
}

// ProcessPendingRemarks scans for transactions that never got a comment,
// typically because the broker or the worker was down when they were
// created.
func (w *RemarkWorker) ProcessPendingRemarks(ctx context.Context) error {
	pending, err := w.storage.ListTransactionsMissingComment(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending remarks", "count", len(pending))

	var failed int
	for _, txn := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.generateAndStore(ctx, txn); err != nil {
			w.logger.ErrorContext(ctx, "Failed to generate remark",
				"txn_id", txn.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pending remarks failed", failed, len(pending))
	}
	return nil
}

// StartupCheck runs one pending scan at boot so a backlog doesn't wait for
// the first ticker interval.
func (w *RemarkWorker) StartupCheck(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Running startup remark check")
	return w.ProcessPendingRemarks(ctx)
}

func (w *RemarkWorker) generateAndStore(ctx context.Context, txn core.Transaction) error {
	comment, err := w.generator.Generate(ctx, txn)
	if err != nil {
		return fmt.Errorf("generate remark: %w", err)
	}
	if err := w.storage.SetTransactionComment(ctx, txn.ID, comment); err != nil {
		return fmt.Errorf("store remark: %w", err)
	}

	w.logger.InfoContext(ctx, "Remark stored", "txn_id", txn.ID)
	return nil
}
