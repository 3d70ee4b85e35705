package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/usecase"
)

// PaymentMonitor exposes the payment operations the transaction monitor drives.
type PaymentMonitor interface {
	PendingTransactions(ctx context.Context, limit int) ([]model.WalletTransaction, error)
	CheckTransaction(ctx context.Context, txn model.WalletTransaction) (string, error)
}

// TransactionMonitor polls pending blockchain transactions and checks them concurrently.
type TransactionMonitor struct {
	payments     PaymentMonitor
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs     chan model.WalletTransaction
	inflight map[uuid.UUID]struct{}
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// NewTransactionMonitor constructs the monitor worker pool.
func NewTransactionMonitor(payments PaymentMonitor, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *TransactionMonitor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionMonitor{
		payments:     payments,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.WalletTransaction, batchSize),
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

// Start launches background polling.
func (m *TransactionMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}

	m.wg.Add(1)
	go m.dispatch(runCtx)
}

// Stop cancels polling and waits for in-progress checks.
func (m *TransactionMonitor) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *TransactionMonitor) dispatch(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.fetchAndDispatch(ctx)
		}
	}
}

func (m *TransactionMonitor) fetchAndDispatch(ctx context.Context) {
	txns, err := m.payments.PendingTransactions(ctx, m.batchSize)
	if err != nil {
		m.logger.Error("fetch pending transactions failed", slog.String("error", err.Error()))
		return
	}
	for _, txn := range txns {
		if !m.claim(txn.ID) {
			continue
		}
		select {
		case <-ctx.Done():
			m.release(txn.ID)
			return
		case m.jobs <- txn:
		}
	}
}

// claim skips transactions that a worker is still checking from an earlier poll.
func (m *TransactionMonitor) claim(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[id]; busy {
		return false
	}
	m.inflight[id] = struct{}{}
	return true
}

func (m *TransactionMonitor) release(id uuid.UUID) {
	m.mu.Lock()
	delete(m.inflight, id)
	m.mu.Unlock()
}

func (m *TransactionMonitor) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case txn := <-m.jobs:
			m.handle(ctx, txn)
			m.release(txn.ID)
		}
	}
}

func (m *TransactionMonitor) handle(ctx context.Context, txn model.WalletTransaction) {
	outcome, err := m.payments.CheckTransaction(ctx, txn)
	if err != nil {
		m.logger.Error("transaction check failed",
			slog.String("hash", txn.Hash),
			slog.String("error", err.Error()),
		)
		return
	}
	if outcome != usecase.CheckPending {
		m.logger.Info("transaction settled", slog.String("hash", txn.Hash), slog.String("outcome", outcome))
	}
}
