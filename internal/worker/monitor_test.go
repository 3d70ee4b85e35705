package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/gencart/internal/domain/model"
	testhelpers "github.com/polkiloo/gencart/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewTransactionMonitorDefaults(t *testing.T) {
	mon := NewTransactionMonitor(&testhelpers.PaymentMonitorStub{}, time.Second, 0, 0, nil)
	if mon.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", mon.batchSize)
	}
	if mon.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", mon.workers)
	}
	if mon.logger == nil {
		t.Fatal("expected default logger")
	}
}

func TestTransactionMonitorChecksPendingTransactions(t *testing.T) {
	payments := &testhelpers.PaymentMonitorStub{Batches: [][]model.WalletTransaction{{
		{ID: uuid.New(), Hash: "0xaa"},
		{ID: uuid.New(), Hash: "0xbb"},
	}}}
	mon := NewTransactionMonitor(payments, 5*time.Millisecond, 10, 2, discardLogger())

	mon.Start(context.Background())
	waitFor(t, time.Second, func() bool { return len(payments.CheckedHashes()) == 2 })
	mon.Stop()

	got := payments.CheckedHashes()
	if !(got[0] == "0xaa" && got[1] == "0xbb") && !(got[0] == "0xbb" && got[1] == "0xaa") {
		t.Fatalf("unexpected checked hashes %v", got)
	}
}

func TestTransactionMonitorIsolatesFailures(t *testing.T) {
	payments := &testhelpers.PaymentMonitorStub{
		Batches: [][]model.WalletTransaction{{
			{ID: uuid.New(), Hash: "0xbad"},
			{ID: uuid.New(), Hash: "0xgood"},
		}},
		CheckFn: func(_ context.Context, txn model.WalletTransaction) (string, error) {
			if txn.Hash == "0xbad" {
				return "error", errors.New("rpc unavailable")
			}
			return "confirmed", nil
		},
	}
	mon := NewTransactionMonitor(payments, 5*time.Millisecond, 10, 1, discardLogger())

	mon.Start(context.Background())
	waitFor(t, time.Second, func() bool { return len(payments.CheckedHashes()) == 2 })
	mon.Stop()
}

func TestTransactionMonitorSurvivesFetchErrors(t *testing.T) {
	var calls int32
	payments := &testhelpers.PaymentMonitorStub{
		FetchFn: func(context.Context, int) ([]model.WalletTransaction, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil, errors.New("db down")
			}
			return []model.WalletTransaction{{ID: uuid.New(), Hash: "0xcc"}}, nil
		},
	}
	mon := NewTransactionMonitor(payments, 5*time.Millisecond, 1, 1, discardLogger())

	mon.Start(context.Background())
	waitFor(t, time.Second, func() bool { return len(payments.CheckedHashes()) > 0 })
	mon.Stop()
}

func TestTransactionMonitorSkipsInflightTransactions(t *testing.T) {
	id := uuid.New()
	release := make(chan struct{})
	var started sync.Once
	begun := make(chan struct{})
	payments := &testhelpers.PaymentMonitorStub{
		FetchFn: func(context.Context, int) ([]model.WalletTransaction, error) {
			return []model.WalletTransaction{{ID: id, Hash: "0xslow"}}, nil
		},
		CheckFn: func(ctx context.Context, _ model.WalletTransaction) (string, error) {
			started.Do(func() { close(begun) })
			select {
			case <-release:
			case <-ctx.Done():
			}
			return "pending", nil
		},
	}
	mon := NewTransactionMonitor(payments, 2*time.Millisecond, 1, 4, discardLogger())

	mon.Start(context.Background())
	<-begun
	time.Sleep(30 * time.Millisecond)
	if n := len(payments.CheckedHashes()); n != 1 {
		t.Fatalf("expected a single in-flight check, got %d", n)
	}
	close(release)
	mon.Stop()
}

func TestTransactionMonitorStopWithoutStart(t *testing.T) {
	mon := NewTransactionMonitor(&testhelpers.PaymentMonitorStub{}, time.Second, 1, 1, discardLogger())
	mon.Stop()
}
