package test

import (
	"context"
	"sync"

	"github.com/polkiloo/gencart/internal/domain/model"
)

// PaymentMonitorStub feeds pending transactions to the monitor and records checks.
type PaymentMonitorStub struct {
	Batches [][]model.WalletTransaction
	FetchFn func(context.Context, int) ([]model.WalletTransaction, error)
	CheckFn func(context.Context, model.WalletTransaction) (string, error)
	Checked []string
	mu      sync.Mutex
	calls   int
}

// Lock exposes internal mutex for external synchronization.
func (s *PaymentMonitorStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PaymentMonitorStub) Unlock() { s.mu.Unlock() }

// PendingTransactions returns configured batches one per call, then nothing.
func (s *PaymentMonitorStub) PendingTransactions(ctx context.Context, limit int) ([]model.WalletTransaction, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= len(s.Batches) {
		return s.Batches[s.calls-1], nil
	}
	return nil, nil
}

// CheckTransaction records the hash and delegates to CheckFn when set.
func (s *PaymentMonitorStub) CheckTransaction(ctx context.Context, txn model.WalletTransaction) (string, error) {
	s.mu.Lock()
	s.Checked = append(s.Checked, txn.Hash)
	s.mu.Unlock()
	if s.CheckFn != nil {
		return s.CheckFn(ctx, txn)
	}
	return "confirmed", nil
}

// CheckedHashes returns a copy of the recorded hashes.
func (s *PaymentMonitorStub) CheckedHashes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Checked...)
}

// PublisherStub records published events.
type PublisherStub struct {
	PublishFn func(context.Context, model.Event) error
	Events    []model.Event
	Closed    bool
	mu        sync.Mutex
}

// Publish delegates to PublishFn and records successful events.
func (s *PublisherStub) Publish(ctx context.Context, event model.Event) error {
	if s.PublishFn != nil {
		if err := s.PublishFn(ctx, event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return nil
}

// Close marks the publisher closed.
func (s *PublisherStub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Types returns the types of recorded events in publish order.
func (s *PublisherStub) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		types = append(types, e.Type)
	}
	return types
}
