package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vestadmin/internal/amqp"
	"vestadmin/internal/chain"
)

// scriptedReceipts returns results in order, repeating the last one.
type scriptedReceipts struct {
	mu      sync.Mutex
	results []result
	calls   int
}

type result struct {
	receipt chain.Receipt
	err     error
}

func (s *scriptedReceipts) TransactionReceipt(context.Context, string) (chain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i].receipt, s.results[i].err
}

func testMessage() *amqp.ReleaseSubmittedMessage {
	return &amqp.ReleaseSubmittedMessage{
		ID:          "sub-1",
		Contract:    "0x022022BCd209234D89FE605F42F57b5Af38276d7",
		Bucket:      "team",
		TxHash:      "0xabc",
		ChainID:     80002,
		SubmittedAt: time.Now(),
	}
}

func TestReceiptWorker_HandleReleaseSubmitted(t *testing.T) {
	pending := result{err: chain.ErrReceiptPending}
	mined := result{receipt: chain.Receipt{Success: true, BlockNumber: 10}}
	reverted := result{receipt: chain.Receipt{Success: false, BlockNumber: 10}}

	tests := []struct {
		name      string
		results   []result
		chainID   int64
		wantErr   error
		wantCalls int
	}{
		{"mined immediately", []result{mined}, 80002, nil, 1},
		{"mined after polling", []result{pending, pending, mined}, 80002, nil, 3},
		{"transient error then mined", []result{{err: errors.New("rpc reset")}, mined}, 80002, nil, 2},
		{"reverted is observed, not retried", []result{reverted}, 80002, nil, 1},
		{"other network ignored", []result{mined}, 137, nil, 0},
		{"never mined", []result{pending}, 80002, ErrReceiptTimeout, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipts := &scriptedReceipts{results: tt.results}
			w := NewReceiptWorker(receipts, tt.chainID, time.Millisecond, 50*time.Millisecond)

			err := w.HandleReleaseSubmitted(context.Background(), testMessage())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HandleReleaseSubmitted() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantCalls >= 0 && receipts.calls != tt.wantCalls {
				t.Errorf("receipt lookups = %d, want %d", receipts.calls, tt.wantCalls)
			}
		})
	}
}
