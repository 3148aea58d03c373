// Package cart defines the cart sink boundary. Handlers only ever see the
// Sink interface; the mutation is fire-and-forget from their perspective.
package cart

import (
	"context"
	"sync"
)

// Item is the normalized line item handed to the sink: one product at unit
// price, quantity per activation.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Sink accumulates line items a shopper intends to purchase.
type Sink interface {
	// Add records one line item. Every activation calls Add once; the sink
	// decides whether to merge lines for the same product.
	Add(ctx context.Context, item Item) error
	// Items returns the current lines.
	Items(ctx context.Context) ([]Item, error)
	// Count returns the total quantity across lines, for the header badge.
	Count(ctx context.Context) (int, error)
}

// Recorder is an in-memory Sink that keeps every Add call verbatim. Used in
// tests to assert exact sink invocations.
type Recorder struct {
	mu    sync.Mutex
	calls []Item
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Add(_ context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, item)
	return nil
}

func (r *Recorder) Items(context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.calls))
	copy(out, r.calls)
	return out, nil
}

func (r *Recorder) Count(ctx context.Context) (int, error) {
	items, _ := r.Items(ctx)
	total := 0
	for _, it := range items {
		total += it.Qty
	}
	return total, nil
}

// Calls returns every Add invocation in order.
func (r *Recorder) Calls() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, len(r.calls))
	copy(out, r.calls)
	return out
}
