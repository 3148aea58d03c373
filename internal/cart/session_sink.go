package cart

import (
	"context"

	"docushop.org/docushop-web/internal/middleware"
)

// SessionSink stores cart lines in the visitor's signed session cookie. Lines
// for the same product merge by incrementing quantity; the sink serializes
// its own writes because each request owns its session value.
type SessionSink struct{}

// NewSessionSink returns the cookie-session backed sink.
func NewSessionSink() *SessionSink { return &SessionSink{} }

func (s *SessionSink) Add(ctx context.Context, item Item) error {
	sd := middleware.SessionFromContext(ctx)
	for i := range sd.Cart {
		if sd.Cart[i].ID == item.ID {
			sd.Cart[i].Qty += item.Qty
			sd.MarkDirty()
			return nil
		}
	}
	sd.Cart = append(sd.Cart, middleware.CartLine{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
		Qty:   item.Qty,
	})
	sd.MarkDirty()
	return nil
}

func (s *SessionSink) Items(ctx context.Context) ([]Item, error) {
	sd := middleware.SessionFromContext(ctx)
	out := make([]Item, 0, len(sd.Cart))
	for _, line := range sd.Cart {
		out = append(out, Item{ID: line.ID, Name: line.Name, Price: line.Price, Qty: line.Qty})
	}
	return out, nil
}

func (s *SessionSink) Count(ctx context.Context) (int, error) {
	sd := middleware.SessionFromContext(ctx)
	total := 0
	for _, line := range sd.Cart {
		total += line.Qty
	}
	return total, nil
}
