package backend

import (
	"encoding/json"
	"strings"
	"time"
)

// Wire payloads. User and order records arrive with mixed identifier naming
// and occasionally numeric ids; order lines carry either a populated product
// reference or a snapshot taken at purchase time.

type userPayload struct {
	MongoID  json.RawMessage `json:"_id"`
	ID       json.RawMessage `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     string          `json:"role"`
	Status   string          `json:"status"`
}

func (p userPayload) toUser() User {
	id := flexString(p.MongoID)
	if id == "" {
		id = flexString(p.ID)
	}
	return User{
		ID:       id,
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
		Status:   p.Status,
	}
}

type orderPayload struct {
	MongoID   json.RawMessage    `json:"_id"`
	ID        json.RawMessage    `json:"id"`
	Billing   BillingInfo        `json:"billingInfo"`
	Products  []orderLinePayload `json:"products"`
	Total     json.RawMessage    `json:"total"`
	Status    string             `json:"status"`
	CreatedAt string             `json:"createdAt"`
}

type orderLinePayload struct {
	Product  *lineProductPayload `json:"product"`
	Snapshot *lineProductPayload `json:"snapshot"`
	Quantity int                 `json:"quantity"`
}

type lineProductPayload struct {
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
}

func (p orderPayload) toOrder() Order {
	id := flexString(p.MongoID)
	if id == "" {
		id = flexString(p.ID)
	}
	status := strings.TrimSpace(p.Status)
	if status == "" {
		status = "pending"
	}
	total, _ := flexFloat(p.Total)
	lines := make([]OrderLine, 0, len(p.Products))
	for _, lp := range p.Products {
		lines = append(lines, lp.toLine())
	}
	return Order{
		ID:        id,
		Billing:   p.Billing,
		Lines:     lines,
		Total:     total,
		Status:    status,
		CreatedAt: parseTime(p.CreatedAt),
	}
}

// toLine prefers the live product reference and falls back to the purchase
// snapshot, then to a placeholder name.
func (p orderLinePayload) toLine() OrderLine {
	line := OrderLine{Name: "Unknown", Qty: p.Quantity}
	src := p.Product
	if src == nil || strings.TrimSpace(src.Name) == "" {
		src = p.Snapshot
	}
	if src != nil {
		if name := strings.TrimSpace(src.Name); name != "" {
			line.Name = name
		}
		line.Price, _ = flexFloat(src.Price)
	}
	return line
}

func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func flexFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var n json.Number = json.Number(strings.TrimSpace(s))
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

func parseTime(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z07:00"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}
