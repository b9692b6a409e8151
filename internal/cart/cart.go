// Package cart holds the visitor's intended purchase lines. The cart is local
// only: it is persisted as one snapshot and reaches the backend at checkout.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/storage"
)

// Product is what the UI hands over when the visitor presses "add to cart".
type Product struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Image   string          `json:"image,omitempty"`
	InStock bool            `json:"in_stock"`
	Price   decimal.Decimal `json:"price"`
}

func FromModel(p models.Product) Product {
	return Product{
		ID:      strconv.FormatInt(p.ID, 10),
		Name:    p.Name,
		Image:   p.MainImage(),
		InStock: p.InStock,
		Price:   p.Price,
	}
}

// Line carries a snapshot of the product taken when it was first added.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	InStock   bool            `json:"in_stock"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Outcome string

const (
	Added     Outcome = "added"
	Increased Outcome = "increased"
)

type Store struct {
	mu    sync.Mutex
	lines []Line

	storage  storage.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

func New(st storage.Store, n notify.Notifier, l *slog.Logger) *Store {
	if n == nil {
		n = notify.Nop{}
	}
	if l == nil {
		l = logging.Discard()
	}
	return &Store{storage: st, notifier: n, logger: l.With("component", "cart")}
}

// Load rebuilds the cart from the persisted snapshot. A missing, unreadable or
// corrupt snapshot yields an empty cart.
func Load(ctx context.Context, st storage.Store, n notify.Notifier, l *slog.Logger) *Store {
	s := New(st, n, l)
	if st == nil {
		return s
	}

	raw, err := st.Get(ctx, storage.CartKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s
	case err != nil:
		s.logger.Warn("cart_load_failed", "reason", "storage read", "error", err)
		return s
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Warn("cart_load_failed", "reason", "corrupt snapshot", "error", err)
		return s
	}

	index := make(map[string]int, len(lines))
	for _, ln := range lines {
		if ln.ProductID == "" || ln.Quantity < 1 || !ln.UnitPrice.IsPositive() {
			s.logger.Warn("cart_line_dropped", "product_id", ln.ProductID, "quantity", ln.Quantity)
			continue
		}
		if i, ok := index[ln.ProductID]; ok {
			s.lines[i].Quantity += ln.Quantity
			continue
		}
		index[ln.ProductID] = len(s.lines)
		s.lines = append(s.lines, ln)
	}
	return s
}

func (s *Store) find(id string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == id {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held so snapshots reach storage in mutation order.
func (s *Store) persist(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return apperr.Failed("could not save cart", fmt.Errorf("encode cart: %w", err))
	}
	if err := s.storage.Set(ctx, storage.CartKey, raw, 0); err != nil {
		s.logger.Error("cart_persist_failed", "lines", len(s.lines), "error", err)
		return apperr.Failed("could not save cart", err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, n notify.Notice) {
	s.notifier.Notify(ctx, n)
}

// AddItem appends a new line with quantity 1 or bumps an existing one by 1.
// The in-memory change stands even when persisting it fails.
func (s *Store) AddItem(ctx context.Context, p Product) (Outcome, error) {
	if p.ID == "" {
		return "", apperr.Validation("id", "product id is required")
	}
	if !p.Price.IsPositive() {
		return "", apperr.Validation("price", "price must be positive")
	}

	s.mu.Lock()
	var (
		outcome Outcome
		qty     int
	)
	if i := s.find(p.ID); i >= 0 {
		s.lines[i].Quantity++
		outcome, qty = Increased, s.lines[i].Quantity
	} else {
		s.lines = append(s.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			InStock:   p.InStock,
			UnitPrice: p.Price,
			Quantity:  1,
		})
		outcome, qty = Added, 1
	}
	err := s.persist(ctx)
	s.mu.Unlock()

	fields := map[string]any{"product_id": p.ID, "quantity": qty}
	if outcome == Increased {
		s.notify(ctx, notify.Notice{Kind: notify.KindSuccess, Type: "cart.quantity_increased",
			Message: fmt.Sprintf("Increased %s quantity in cart", p.Name), Fields: fields})
	} else {
		s.notify(ctx, notify.Notice{Kind: notify.KindSuccess, Type: "cart.item_added",
			Message: fmt.Sprintf("%s added to cart!", p.Name), Fields: fields})
	}
	return outcome, err
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 are rejected,
// never clamped. An unknown id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		s.notify(ctx, notify.Notice{Kind: notify.KindError, Type: "cart.update_rejected",
			Message: "Quantity must be at least 1", Fields: map[string]any{"product_id": productID, "quantity": quantity}})
		return apperr.Validation("quantity", "quantity must be at least 1")
	}

	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.lines[i].Quantity = quantity
	err := s.persist(ctx)
	s.mu.Unlock()

	s.notify(ctx, notify.Notice{Kind: notify.KindSuccess, Type: "cart.updated",
		Message: "Cart updated", Fields: map[string]any{"product_id": productID, "quantity": quantity}})
	return err
}

func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	removed := s.lines[i]
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	err := s.persist(ctx)
	s.mu.Unlock()

	s.notify(ctx, notify.Notice{Kind: notify.KindSuccess, Type: "cart.item_removed",
		Message: fmt.Sprintf("%s removed from cart", removed.Name), Fields: map[string]any{"product_id": productID}})
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	err := s.persist(ctx)
	s.mu.Unlock()

	s.notify(ctx, notify.Notice{Kind: notify.KindSuccess, Type: "cart.cleared", Message: "Cart cleared"})
	return err
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Lines returns a copy in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Snapshot is the read model served to the render layer.
type Snapshot struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Lines: make([]Line, len(s.lines)), Total: decimal.Zero}
	copy(snap.Lines, s.lines)
	for _, l := range s.lines {
		snap.Total = snap.Total.Add(l.Subtotal())
		snap.Count += l.Quantity
	}
	return snap
}
