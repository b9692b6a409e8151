// Package checkout turns the local cart into a server order. It is the only
// place where cart contents leave the device.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/session"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req models.OrderRequest, idempotencyKey string) (models.Order, error)
}

type Request struct {
	ShippingAddress string               `json:"shipping_address"`
	OrderNote       string               `json:"order_note"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
}

type Service struct {
	API      OrderAPI
	Cart     *cart.Store
	Session  *session.Manager
	Notifier notify.Notifier
	Logger   *slog.Logger

	now func() time.Time
	mu  sync.Mutex
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.Discard()
}

func (s *Service) notify(ctx context.Context, n notify.Notice) {
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, n)
	}
}

// BuildOrder assembles the payload without sending it.
func BuildOrder(req Request, lines []cart.Line, now time.Time) (models.OrderRequest, error) {
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return models.OrderRequest{}, apperr.Validation("shipping_address", "shipping address is required")
	}
	if !req.PaymentMethod.Valid() {
		return models.OrderRequest{}, apperr.Validation("payment_method", "choose Cash on Delivery or Online payment")
	}
	if len(lines) == 0 {
		return models.OrderRequest{}, apperr.Validation("items", "your cart is empty")
	}

	out := models.OrderRequest{
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		OrderNote:       strings.TrimSpace(req.OrderNote),
		PaymentMethod:   req.PaymentMethod,
		Items:           make([]models.OrderItem, 0, len(lines)),
	}
	total := decimal.Zero
	for _, l := range lines {
		id, err := strconv.ParseInt(l.ProductID, 10, 64)
		if err != nil {
			return models.OrderRequest{}, apperr.Validation("items", fmt.Sprintf("%s cannot be ordered", l.Name))
		}
		out.Items = append(out.Items, models.OrderItem{Product: id, Quantity: l.Quantity, Price: l.UnitPrice})
		total = total.Add(l.Subtotal())
	}

	if req.PaymentMethod == models.PaymentOnline {
		out.PaymentDetails = &models.PaymentDetails{
			PaymentID: fmt.Sprintf("PAY-%d", now.UnixMilli()),
			Amount:    total.StringFixed(2),
			Status:    "pending",
		}
	}
	return out, nil
}

// PlaceOrder submits the cart for the signed in customer. The cart is cleared
// only after the backend accepted the order.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (models.Order, error) {
	if !s.mu.TryLock() {
		return models.Order{}, apperr.ErrInFlight
	}
	defer s.mu.Unlock()

	l := s.logger().With("component", "checkout")

	snap := s.Session.Snapshot()
	if !snap.Authenticated() {
		return models.Order{}, s.fail(ctx, apperr.ErrUnauthenticated)
	}
	if !snap.Role().IsCustomer() {
		return models.Order{}, s.fail(ctx, apperr.InvalidCredentials("only customers can place orders"))
	}

	payload, err := BuildOrder(req, s.Cart.Lines(), s.clock())
	if err != nil {
		return models.Order{}, s.fail(ctx, err)
	}

	key := uuid.NewString()
	order, err := s.API.CreateOrder(ctx, s.Session.Token(), payload, key)
	if err != nil {
		l.Warn("place_order_failed", "idempotency_key", key, "items", len(payload.Items), "error", err)
		s.Session.Invalidate(ctx, err)
		return models.Order{}, s.fail(ctx, err)
	}

	if err := s.Cart.Clear(ctx); err != nil {
		l.Warn("cart_clear_failed", "order_id", order.ID, "error", err)
	}
	l.Info("order_placed", "order_id", order.ID, "user_id", snap.User.ID, "payment_method", payload.PaymentMethod)
	s.notify(ctx, notify.Notice{Kind: notify.KindSuccess, Type: "checkout.order_placed",
		Message: "Order placed successfully!", Fields: map[string]any{"order_id": order.ID, "user_id": snap.User.ID}})
	return order, nil
}

func (s *Service) fail(ctx context.Context, err error) *apperr.Error {
	e := apperr.Normalize(err)
	s.notify(ctx, notify.Notice{Kind: notify.KindError, Type: "checkout.failed", Message: e.Message})
	return e
}
