// Package notify delivers user-visible notices raised by the cart and session stores.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notice struct {
	Kind    Kind           `json:"kind"`
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
	At      time.Time      `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type Nop struct{}

func (Nop) Notify(context.Context, Notice) {}

type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ctx context.Context, n Notice) {
	lg := l.Logger
	if lg == nil {
		lg = logging.FromContext(ctx)
	}
	args := []any{"type", n.Type, "kind", n.Kind, "message", n.Message}
	for k, v := range n.Fields {
		args = append(args, k, v)
	}
	if n.Kind == KindError {
		lg.Warn("notice", args...)
		return
	}
	lg.Info("notice", args...)
}

// Queue keeps the newest notices until the render layer drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notice
	max   int
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = 50
	}
	return &Queue{max: max}
}

func (q *Queue) Notify(_ context.Context, n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if over := len(q.items) - q.max; over > 0 {
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
}

func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Events forwards notices to kafka: cart.* to cart_events, everything else to user_events.
type Events struct {
	Producer Publisher
	Timeout  time.Duration
}

func topicFor(eventType string) string {
	if strings.HasPrefix(eventType, "cart.") || strings.HasPrefix(eventType, "checkout.") {
		return mykafka.TopicCartEvents
	}
	return mykafka.TopicUserEvents
}

func keyFor(n Notice) string {
	for _, k := range []string{"user_id", "product_id"} {
		if v, ok := n.Fields[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return n.Type
}

func (e Events) Notify(ctx context.Context, n Notice) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	event := map[string]any{
		"type":    n.Type,
		"kind":    n.Kind,
		"message": n.Message,
		"at":      n.At,
	}
	for k, v := range n.Fields {
		event[k] = v
	}
	if err := e.Producer.PublishEvent(ctx, topicFor(n.Type), keyFor(n), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", n.Type, "error", err)
	}
}

type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notice) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	for _, x := range f {
		x.Notify(ctx, n)
	}
}
