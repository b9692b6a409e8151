package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/storage"
)

func product(id, name, price string) Product {
	return Product{ID: id, Name: name, Price: decimal.RequireFromString(price), InStock: true}
}

func newStore(t *testing.T) (*Store, *storage.MemoryStore, *notify.Queue) {
	t.Helper()
	st := storage.NewMemory()
	q := notify.NewQueue(100)
	return New(st, q, nil), st, q
}

type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) Set(context.Context, string, []byte, time.Duration) error { return f.err }

func TestAddItem_SameProductMergesIntoOneLine(t *testing.T) {
	s, _, q := newStore(t)
	ctx := context.Background()
	p := product("a", "Mug", "3.50")

	outcome, err := s.AddItem(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)

	for i := 0; i < 4; i++ {
		outcome, err = s.AddItem(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, Increased, outcome)
	}

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	notices := q.Drain()
	require.Len(t, notices, 5)
	assert.Equal(t, "cart.item_added", notices[0].Type)
	assert.Equal(t, "cart.quantity_increased", notices[1].Type)
}

func TestAddItem_KeepsPriceSnapshot(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, product("a", "Mug", "10"))
	require.NoError(t, err)
	_, err = s.AddItem(ctx, product("a", "Mug", "99"))
	require.NoError(t, err)

	assert.True(t, s.Total().Equal(decimal.NewFromInt(20)))
}

func TestAddItem_RejectsMissingIDOrBadPrice(t *testing.T) {
	s, st, _ := newStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, Product{Name: "x", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = s.AddItem(ctx, product("a", "Free", "0"))
	require.ErrorIs(t, err, apperr.ErrValidation)

	assert.Zero(t, s.Len())
	_, err = st.Get(ctx, storage.CartKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTotalsAreDerivedFromLines(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()
	_, _ = s.AddItem(ctx, product("a", "A", "1.10"))
	_, _ = s.AddItem(ctx, product("b", "B", "2.20"))
	_, _ = s.AddItem(ctx, product("b", "B", "2.20"))
	require.NoError(t, s.UpdateQuantity(ctx, "a", 3))

	want := decimal.Zero
	count := 0
	for _, l := range s.Lines() {
		want = want.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	assert.True(t, s.Total().Equal(want))
	assert.Equal(t, "7.7", s.Total().String())
	assert.Equal(t, count, s.Count())

	snap := s.Snapshot()
	assert.True(t, snap.Total.Equal(want))
	assert.Equal(t, count, snap.Count)
}

func TestUpdateQuantity_BelowOneIsRejectedNotClamped(t *testing.T) {
	s, _, q := newStore(t)
	ctx := context.Background()
	_, _ = s.AddItem(ctx, product("a", "A", "10"))
	require.NoError(t, s.UpdateQuantity(ctx, "a", 2))
	q.Drain()

	for _, bad := range []int{0, -1} {
		err := s.UpdateQuantity(ctx, "a", bad)
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "quantity", apperr.Normalize(err).Field)
	}
	assert.Equal(t, 2, s.Lines()[0].Quantity)

	notices := q.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, notify.KindError, notices[0].Kind)
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	s, _, q := newStore(t)
	require.NoError(t, s.UpdateQuantity(context.Background(), "ghost", 4))
	assert.Zero(t, s.Len())
	assert.Empty(t, q.Drain())
}

func TestRemoveItem_UnknownIDIsNoop(t *testing.T) {
	s, st, q := newStore(t)
	ctx := context.Background()
	_, _ = s.AddItem(ctx, product("a", "A", "10"))
	before, err := st.Get(ctx, storage.CartKey)
	require.NoError(t, err)
	q.Drain()

	require.NoError(t, s.RemoveItem(ctx, "ghost"))

	after, err := st.Get(ctx, storage.CartKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, q.Drain())
}

func TestRemoveItem_NamesRemovedProduct(t *testing.T) {
	s, _, q := newStore(t)
	ctx := context.Background()
	_, _ = s.AddItem(ctx, product("a", "Mug", "10"))
	q.Drain()

	require.NoError(t, s.RemoveItem(ctx, "a"))
	notices := q.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Mug removed from cart", notices[0].Message)
}

func TestClear_ZeroesDerivedReads(t *testing.T) {
	s, st, _ := newStore(t)
	ctx := context.Background()
	_, _ = s.AddItem(ctx, product("a", "A", "10"))
	_, _ = s.AddItem(ctx, product("b", "B", "5"))

	require.NoError(t, s.Clear(ctx))
	assert.True(t, s.Total().IsZero())
	assert.Zero(t, s.Count())

	raw, err := st.Get(ctx, storage.CartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestScenario_AddUpdateRemove(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	_, _ = s.AddItem(ctx, product("A", "A", "10"))
	_, _ = s.AddItem(ctx, product("B", "B", "5"))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 2, s.Count())

	require.NoError(t, s.UpdateQuantity(ctx, "A", 3))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(35)))
	assert.Equal(t, 4, s.Count())

	require.NoError(t, s.RemoveItem(ctx, "B"))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 3, s.Count())
}

func assertSameLines(t *testing.T, want, got []Line) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Image, got[i].Image)
		assert.Equal(t, want[i].InStock, got[i].InStock)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].UnitPrice.Equal(got[i].UnitPrice), "price of %s", want[i].ProductID)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range map[string]storage.Store{"memory": storage.NewMemory(), "gorm": openGorm(t)} {
		t.Run(name, func(t *testing.T) {
			s := New(st, nil, nil)
			_, _ = s.AddItem(ctx, Product{ID: "z", Name: "Zeta", Image: "/z.png", Price: decimal.RequireFromString("1.50")})
			_, _ = s.AddItem(ctx, product("a", "Alpha", "10.25"))
			_, _ = s.AddItem(ctx, product("z", "Zeta", "1.50"))
			_, _ = s.AddItem(ctx, product("m", "Mid", "0.99"))

			reloaded := Load(ctx, st, nil, nil)
			assertSameLines(t, s.Lines(), reloaded.Lines())
			assert.Equal(t, "z", reloaded.Lines()[0].ProductID)
			assert.True(t, s.Total().Equal(reloaded.Total()))
		})
	}
}

func openGorm(t *testing.T) storage.Store {
	t.Helper()
	st, err := storage.OpenGorm(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestLoad_CorruptSnapshotGivesEmptyCart(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	require.NoError(t, st.Set(ctx, storage.CartKey, []byte(`{not json`), 0))

	s := Load(ctx, st, nil, nil)
	assert.Zero(t, s.Len())

	_, err := s.AddItem(ctx, product("a", "A", "1"))
	require.NoError(t, err)
}

func TestLoad_DropsInvalidLinesAndMergesDuplicates(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	raw := `[{"product_id":"a","unit_price":"2","quantity":1},
		{"product_id":"","unit_price":"2","quantity":1},
		{"product_id":"b","unit_price":"2","quantity":0},
		{"product_id":"a","unit_price":"2","quantity":2}]`
	require.NoError(t, st.Set(ctx, storage.CartKey, []byte(raw), 0))

	s := Load(ctx, st, nil, nil)
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestPersistFailure_KeepsInMemoryMutation(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	s := New(failingStore{Store: storage.NewMemory(), err: boom}, nil, nil)

	outcome, err := s.AddItem(ctx, product("a", "A", "4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, apperr.ErrFailed)
	assert.Equal(t, Added, outcome)
	assert.Equal(t, 1, s.Count())

	require.Error(t, s.UpdateQuantity(ctx, "a", 5))
	assert.Equal(t, 5, s.Count())
}

func TestFromModel(t *testing.T) {
	p := FromModel(models.Product{
		ID: 12, Name: "Mug", Price: decimal.RequireFromString("3"), InStock: true,
		Images: []models.ProductImage{{ID: 1, Image: "/mug.png"}},
	})
	assert.Equal(t, "12", p.ID)
	assert.Equal(t, "/mug.png", p.Image)
	assert.True(t, p.InStock)
}
