package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
)

type backend struct {
	mu       sync.Mutex
	role     models.Role
	status   int
	requests []string
}

func (b *backend) reject(status int) {
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
}

func (b *backend) seen(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.requests {
		if p == path {
			return true
		}
	}
	return false
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)

	switch r.URL.Path {
	case "/auth/login/":
		_, _ = w.Write([]byte(`{"message":"ok","token":"tok"}`))
		return
	case "/auth/me/profile":
		_ = json.NewEncoder(w).Encode(models.User{ID: 3, Email: "s@example.com", FirstName: "Sam", Role: b.role})
		return
	case "/shop_products/3/":
		_, _ = w.Write([]byte(`{"id":3,"product_name":"Mug","price":"4.50","in_stock":true,
			"product_images":[{"id":1,"image":"/media/mug.png"}]}`))
		return
	}

	if b.status != 0 {
		w.WriteHeader(b.status)
		_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		return
	}
	switch r.URL.Path {
	case "/customer/wishlist/":
		_, _ = w.Write([]byte(`[{"id":1,"product":{"id":3,"product_name":"Mug","price":"4.50"}}]`))
	case "/shop/dashboard/":
		_, _ = w.Write([]byte(`{"total_orders":4}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}
}

type fixture struct {
	be    *backend
	api   *apiclient.Client
	sess  *session.Manager
	cart  *cart.Store
	queue *notify.Queue
}

func newFixture(t *testing.T, role models.Role) *fixture {
	t.Helper()
	be := &backend{role: role}
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	api := apiclient.NewWithHTTPClient(srv.URL, srv.Client())
	st := storage.NewMemory()
	q := notify.NewQueue(10)
	sess := session.New(api, storage.NewTokenStore(st, 0), q, nil)
	sess.Hydrate(context.Background())

	return &fixture{be: be, api: api, sess: sess, cart: cart.New(st, q, nil), queue: q}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.sess.Login(context.Background(), "s@example.com", "secret-pw", f.be.role)
	require.NoError(t, err)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireStatus(t *testing.T, err error, status int) *apperr.Error {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	require.Equal(t, status, he.Code)
	e, ok := he.Message.(*apperr.Error)
	require.True(t, ok)
	return e
}

func TestCartHandler_AddUpdateClear(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	h := &CartHandler{Cart: f.cart, Catalog: f.api}

	body := `{"id":"9","name":"Tea","price":"3.00","in_stock":true}`
	c, rec := newContext(http.MethodPost, "/api/v1/cart/items", body)
	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/v1/cart/items", body)
	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp addItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, cart.Increased, resp.Outcome)
	assert.Equal(t, 2, resp.Cart.Count)
	assert.Equal(t, "6", resp.Cart.Total.String())

	c, _ = newContext(http.MethodPatch, "/api/v1/cart/items/9", `{"quantity":0}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	e := requireStatus(t, h.UpdateQuantity(c), http.StatusBadRequest)
	assert.Equal(t, "quantity", e.Field)
	assert.Equal(t, 2, f.cart.Count())

	c, rec = newContext(http.MethodDelete, "/api/v1/cart", "")
	require.NoError(t, h.Clear(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, f.cart.Len())
}

func TestCartHandler_AddByIDLooksUpCatalog(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	h := &CartHandler{Cart: f.cart, Catalog: f.api}

	c, rec := newContext(http.MethodPost, "/api/v1/cart/items", `{"id":"3"}`)
	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	lines := f.cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Mug", lines[0].Name)
	assert.Equal(t, "/media/mug.png", lines[0].Image)
	assert.Equal(t, "4.5", lines[0].UnitPrice.String())
}

func TestCartHandler_AddRejectsMissingPrice(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	h := &CartHandler{Cart: f.cart}

	c, _ := newContext(http.MethodPost, "/api/v1/cart/items", `{"id":"3","name":"Mug"}`)
	requireStatus(t, h.AddItem(c), http.StatusBadRequest)
	assert.Zero(t, f.cart.Len())
}

func TestSessionHandler_LoginReturnsHome(t *testing.T) {
	f := newFixture(t, models.RoleSeller)
	h := &SessionHandler{Session: f.sess}

	c, rec := newContext(http.MethodPost, "/api/v1/session/login",
		`{"email":"s@example.com","password":"secret-pw","role":"shop_owner"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/shop/dashboard", resp.Location)
	assert.True(t, f.sess.Snapshot().Authenticated())

	notices := f.queue.Drain()
	require.NotEmpty(t, notices)
	assert.Equal(t, "Welcome back, Sam!", notices[len(notices)-1].Message)
}

func TestSessionHandler_LoginValidation(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	h := &SessionHandler{Session: f.sess}

	c, _ := newContext(http.MethodPost, "/api/v1/session/login", `{"email":"nope","password":"x","role":"customer"}`)
	e := requireStatus(t, h.Login(c), http.StatusBadRequest)
	assert.Equal(t, "email", e.Field)
	assert.False(t, f.be.seen("POST /auth/login/"))
}

func TestCustomerHandler_RequiresSession(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	h := &CustomerHandler{API: f.api, Session: f.sess}

	c, _ := newContext(http.MethodGet, "/api/v1/customer/wishlist", "")
	requireStatus(t, h.Wishlist(c), http.StatusUnauthorized)
	assert.False(t, f.be.seen("GET /customer/wishlist/"))
}

func TestCustomerHandler_Wishlist(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	f.login(t)
	h := &CustomerHandler{API: f.api, Session: f.sess}

	c, rec := newContext(http.MethodGet, "/api/v1/customer/wishlist", "")
	require.NoError(t, h.Wishlist(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.Page[models.WishlistEntry]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Mug", page.Results[0].Product.Name)
}

func TestCustomerHandler_RevokedTokenDropsSession(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	f.login(t)
	f.be.reject(http.StatusUnauthorized)
	h := &CustomerHandler{API: f.api, Session: f.sess}

	c, _ := newContext(http.MethodGet, "/api/v1/customer/wishlist", "")
	requireStatus(t, h.Wishlist(c), http.StatusUnauthorized)
	assert.Equal(t, session.StateAnonymous, f.sess.Snapshot().State)
	assert.Empty(t, f.sess.Token())
}

func TestShopHandler_StockMovementValidatedLocally(t *testing.T) {
	f := newFixture(t, models.RoleStoreManager)
	f.login(t)
	h := &ShopHandler{API: f.api, Session: f.sess}

	c, _ := newContext(http.MethodPost, "/api/v1/shop/stock-movements",
		`{"product":3,"quantity":2,"movement_type":"Sideways"}`)
	e := requireStatus(t, h.CreateStockMovement(c), http.StatusBadRequest)
	assert.Equal(t, "movement_type", e.Field)
	assert.False(t, f.be.seen("POST /shop/stock-movements/"))
}

func TestShopHandler_NotFoundIsKept(t *testing.T) {
	f := newFixture(t, models.RoleSeller)
	f.login(t)
	h := &ShopHandler{API: f.api, Session: f.sess}

	c, _ := newContext(http.MethodDelete, "/api/v1/shop/products/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	requireStatus(t, h.DeleteProduct(c), http.StatusNotFound)
	assert.True(t, f.sess.Snapshot().Authenticated())
}

func TestRoutesHandler_Check(t *testing.T) {
	f := newFixture(t, models.RoleCustomer)
	h := &RoutesHandler{Pages: guard.Pages(), Session: f.sess}

	c, rec := newContext(http.MethodGet, "/api/v1/routes/check?path=/shop/dashboard", "")
	require.NoError(t, h.Check(c))

	var res guard.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, guard.RedirectLogin, res.Decision)

	f.login(t)
	c, rec = newContext(http.MethodGet, "/api/v1/routes/check?path=/shop/dashboard", "")
	require.NoError(t, h.Check(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, guard.Forbidden, res.Decision)

	c, _ = newContext(http.MethodGet, "/api/v1/routes/check", "")
	requireStatus(t, h.Check(c), http.StatusBadRequest)
}

func TestNoticesHandler_Drain(t *testing.T) {
	q := notify.NewQueue(5)
	q.Notify(context.Background(), notify.Notice{Kind: notify.KindInfo, Type: "cart.cleared", Message: "Cart cleared"})
	h := &NoticesHandler{Queue: q}

	c, rec := newContext(http.MethodGet, "/api/v1/notices", "")
	require.NoError(t, h.Drain(c))

	var got []notify.Notice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "cart.cleared", got[0].Type)
	assert.Empty(t, q.Drain())
}
