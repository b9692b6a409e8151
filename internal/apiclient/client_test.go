package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL+"/api/", srv.Client())
}

func TestExchangeCredentials_AcceptsAccessOrToken(t *testing.T) {
	for _, body := range []string{`{"access":"tok"}`, `{"message":"ok","token":"tok"}`} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login/", r.URL.Path)
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
			var in loginBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, models.RoleCustomer, in.Role)
			_, _ = w.Write([]byte(body))
		})
		tok, err := c.ExchangeCredentials(context.Background(), "a@b.co", "pw", models.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	}
}

func TestExchangeCredentials_BadRequestIsInvalidCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":["Incorrect password!"]}`))
	})
	_, err := c.ExchangeCredentials(context.Background(), "a@b.co", "pw", models.RoleCustomer)
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, "Incorrect password!", apperr.Normalize(err).Message)
}

func TestFetchProfile_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"email":"a@b.co","first_name":"Ada","role":"seller"}`))
	})

	u, err := c.FetchProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.True(t, u.Role.IsShopOwner())

	_, err = c.FetchProfile(context.Background(), "other")
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, apperr.Normalize(err).Status)
}

func TestUpdateProfile_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		_, _ = w.Write([]byte(`{"status":"success","message":"ok","data":{"id":1,"email":"a@b.co","first_name":"New"}}`))
	})
	name := "New"
	u, err := c.UpdateProfile(context.Background(), "tok", models.ProfilePatch{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", u.FirstName)
}

func TestDecodeError_Shapes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   apperr.Kind
		field  string
		msg    string
	}{
		{"detail", 404, `{"detail":"Not found."}`, apperr.KindNotFound, "", "Not found."},
		{"field", 400, `{"password":["Password must be at least 8 characters long."]}`, apperr.KindValidation, "password", "Password must be at least 8 characters long."},
		{"non field", 400, `{"non_field_errors":["Passwords do not match."]}`, apperr.KindValidation, "", "Passwords do not match."},
		{"envelope", 400, `{"status":"error","message":"","errors":{"phone_number":["bad"]}}`, apperr.KindValidation, "phone_number", "bad"},
		{"forbidden", 403, `{"detail":"Access denied!"}`, apperr.KindInvalidCredentials, "", "Access denied!"},
		{"server", 502, `<html>bad gateway</html>`, apperr.KindFailed, "", "server error, please try again"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := decodeError(tc.status, []byte(tc.body))
			assert.Equal(t, tc.kind, e.Kind)
			assert.Equal(t, tc.field, e.Field)
			assert.Equal(t, tc.msg, e.Message)
			assert.Equal(t, tc.status, e.Status)
		})
	}
}

func TestTimeoutIsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	hc := srv.Client()
	hc.Timeout = 20 * time.Millisecond
	c := NewWithHTTPClient(srv.URL, hc)

	_, err := c.ShopOverview(context.Background())
	require.ErrorIs(t, err, apperr.ErrFailed)
	assert.Equal(t, "request timed out", apperr.Normalize(err).Message)
}

func TestProducts_PagedOrBare(t *testing.T) {
	bodies := []string{
		`[{"id":1,"product_name":"Mug","price":"3.00"}]`,
		`{"count":1,"results":[{"id":1,"product_name":"Mug","price":"3.00"}]}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "mug", r.URL.Query().Get("search"))
			_, _ = w.Write([]byte(body))
		})
		page, err := c.Products(context.Background(), ProductQuery{Search: "mug"})
		require.NoError(t, err)
		require.Len(t, page.Results, 1)
		assert.Equal(t, 1, page.Count)
		assert.Equal(t, "Mug", page.Results[0].Name)
	}
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "/api/customer/orders/", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":10,"status":"Pending"}`))
	})
	o, err := c.CreateOrder(context.Background(), "tok", models.OrderRequest{PaymentMethod: models.PaymentCOD}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), o.ID)
}

func TestDeleteAccount_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteAccount(context.Background(), "tok"))
}
