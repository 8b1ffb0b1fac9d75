package paystack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/gateway/paystack"
	"fleet-platform/internal/ports/payments"
)

// fakePaystack stores initialized transactions and serves them back on verify.
type fakePaystack struct {
	mu  sync.Mutex
	txs map[string]map[string]any
}

func (f *fakePaystack) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer sk_test" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/transaction/initialize":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		ref := body["reference"].(string)
		f.txs[ref] = body
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true, "message": "Authorization URL created",
			"data": map[string]any{"authorization_url": "https://checkout.paystack.com/abc", "reference": ref},
		})
	case r.Method == http.MethodGet && len(r.URL.Path) > len("/transaction/verify/"):
		ref := r.URL.Path[len("/transaction/verify/"):]
		tx, ok := f.txs[ref]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true, "message": "Verification successful",
			"data": map[string]any{
				"status": "success", "reference": ref, "amount": tx["amount"], "currency": "NGN",
				"paid_at": "2025-01-02T10:00:00Z", "metadata": tx["metadata"],
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestClient_AmountRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakePaystack{txs: map[string]map[string]any{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := paystack.New(srv.URL, "sk_test", srv.Client(), 0)
	initiation, err := c.CreatePayment(context.Background(), payments.CreateRequest{
		Reference: "ref-1000", Amount: 1000, Currency: "ngn", Email: "a@b.c",
		Metadata: map[string]any{"trip_id": "t1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", initiation.AuthorizationURL)
	assert.Equal(t, int64(100000), initiation.Metadata["amountInKobo"])

	fake.mu.Lock()
	sent := fake.txs["ref-1000"]
	fake.mu.Unlock()
	assert.EqualValues(t, 100000, sent["amount"])
	assert.Equal(t, "NGN", sent["currency"])
	assert.EqualValues(t, 100000, sent["metadata"].(map[string]any)["amountInKobo"])

	res, err := c.VerifyPayment(context.Background(), "ref-1000")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, res.Status)
	assert.Equal(t, 1000.0, res.Amount)
	require.NotNil(t, res.PaidAt)
	assert.Equal(t, "t1", res.Metadata["trip_id"])
}

func TestClient_UpstreamErrorSurfacesMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&fakePaystack{txs: map[string]map[string]any{}})
	defer srv.Close()

	_, err := paystack.New(srv.URL, "wrong", srv.Client(), 0).CreatePayment(context.Background(),
		payments.CreateRequest{Reference: "r", Amount: 1, Email: "a@b.c"})
	require.ErrorIs(t, err, apperr.ErrProvider)
	assert.Equal(t, "Invalid key", apperr.Reason(err, ""))

	_, err = paystack.New(srv.URL, "sk_test", srv.Client(), 0).VerifyPayment(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrProvider)
	assert.Equal(t, "Transaction reference not found", apperr.Reason(err, ""))
}

func TestClient_StatusMapping(t *testing.T) {
	t.Parallel()

	for upstream, want := range map[string]domain.PaymentStatus{
		"success":   domain.PaymentCompleted,
		"abandoned": domain.PaymentFailed,
		"failed":    domain.PaymentFailed,
		"ongoing":   domain.PaymentPending,
	} {
		upstream, want := upstream, want
		t.Run(upstream, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"status": true, "data": map[string]any{"status": upstream, "amount": 250, "reference": "r"},
				})
			}))
			defer srv.Close()

			res, err := paystack.New(srv.URL, "k", srv.Client(), 0).VerifyPayment(context.Background(), "r")
			require.NoError(t, err)
			assert.Equal(t, want, res.Status)
			assert.Equal(t, 2.5, res.Amount)
		})
	}
}
