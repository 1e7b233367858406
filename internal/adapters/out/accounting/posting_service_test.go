package accounting

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTransaction(t *testing.T) *payment.Transaction {
	t.Helper()
	amount, err := kernel.NewMoney(2200, "USD")
	require.NoError(t, err)
	tx, err := payment.NewTransaction(kernel.NewUUID(), kernel.NewUUID(),
		amount, payment.MethodCash, "pos-7-20260301-000042", time.Now())
	require.NoError(t, err)
	return tx
}

func TestHTTPPostingService_PostPayment(t *testing.T) {
	tx := testTransaction(t)

	t.Run("Success", func(t *testing.T) {
		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/postings", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &received))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		service := NewHTTPPostingService(srv.URL)
		require.NoError(t, service.PostPayment(t.Context(), tx))
		assert.Equal(t, tx.ID().String(), received["transaction_id"])
		assert.Equal(t, float64(2200), received["amount"])
		assert.Equal(t, "USD", received["currency"])
	})

	t.Run("RejectedPosting", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		service := NewHTTPPostingService(srv.URL)
		assert.Error(t, service.PostPayment(t.Context(), tx))
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		service := NewHTTPPostingService(srv.URL)
		assert.Error(t, service.PostPayment(t.Context(), tx))
	})
}

func TestLogPostingService_PostPayment(t *testing.T) {
	service := NewLogPostingService(slog.New(slog.DiscardHandler))
	assert.NoError(t, service.PostPayment(t.Context(), testTransaction(t)))
}
