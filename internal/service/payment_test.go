package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valentine-server/internal/models"
)

func newTestPaymentService(baseURL string) *razorpayService {
	return &razorpayService{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		keyID:      "rzp_test_key",
		keySecret:  "test_secret",
		logger:     zap.NewNop(),
	}
}

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := newTestPaymentService("http://unused")

	t.Run("valid signature passes", func(t *testing.T) {
		sig := signPayment("test_secret", "order_1", "pay_1")
		assert.NoError(t, svc.VerifySignature("order_1", "pay_1", sig))
	})

	t.Run("tampered signature is rejected", func(t *testing.T) {
		sig := signPayment("test_secret", "order_1", "pay_1")
		tampered := "0" + sig[1:]
		if tampered == sig {
			tampered = "1" + sig[1:]
		}
		assert.ErrorIs(t, svc.VerifySignature("order_1", "pay_1", tampered), models.ErrInvalidSignature)
	})

	t.Run("signature for a different order is rejected", func(t *testing.T) {
		sig := signPayment("test_secret", "order_2", "pay_1")
		assert.ErrorIs(t, svc.VerifySignature("order_1", "pay_1", sig), models.ErrInvalidSignature)
	})

	t.Run("empty fields are invalid input", func(t *testing.T) {
		assert.ErrorIs(t, svc.VerifySignature("", "pay_1", "sig"), models.ErrInvalidInput)
	})

	t.Run("missing secret reports unconfigured", func(t *testing.T) {
		unconfigured := newTestPaymentService("http://unused")
		unconfigured.keySecret = ""
		assert.ErrorIs(t, unconfigured.VerifySignature("order_1", "pay_1", "sig"), models.ErrPaymentNotConfigured)
	})
}

func TestCreateOrder_Validation(t *testing.T) {
	svc := newTestPaymentService("http://unused")
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, 0, "INR")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = svc.CreateOrder(ctx, -10, "INR")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = svc.CreateOrder(ctx, 100001, "INR")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = svc.CreateOrder(ctx, 500, "EUR")
	assert.ErrorIs(t, err, models.ErrInvalidCurrency)

	unconfigured := newTestPaymentService("http://unused")
	unconfigured.keyID = ""
	_, err = unconfigured.CreateOrder(ctx, 500, "INR")
	assert.ErrorIs(t, err, models.ErrPaymentNotConfigured)
}

func TestCreateOrder_SendsSubunitsAndBasicAuth(t *testing.T) {
	var gotPayload map[string]any
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)
		var ok bool
		gotUser, gotPass, ok = r.BasicAuth()
		require.True(t, ok)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "order_xyz", "amount": 49900, "currency": "INR"}`))
	}))
	defer server.Close()

	svc := newTestPaymentService(server.URL)
	order, err := svc.CreateOrder(context.Background(), 499, "INR")
	require.NoError(t, err)

	assert.Equal(t, "rzp_test_key", gotUser)
	assert.Equal(t, "test_secret", gotPass)
	assert.Equal(t, float64(49900), gotPayload["amount"], "amount must be sent in subunits")
	assert.Equal(t, "INR", gotPayload["currency"])

	assert.Equal(t, "order_xyz", order.OrderID)
	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)
}

func TestCreateOrder_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"description": "bad key"}}`))
	}))
	defer server.Close()

	svc := newTestPaymentService(server.URL)
	_, err := svc.CreateOrder(context.Background(), 499, "INR")
	assert.Error(t, err)
}
