package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"valentine-server/internal/config"
	"valentine-server/internal/models"
)

const maxOrderAmount = 100000

var allowedCurrencies = map[string]struct{}{
	"INR": {},
	"USD": {},
}

// Order is the payment gateway order handed back to the client checkout.
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// PaymentService creates gateway orders and verifies checkout signatures.
type PaymentService interface {
	CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
}

type razorpayService struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	logger     *zap.Logger
}

var _ PaymentService = (*razorpayService)(nil)

// NewPaymentService builds the Razorpay-backed payment service.
func NewPaymentService(cfg *config.Config, logger *zap.Logger) PaymentService {
	return &razorpayService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.RazorpayBaseURL,
		keyID:      cfg.RazorpayKeyID,
		keySecret:  cfg.RazorpayKeySecret,
		logger:     logger.Named("PaymentService"),
	}
}

// CreateOrder validates the requested charge and registers an order with the
// gateway. The amount is taken in currency units and sent in subunits.
func (s *razorpayService) CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error) {
	if s.keyID == "" || s.keySecret == "" {
		return nil, models.ErrPaymentNotConfigured
	}
	if amount <= 0 || amount > maxOrderAmount {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidAmount, amount)
	}
	if _, ok := allowedCurrencies[currency]; !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidCurrency, currency)
	}

	payload, err := json.Marshal(map[string]any{
		"amount":   amount * 100,
		"currency": currency,
		"receipt":  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Order request failed", zap.Error(err))
		return nil, fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Gateway rejected order",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var gatewayOrder struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(body, &gatewayOrder); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	s.logger.Info("Order created",
		zap.String("orderID", gatewayOrder.ID),
		zap.Int64("amount", gatewayOrder.Amount),
		zap.String("currency", gatewayOrder.Currency),
	)
	return &Order{
		OrderID:  gatewayOrder.ID,
		Amount:   gatewayOrder.Amount,
		Currency: gatewayOrder.Currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifySignature checks the checkout signature against
// HMAC-SHA256(orderID|paymentID, keySecret) in constant time.
func (s *razorpayService) VerifySignature(orderID, paymentID, signature string) error {
	if s.keySecret == "" {
		return models.ErrPaymentNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return models.ErrInvalidInput
	}

	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.logger.Warn("Signature mismatch",
			zap.String("orderID", orderID),
			zap.String("paymentID", paymentID),
		)
		return models.ErrInvalidSignature
	}
	return nil
}
