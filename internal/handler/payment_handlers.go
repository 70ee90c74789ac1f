package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valentine-server/internal/models"
)

// createOrder handles POST /api/create-order.
func (h *LetterHandler) createOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid request data"})
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := h.payment.CreateOrder(c.Request.Context(), req.Amount, req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// verifyPayment handles POST /api/verify-payment. The field caps match what
// the gateway actually issues; anything longer is rejected before hashing.
func (h *LetterHandler) verifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid request data"})
		return
	}
	if req.RazorpayOrderID == "" || len(req.RazorpayOrderID) > 100 {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid order ID"})
		return
	}
	if req.RazorpayPaymentID == "" || len(req.RazorpayPaymentID) > 100 {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid payment ID"})
		return
	}
	if req.RazorpaySignature == "" || len(req.RazorpaySignature) > 200 {
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid signature"})
		return
	}

	err := h.payment.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if errors.Is(err, models.ErrInvalidSignature) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid signature"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Payment verified", zap.String("paymentID", req.RazorpayPaymentID))
	c.JSON(http.StatusOK, gin.H{"success": true, "paymentId": req.RazorpayPaymentID})
}
