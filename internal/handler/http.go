package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valentine-server/internal/middleware"
	"valentine-server/internal/models"
	"valentine-server/internal/service"
)

// LetterHandler exposes the HTTP API: payment gate, letter generation and
// Gmail delivery.
type LetterHandler struct {
	payment   service.PaymentService
	generator service.EmailGenerator
	gmail     service.GmailService
	hub       *ProgressHub
	logger    *zap.Logger
}

// NewLetterHandler creates the handler with its service dependencies.
func NewLetterHandler(
	payment service.PaymentService,
	generator service.EmailGenerator,
	gmail service.GmailService,
	hub *ProgressHub,
	logger *zap.Logger,
) *LetterHandler {
	return &LetterHandler{
		payment:   payment,
		generator: generator,
		gmail:     gmail,
		hub:       hub,
		logger:    logger.Named("LetterHandler"),
	}
}

// RegisterRoutes wires all routes. Each mutating endpoint carries its own
// per-IP limiter so one hot endpoint cannot starve the others.
func (h *LetterHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/create-order",
			middleware.RateLimit(middleware.NewFixedWindowLimiter(5, time.Minute), h.logger),
			h.createOrder)
		api.POST("/verify-payment",
			middleware.RateLimit(middleware.NewFixedWindowLimiter(10, time.Minute), h.logger),
			h.verifyPayment)
		api.POST("/generate",
			middleware.RateLimit(middleware.NewFixedWindowLimiter(3, time.Minute), h.logger),
			h.generate)

		gmail := api.Group("/gmail")
		{
			gmail.POST("/auth-url",
				middleware.RateLimit(middleware.NewFixedWindowLimiter(10, time.Minute), h.logger),
				h.gmailAuthURL)
			gmail.GET("/callback", h.gmailCallback)
			gmail.POST("/check-connection", h.gmailCheckConnection)
			gmail.POST("/disconnect",
				middleware.RateLimit(middleware.NewFixedWindowLimiter(5, time.Minute), h.logger),
				h.gmailDisconnect)
		}

		api.POST("/send-email",
			middleware.RateLimit(middleware.NewFixedWindowLimiter(5, time.Minute), h.logger),
			h.sendEmail)
	}

	router.GET("/ws/generation/:storyId", h.hub.ServeWS)
	router.GET("/health", h.health)
}

func (h *LetterHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps service errors onto HTTP statuses with the standard
// error envelope.
func (h *LetterHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid amount"})
	case errors.Is(err, models.ErrInvalidCurrency):
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid currency"})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid request data"})
	case errors.Is(err, models.ErrReturnURLNotAllowed):
		c.JSON(http.StatusBadRequest, APIError{Error: "Invalid redirect domain"})
	case errors.Is(err, models.ErrNotConnected):
		c.JSON(http.StatusBadRequest, APIError{Error: "No Gmail account connected"})
	case errors.Is(err, models.ErrPaymentNotConfigured),
		errors.Is(err, models.ErrOAuthNotConfigured):
		c.JSON(http.StatusInternalServerError, APIError{Error: "Service is not configured"})
	default:
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Error: "Internal server error"})
	}
}
