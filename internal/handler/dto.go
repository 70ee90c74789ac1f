package handler

import "valentine-server/internal/models"

// CreateOrderRequest is the checkout order request. Amount is in whole
// currency units; currency defaults to INR.
type CreateOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// VerifyPaymentRequest carries the checkout result fields exactly as the
// payment widget posts them.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// GenerateRequest asks for letter generation from the collected answers.
// StoryID is optional; when present, progress events are published under it.
type GenerateRequest struct {
	StoryID  string                `json:"storyId"`
	FormData *models.StoryFormData `json:"formData"`
}

// GenerateResponse returns the generated letters and the story id the
// progress stream was keyed by.
type GenerateResponse struct {
	StoryID string                  `json:"storyId"`
	Emails  []models.GeneratedEmail `json:"emails"`
}

// AuthURLRequest carries the URL the browser should land on after consent.
type AuthURLRequest struct {
	RedirectURI string `json:"redirectUri"`
}

// DisconnectRequest names the account to disconnect.
type DisconnectRequest struct {
	Email string `json:"email"`
}

// SendEmailRequest is one delivery through the connected account.
type SendEmailRequest struct {
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	SenderEmail string `json:"senderEmail"`
}

// APIError is the standard error envelope.
type APIError struct {
	Error string `json:"error"`
}
