package models

import "errors"

// Application-wide standard errors
var (
	// Token table errors
	ErrTokenNotFound = errors.New("gmail token not found in storage")

	// Payment errors
	ErrInvalidAmount        = errors.New("invalid order amount")
	ErrInvalidCurrency      = errors.New("unsupported currency")
	ErrInvalidSignature     = errors.New("payment signature mismatch")
	ErrPaymentNotConfigured = errors.New("payment gateway is not configured")

	// OAuth / delivery errors
	ErrOAuthNotConfigured  = errors.New("gmail oauth is not configured")
	ErrReturnURLNotAllowed = errors.New("return url host is not allowed")
	ErrNotConnected        = errors.New("gmail account is not connected")

	// Generation errors
	ErrGenerationFailed = errors.New("letter generation failed")
	ErrInvalidShape     = errors.New("generated output does not match the declared shape")

	// General request/server errors
	ErrInvalidInput   = errors.New("invalid input data")
	ErrInternalServer = errors.New("internal server error")
)
