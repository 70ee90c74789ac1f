package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"valentine-server/internal/service"
)

// MockPaymentService is a mock type for the PaymentService type
type MockPaymentService struct {
	mock.Mock
}

// CreateOrder provides a mock function with given fields: ctx, amount, currency
func (_m *MockPaymentService) CreateOrder(ctx context.Context, amount int64, currency string) (*service.Order, error) {
	ret := _m.Called(ctx, amount, currency)

	var r0 *service.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.Order)
	}
	return r0, ret.Error(1)
}

// VerifySignature provides a mock function with given fields: orderID, paymentID, signature
func (_m *MockPaymentService) VerifySignature(orderID string, paymentID string, signature string) error {
	ret := _m.Called(orderID, paymentID, signature)
	return ret.Error(0)
}

// NewMockPaymentService creates a new instance of MockPaymentService.
func NewMockPaymentService(t interface {
	mock.TestingT
	Helper()
}) *MockPaymentService {
	m := &MockPaymentService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.PaymentService = (*MockPaymentService)(nil)
