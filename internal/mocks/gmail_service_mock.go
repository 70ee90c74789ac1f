package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"valentine-server/internal/service"
)

// MockGmailService is a mock type for the GmailService type
type MockGmailService struct {
	mock.Mock
}

// AuthURL provides a mock function with given fields: returnURL
func (_m *MockGmailService) AuthURL(returnURL string) (string, error) {
	ret := _m.Called(returnURL)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0, ret.Error(1)
}

// Callback provides a mock function with given fields: ctx, code, state, oauthErr
func (_m *MockGmailService) Callback(ctx context.Context, code string, state string, oauthErr string) string {
	ret := _m.Called(ctx, code, state, oauthErr)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0
}

// CheckConnection provides a mock function with given fields: ctx
func (_m *MockGmailService) CheckConnection(ctx context.Context) (bool, string) {
	ret := _m.Called(ctx)

	var r1 string
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(string)
	}
	return ret.Bool(0), r1
}

// Disconnect provides a mock function with given fields: ctx, email
func (_m *MockGmailService) Disconnect(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

// Send provides a mock function with given fields: ctx, to, subject, htmlBody
func (_m *MockGmailService) Send(ctx context.Context, to string, subject string, htmlBody string) (string, error) {
	ret := _m.Called(ctx, to, subject, htmlBody)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0, ret.Error(1)
}

// NewMockGmailService creates a new instance of MockGmailService.
func NewMockGmailService(t interface {
	mock.TestingT
	Helper()
}) *MockGmailService {
	m := &MockGmailService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.GmailService = (*MockGmailService)(nil)
