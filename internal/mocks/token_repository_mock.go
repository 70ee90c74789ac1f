package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"valentine-server/internal/models"
	"valentine-server/internal/repository"
)

// MockTokenRepository is a mock type for the TokenRepository type
type MockTokenRepository struct {
	mock.Mock
}

// Upsert provides a mock function with given fields: ctx, token
func (_m *MockTokenRepository) Upsert(ctx context.Context, token *models.GmailToken) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// GetByEmail provides a mock function with given fields: ctx, email
func (_m *MockTokenRepository) GetByEmail(ctx context.Context, email string) (*models.GmailToken, error) {
	ret := _m.Called(ctx, email)

	var r0 *models.GmailToken
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.GmailToken); ok {
		r0 = rf(ctx, email)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.GmailToken)
		}
	}

	return r0, ret.Error(1)
}

// GetAny provides a mock function with given fields: ctx
func (_m *MockTokenRepository) GetAny(ctx context.Context) (*models.GmailToken, error) {
	ret := _m.Called(ctx)

	var r0 *models.GmailToken
	if rf, ok := ret.Get(0).(func(context.Context) *models.GmailToken); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.GmailToken)
		}
	}

	return r0, ret.Error(1)
}

// UpdateAccessToken provides a mock function with given fields: ctx, email, accessToken, expiresAt
func (_m *MockTokenRepository) UpdateAccessToken(ctx context.Context, email string, accessToken string, expiresAt time.Time) error {
	ret := _m.Called(ctx, email, accessToken, expiresAt)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, email
func (_m *MockTokenRepository) Delete(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

// NewMockTokenRepository creates a new instance of MockTokenRepository.
func NewMockTokenRepository(t interface {
	mock.TestingT
	Helper()
}) *MockTokenRepository {
	m := &MockTokenRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.TokenRepository = (*MockTokenRepository)(nil)
