package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"valentine-server/internal/models"
	"valentine-server/internal/service"
)

// MockEmailGenerator is a mock type for the EmailGenerator type
type MockEmailGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, storyID, formData
func (_m *MockEmailGenerator) Generate(ctx context.Context, storyID string, formData models.StoryFormData) ([]models.GeneratedEmail, error) {
	ret := _m.Called(ctx, storyID, formData)

	var r0 []models.GeneratedEmail
	if rf, ok := ret.Get(0).(func(context.Context, string, models.StoryFormData) []models.GeneratedEmail); ok {
		r0 = rf(ctx, storyID, formData)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]models.GeneratedEmail)
		}
	}

	return r0, ret.Error(1)
}

// NewMockEmailGenerator creates a new instance of MockEmailGenerator.
func NewMockEmailGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockEmailGenerator {
	m := &MockEmailGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.EmailGenerator = (*MockEmailGenerator)(nil)
