package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockErrorReporter records every CaptureException call.
type MockErrorReporter struct {
	mock.Mock
}

func NewMockErrorReporter() *MockErrorReporter {
	m := new(MockErrorReporter)
	m.On("CaptureException", mock.Anything, mock.Anything).Return()
	return m
}

func (m *MockErrorReporter) CaptureException(ctx context.Context, err error) {
	m.Called(ctx, err)
}
