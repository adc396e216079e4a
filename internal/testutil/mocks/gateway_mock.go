package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/models"
)

// MockGateway is a mock implementation of gateway.ClientInterface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) NextWord(ctx context.Context) (*gateway.NextWordResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.NextWordResult), args.Error(1)
}

func (m *MockGateway) PeekNextWord(ctx context.Context) (*models.WordCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordCard), args.Error(1)
}

func (m *MockGateway) SubmitReview(ctx context.Context, meaningID int64, choice string) (*gateway.ReviewAck, error) {
	args := m.Called(ctx, meaningID, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ReviewAck), args.Error(1)
}

func (m *MockGateway) Progress(ctx context.Context) (*gateway.ProgressResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ProgressResult), args.Error(1)
}

func (m *MockGateway) CacheWords(ctx context.Context, count int) (int, error) {
	args := m.Called(ctx, count)
	return args.Int(0), args.Error(1)
}

func (m *MockGateway) SyncPendingReviews(ctx context.Context) (gateway.SyncResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(gateway.SyncResult), args.Error(1)
}

func (m *MockGateway) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
