package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sentencease/client/internal/models"
)

// MockReviewQueueRepository is a mock implementation of repository.ReviewQueueRepository
type MockReviewQueueRepository struct {
	mock.Mock
}

func (m *MockReviewQueueRepository) Enqueue(ctx context.Context, review models.PendingReview) (int64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewQueueRepository) Pending(ctx context.Context) ([]models.PendingReview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendingReview), args.Error(1)
}

func (m *MockReviewQueueRepository) MarkSynced(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockReviewQueueRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
