package repository

import (
	"context"

	"github.com/sentencease/client/internal/models"
)

// CardRepository handles the offline word-card cache.
// A lookup miss is the valid "no offline content" state, not an error:
// Get returns (nil, nil) and All returns an empty slice.
type CardRepository interface {
	Put(ctx context.Context, card models.WordCard) error
	PutBatch(ctx context.Context, cards []models.WordCard) error
	Get(ctx context.Context, meaningID int64) (*models.WordCard, error)
	All(ctx context.Context) ([]models.WordCard, error)
	Clear(ctx context.Context) error
}

// ReviewQueueRepository handles the queue of not-yet-acknowledged
// review submissions. Entries are append-only under normal operation;
// a successful replay marks them synced rather than deleting them.
type ReviewQueueRepository interface {
	Enqueue(ctx context.Context, review models.PendingReview) (int64, error)
	Pending(ctx context.Context) ([]models.PendingReview, error)
	MarkSynced(ctx context.Context, ids []int64) error
	Clear(ctx context.Context) error
}

// ProgressRepository handles the singleton daily-progress snapshot.
type ProgressRepository interface {
	Get(ctx context.Context) (models.ProgressSnapshot, error)
	Set(ctx context.Context, snapshot models.ProgressSnapshot) error
	Clear(ctx context.Context) error
}
