package gateway

import (
	"context"

	"github.com/sentencease/client/internal/models"
)

// ClientInterface defines the operations the gateway exposes to the
// session layer. This interface enables testability by allowing mock
// implementations.
type ClientInterface interface {
	NextWord(ctx context.Context) (*NextWordResult, error)
	PeekNextWord(ctx context.Context) (*models.WordCard, error)
	SubmitReview(ctx context.Context, meaningID int64, choice string) (*ReviewAck, error)
	Progress(ctx context.Context) (*ProgressResult, error)
	CacheWords(ctx context.Context, count int) (int, error)
	SyncPendingReviews(ctx context.Context) (SyncResult, error)
	Ping(ctx context.Context) error
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
