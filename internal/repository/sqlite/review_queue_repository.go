package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/sentencease/client/internal/logger"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type reviewQueueRepository struct {
	db *sql.DB
}

// NewReviewQueueRepository creates a new ReviewQueueRepository implementation
func NewReviewQueueRepository(db *sql.DB) repository.ReviewQueueRepository {
	return &reviewQueueRepository{db: db}
}

func (r *reviewQueueRepository) Enqueue(ctx context.Context, review models.PendingReview) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_queue")
	log.Debug("enqueueing pending review: meaning_id=%d choice=%s", review.MeaningID, review.UserChoice)

	createdAt := review.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	// Always appended, never overwritten. Synced starts false regardless
	// of what the caller passed in.
	res, err := r.db.ExecContext(ctx, `
INSERT INTO pending_reviews (client_id, meaning_id, user_choice, created_at, synced)
VALUES (?, ?, ?, ?, 0)
`, review.ClientID, review.MeaningID, review.UserChoice, createdAt)
	if err != nil {
		log.Error("failed to enqueue pending review: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get pending review id: %v", err)
		return 0, err
	}
	log.Debug("pending review enqueued: id=%d", id)
	return id, nil
}

func (r *reviewQueueRepository) Pending(ctx context.Context) ([]models.PendingReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_queue")
	log.Debug("fetching unsynced pending reviews")

	// Insertion order matters: replay must approximate the order the
	// user actually reviewed.
	query, args, err := sqlBuilder.
		Select("id", "client_id", "meaning_id", "user_choice", "created_at", "synced").
		From("pending_reviews").
		Where(squirrel.Eq{"synced": 0}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build pending reviews query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query pending reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	reviews := []models.PendingReview{}
	for rows.Next() {
		var rev models.PendingReview
		if err := rows.Scan(&rev.ID, &rev.ClientID, &rev.MeaningID, &rev.UserChoice, &rev.CreatedAt, &rev.Synced); err != nil {
			log.Error("failed to scan pending review row: %v", err)
			return nil, err
		}
		reviews = append(reviews, rev)
	}

	log.Debug("found %d unsynced pending reviews", len(reviews))
	return reviews, rows.Err()
}

func (r *reviewQueueRepository) MarkSynced(ctx context.Context, ids []int64) error {
	log := logger.FromContext(ctx).WithPrefix("review_queue")
	log.Debug("marking %d reviews as synced", len(ids))

	if len(ids) == 0 {
		return nil
	}

	// Idempotent: marking an already-synced id again is a no-op.
	query, args, err := sqlBuilder.
		Update("pending_reviews").
		Set("synced", 1).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		log.Error("failed to build mark-synced query: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to mark reviews as synced: %v", err)
		return err
	}
	return nil
}

func (r *reviewQueueRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("review_queue")
	log.Debug("clearing pending review queue")

	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_reviews`)
	if err != nil {
		log.Error("failed to clear pending review queue: %v", err)
	}
	return err
}
