package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sentencease/client/internal/logger"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context) (models.ProgressSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress snapshot")

	var snap models.ProgressSnapshot
	err := r.db.QueryRowContext(ctx, `SELECT completed, total FROM progress WHERE id = 1`).Scan(&snap.Completed, &snap.Total)
	if errors.Is(err, sql.ErrNoRows) {
		// An empty store is the valid "nothing tracked yet" state.
		log.Debug("no progress snapshot stored, returning zero counters")
		return models.ProgressSnapshot{}, nil
	}
	if err != nil {
		log.Error("failed to get progress snapshot: %v", err)
		return models.ProgressSnapshot{}, err
	}
	return snap, nil
}

func (r *progressRepository) Set(ctx context.Context, snapshot models.ProgressSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("storing progress snapshot: completed=%d total=%d", snapshot.Completed, snapshot.Total)

	// Singleton row, overwritten on every update.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO progress (id, completed, total, updated_at)
VALUES (1, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
    completed = excluded.completed,
    total = excluded.total,
    updated_at = excluded.updated_at
`, snapshot.Completed, snapshot.Total)
	if err != nil {
		log.Error("failed to store progress snapshot: %v", err)
	}
	return err
}

func (r *progressRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("clearing progress snapshot")

	_, err := r.db.ExecContext(ctx, `DELETE FROM progress`)
	if err != nil {
		log.Error("failed to clear progress snapshot: %v", err)
	}
	return err
}
