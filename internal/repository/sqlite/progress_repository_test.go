package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sentencease/client/internal/db"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository"
	"github.com/sentencease/client/internal/repository/sqlite"
	"github.com/sentencease/client/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db.DB)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestGetOnEmptyStoreReturnsZeroCounters() {
	snap, err := s.repo.Get(context.Background())
	s.Require().NoError(err)
	s.Equal(models.ProgressSnapshot{Completed: 0, Total: 0}, snap)
}

func (s *ProgressRepositorySuite) TestSetAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, models.ProgressSnapshot{Completed: 3, Total: 20}))

	snap, err := s.repo.Get(ctx)
	s.Require().NoError(err)
	s.Equal(models.ProgressSnapshot{Completed: 3, Total: 20}, snap)
}

func (s *ProgressRepositorySuite) TestSetOverwritesSingleton() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, models.ProgressSnapshot{Completed: 3, Total: 20}))
	s.Require().NoError(s.repo.Set(ctx, models.ProgressSnapshot{Completed: 4, Total: 20}))

	snap, err := s.repo.Get(ctx)
	s.Require().NoError(err)
	s.Equal(4, snap.Completed)

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM progress`).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *ProgressRepositorySuite) TestClear() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, models.ProgressSnapshot{Completed: 1, Total: 5}))
	s.Require().NoError(s.repo.Clear(ctx))

	snap, err := s.repo.Get(ctx)
	s.Require().NoError(err)
	s.Equal(models.ProgressSnapshot{}, snap)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
