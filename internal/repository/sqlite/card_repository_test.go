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

type CardRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.CardRepository
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db.DB)
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func testCard(id int64, lemma string) models.WordCard {
	return models.WordCard{
		ContextualMeaningID: id,
		Lemma:               lemma,
		WordInSentence:      lemma,
		ExampleSentence:     "The " + lemma + " was remarkable.",
		AllMeanings: []models.Meaning{
			{MeaningID: id, PartOfSpeech: "n.", Definition: "definition of " + lemma},
		},
	}
}

func (s *CardRepositorySuite) TestPutAndGet() {
	ctx := context.Background()

	card := testCard(1, "ubiquitous")
	card.ExampleSentenceTranslation = "翻译"
	s.Require().NoError(s.repo.Put(ctx, card))

	got, err := s.repo.Get(ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(card, *got)
}

func (s *CardRepositorySuite) TestGetMissReturnsNilNotError() {
	got, err := s.repo.Get(context.Background(), 999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *CardRepositorySuite) TestAllOnEmptyStore() {
	cards, err := s.repo.All(context.Background())
	s.Require().NoError(err)
	s.Empty(cards)
}

func (s *CardRepositorySuite) TestPutOverwritesSameKey() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, testCard(7, "first")))
	s.Require().NoError(s.repo.Put(ctx, testCard(7, "second")))

	cards, err := s.repo.All(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Equal(int64(7), cards[0].ContextualMeaningID)
	s.Equal("second", cards[0].Lemma)
}

func (s *CardRepositorySuite) TestPutBatch() {
	ctx := context.Background()

	batch := []models.WordCard{testCard(1, "one"), testCard(2, "two"), testCard(3, "three")}
	s.Require().NoError(s.repo.PutBatch(ctx, batch))

	cards, err := s.repo.All(ctx)
	s.Require().NoError(err)
	s.Len(cards, 3)

	// Batch upsert overwrites too.
	s.Require().NoError(s.repo.PutBatch(ctx, []models.WordCard{testCard(2, "deux")}))
	got, err := s.repo.Get(ctx, 2)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("deux", got.Lemma)
}

func (s *CardRepositorySuite) TestPutBatchEmpty() {
	s.Require().NoError(s.repo.PutBatch(context.Background(), nil))
}

func (s *CardRepositorySuite) TestClear() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, testCard(1, "one")))
	s.Require().NoError(s.repo.Clear(ctx))

	cards, err := s.repo.All(ctx)
	s.Require().NoError(err)
	s.Empty(cards)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
