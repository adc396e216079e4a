package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sentencease/client/internal/logger"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Put(ctx context.Context, card models.WordCard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("caching card: meaning_id=%d", card.ContextualMeaningID)

	meanings, err := json.Marshal(card.AllMeanings)
	if err != nil {
		log.Error("failed to marshal meanings: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO cached_cards (meaning_id, lemma, word_in_sentence, example_sentence, example_sentence_translation, all_meanings, cached_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(meaning_id) DO UPDATE SET
    lemma = excluded.lemma,
    word_in_sentence = excluded.word_in_sentence,
    example_sentence = excluded.example_sentence,
    example_sentence_translation = excluded.example_sentence_translation,
    all_meanings = excluded.all_meanings,
    cached_at = excluded.cached_at
`, card.ContextualMeaningID, card.Lemma, card.WordInSentence, card.ExampleSentence, card.ExampleSentenceTranslation, string(meanings))
	if err != nil {
		log.Error("failed to cache card: %v", err)
	}
	return err
}

func (r *cardRepository) PutBatch(ctx context.Context, cards []models.WordCard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("caching %d cards", len(cards))

	if len(cards) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cached_cards (meaning_id, lemma, word_in_sentence, example_sentence, example_sentence_translation, all_meanings, cached_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(meaning_id) DO UPDATE SET
    lemma = excluded.lemma,
    word_in_sentence = excluded.word_in_sentence,
    example_sentence = excluded.example_sentence,
    example_sentence_translation = excluded.example_sentence_translation,
    all_meanings = excluded.all_meanings,
    cached_at = excluded.cached_at
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, card := range cards {
			meanings, err := json.Marshal(card.AllMeanings)
			if err != nil {
				log.Error("failed to marshal meanings for card %d: %v", card.ContextualMeaningID, err)
				return err
			}
			if _, err := stmt.ExecContext(ctx, card.ContextualMeaningID, card.Lemma, card.WordInSentence, card.ExampleSentence, card.ExampleSentenceTranslation, string(meanings)); err != nil {
				log.Error("failed to cache card %d: %v", card.ContextualMeaningID, err)
				return err
			}
		}
		return nil
	})
}

func (r *cardRepository) Get(ctx context.Context, meaningID int64) (*models.WordCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting cached card: meaning_id=%d", meaningID)

	var card models.WordCard
	var meanings string
	err := r.db.QueryRowContext(ctx, `
SELECT meaning_id, lemma, word_in_sentence, example_sentence, example_sentence_translation, all_meanings
FROM cached_cards
WHERE meaning_id = ?
`, meaningID).Scan(&card.ContextualMeaningID, &card.Lemma, &card.WordInSentence, &card.ExampleSentence, &card.ExampleSentenceTranslation, &meanings)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not cached: meaning_id=%d", meaningID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get cached card: %v", err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(meanings), &card.AllMeanings); err != nil {
		log.Error("failed to unmarshal meanings for card %d: %v", meaningID, err)
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) All(ctx context.Context) ([]models.WordCard, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cached cards")

	rows, err := r.db.QueryContext(ctx, `
SELECT meaning_id, lemma, word_in_sentence, example_sentence, example_sentence_translation, all_meanings
FROM cached_cards
ORDER BY cached_at ASC, meaning_id ASC
`)
	if err != nil {
		log.Error("failed to list cached cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.WordCard{}
	for rows.Next() {
		var card models.WordCard
		var meanings string
		if err := rows.Scan(&card.ContextualMeaningID, &card.Lemma, &card.WordInSentence, &card.ExampleSentence, &card.ExampleSentenceTranslation, &meanings); err != nil {
			log.Error("failed to scan cached card row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(meanings), &card.AllMeanings); err != nil {
			log.Error("failed to unmarshal meanings for card %d: %v", card.ContextualMeaningID, err)
			return nil, err
		}
		cards = append(cards, card)
	}

	log.Debug("found %d cached cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("clearing card cache")

	_, err := r.db.ExecContext(ctx, `DELETE FROM cached_cards`)
	if err != nil {
		log.Error("failed to clear card cache: %v", err)
	}
	return err
}
