package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/testutil"
	"github.com/sentencease/client/internal/testutil/mocks"
)

// Storage failures must never break the review flow: caching is
// best-effort and a broken local store only costs offline availability.

var errDiskFull = errors.New("disk full")

func TestNextWordSurvivesCacheWriteFailure(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.QueueCards(card(1, "unstore"))

	cards := new(mocks.MockCardRepository)
	cards.On("Put", mock.Anything, mock.AnythingOfType("models.WordCard")).Return(errDiskFull)

	client := gateway.New(backend.URL(), gateway.StaticToken(""), cards, new(mocks.MockReviewQueueRepository), new(mocks.MockProgressRepository))

	result, err := client.NextWord(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Card)
	assert.Equal(t, int64(1), result.Card.ContextualMeaningID)
	cards.AssertExpectations(t)
}

func TestOfflineSubmitSurvivesBufferFailure(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.FailAllWith(http.StatusServiceUnavailable)

	queue := new(mocks.MockReviewQueueRepository)
	queue.On("Enqueue", mock.Anything, mock.AnythingOfType("models.PendingReview")).Return(int64(0), errDiskFull)

	client := gateway.New(backend.URL(), gateway.StaticToken(""), new(mocks.MockCardRepository), queue, new(mocks.MockProgressRepository))

	ack, err := client.SubmitReview(context.Background(), 7, models.ChoiceKnown)
	require.NoError(t, err)
	assert.True(t, ack.Offline)
	queue.AssertExpectations(t)
}

func TestOfflineNextWordSurvivesCacheReadFailure(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.FailAllWith(http.StatusServiceUnavailable)

	cards := new(mocks.MockCardRepository)
	cards.On("All", mock.Anything).Return(nil, errDiskFull)

	client := gateway.New(backend.URL(), gateway.StaticToken(""), cards, new(mocks.MockReviewQueueRepository), new(mocks.MockProgressRepository))

	result, err := client.NextWord(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result.Card)
	assert.True(t, result.Offline)
	assert.NotEmpty(t, result.Message)
}

func TestProgressSurvivesSnapshotWriteFailure(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()
	backend.SetProgress(models.ProgressSnapshot{Completed: 3, Total: 9})

	progress := new(mocks.MockProgressRepository)
	progress.On("Set", mock.Anything, models.ProgressSnapshot{Completed: 3, Total: 9}).Return(errDiskFull)

	client := gateway.New(backend.URL(), gateway.StaticToken(""), new(mocks.MockCardRepository), new(mocks.MockReviewQueueRepository), progress)

	result, err := client.Progress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ProgressSnapshot{Completed: 3, Total: 9}, result.Snapshot)
	progress.AssertExpectations(t)
}

func TestSyncFailsWhenQueueIsUnreadable(t *testing.T) {
	backend := testutil.NewFakeBackend()
	defer backend.Close()

	queue := new(mocks.MockReviewQueueRepository)
	queue.On("Pending", mock.Anything).Return(nil, errDiskFull)

	client := gateway.New(backend.URL(), gateway.StaticToken(""), new(mocks.MockCardRepository), queue, new(mocks.MockProgressRepository))

	_, err := client.SyncPendingReviews(context.Background())
	require.ErrorIs(t, err, errDiskFull)
}
