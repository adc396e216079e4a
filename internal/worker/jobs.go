package worker

import (
	"context"

	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/logger"
)

// PrefetchCardsJob pre-provisions the offline cache with a batch of
// cards. Best-effort: a failure only costs offline availability.
type PrefetchCardsJob struct {
	Gateway gateway.ClientInterface
	Count   int
}

func (j *PrefetchCardsJob) Name() string { return "prefetch-cards" }

func (j *PrefetchCardsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	n, err := j.Gateway.CacheWords(ctx, j.Count)
	if err != nil {
		return err
	}
	log.Debug("prefetched %d cards", n)
	return nil
}

// ReplayReviewsJob replays buffered review submissions.
type ReplayReviewsJob struct {
	Gateway gateway.ClientInterface
}

func (j *ReplayReviewsJob) Name() string { return "replay-reviews" }

func (j *ReplayReviewsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	result, err := j.Gateway.SyncPendingReviews(ctx)
	if err != nil {
		return err
	}
	if result.Synced > 0 || result.Failed > 0 {
		log.Info("replayed reviews: synced=%d failed=%d", result.Synced, result.Failed)
	}
	return nil
}
