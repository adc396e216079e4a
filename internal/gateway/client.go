package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/sentencease/client/internal/errors"
	"github.com/sentencease/client/internal/logger"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository"
)

// Backend endpoint paths. The base URL comes from configuration.
const (
	pathNextWord  = "/learn/next-word"
	pathPeekWord  = "/learn/peek-next-word"
	pathReview    = "/learn/review"
	pathProgress  = "/learn/progress"
	pathSelection = "/words/selection"
)

const offlineNoCardsMessage = "离线模式：没有已缓存的单词可供学习"

// TokenProvider supplies the current bearer credential. An empty token
// means "no credential"; the backend decides whether that is acceptable.
type TokenProvider interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenProvider.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StaticToken is a TokenProvider for a fixed credential.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// NextWordResult is the outcome of a next-word fetch. Exactly one of
// Card and Message is meaningful: Message is set when no cards are due.
// Offline marks results served from the local cache.
type NextWordResult struct {
	Card    *models.WordCard
	Message string
	Offline bool
}

// ReviewAck acknowledges a review submission. Offline marks
// submissions buffered locally for later replay; callers proceed
// exactly as for an online acceptance.
type ReviewAck struct {
	Message string
	Offline bool
}

// ProgressResult carries the daily counters and their origin.
type ProgressResult struct {
	Snapshot models.ProgressSnapshot
	Offline  bool
}

// SyncResult summarizes one replay pass over the pending-review queue.
type SyncResult struct {
	Synced int
	Failed int
}

// Client is the single chokepoint for backend calls. It injects the
// bearer credential, classifies failures, and on connectivity failure
// falls back to the local durable store: cached reads for GETs,
// deferred-replay buffering for review POSTs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenProvider
	cards      repository.CardRepository
	queue      repository.ReviewQueueRepository
	progress   repository.ProgressRepository
	log        *logger.Logger

	syncMu sync.Mutex

	newReviewID func() string
}

// New creates a gateway client for the backend at baseURL.
func New(baseURL string, tokens TokenProvider, cards repository.CardRepository, queue repository.ReviewQueueRepository, progress repository.ProgressRepository) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokens:      tokens,
		cards:       cards,
		queue:       queue,
		progress:    progress,
		log:         logger.Default().WithPrefix("gateway"),
		newReviewID: uuid.NewString,
	}
}

type reviewRequest struct {
	MeaningID      int64  `json:"meaningId"`
	UserChoice     string `json:"userChoice"`
	ClientReviewID string `json:"clientReviewId,omitempty"`
}

type messageEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one backend call and classifies the outcome. A transport
// failure or a status in {502, 503, 504} comes back as a connectivity
// error; any other non-2xx status becomes an APIError carrying the
// server message verbatim.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway")
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			log.Error("failed to encode request body: %v", err)
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug("%s %s", method, url)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed with no response: %v", err)
		return nil, errs.NewConnectivityError(err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if errs.RetryableStatus(resp.StatusCode) {
		log.Debug("treating status %d as connectivity failure", resp.StatusCode)
		return nil, errs.NewConnectivityStatusError(resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Error("failed to read response body: %v", err)
		return nil, errs.NewConnectivityError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope messageEnvelope
		_ = json.Unmarshal(raw, &envelope)
		msg := envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
		log.Error("request failed: status=%d, message=%s", resp.StatusCode, msg)
		return nil, errs.NewAPIError(resp.StatusCode, msg)
	}

	return raw, nil
}

// NextWord fetches the next due card. On connectivity failure it serves
// an unreviewed card from the local cache instead, marked Offline.
func (c *Client) NextWord(ctx context.Context) (*NextWordResult, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway")

	raw, err := c.do(ctx, http.MethodGet, pathNextWord, nil)
	if err != nil {
		if errs.IsConnectivity(err) {
			log.Info("next-word unreachable, falling back to cache")
			return c.offlineNextWord(ctx), nil
		}
		return nil, err
	}

	var payload struct {
		messageEnvelope
		models.WordCard
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error("failed to decode next-word response: %v", err)
		return nil, fmt.Errorf("decode next-word response: %w", err)
	}

	if payload.Message != "" {
		log.Debug("no more cards due: %s", payload.Message)
		return &NextWordResult{Message: payload.Message}, nil
	}

	card := payload.WordCard
	// Write-through so the card is reviewable offline later. A storage
	// failure only costs offline availability.
	if err := c.cards.Put(ctx, card); err != nil {
		log.Warn("failed to cache fetched card %d: %v", card.ContextualMeaningID, err)
	}

	return &NextWordResult{Card: &card}, nil
}

// offlineNextWord picks a cached card that has not been reviewed in
// this offline stretch. An empty cache degrades to a message, never an
// error: a cache miss is not fatal.
func (c *Client) offlineNextWord(ctx context.Context) *NextWordResult {
	log := logger.FromContext(ctx).WithPrefix("gateway")

	cached, err := c.cards.All(ctx)
	if err != nil {
		log.Warn("failed to read card cache: %v", err)
		return &NextWordResult{Message: offlineNoCardsMessage, Offline: true}
	}
	if len(cached) == 0 {
		return &NextWordResult{Message: offlineNoCardsMessage, Offline: true}
	}

	reviewed := map[int64]bool{}
	if pending, err := c.queue.Pending(ctx); err != nil {
		log.Warn("failed to read pending reviews: %v", err)
	} else {
		for _, review := range pending {
			reviewed[review.MeaningID] = true
		}
	}

	for i := range cached {
		if !reviewed[cached[i].ContextualMeaningID] {
			log.Debug("serving cached card: meaning_id=%d", cached[i].ContextualMeaningID)
			return &NextWordResult{Card: &cached[i], Offline: true}
		}
	}

	return &NextWordResult{Message: "离线模式：已学完所有缓存的单词", Offline: true}
}

// PeekNextWord pre-fetches the card after the current one. Callers
// treat any failure as best-effort; a successful peek is cached.
func (c *Client) PeekNextWord(ctx context.Context) (*models.WordCard, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway")

	raw, err := c.do(ctx, http.MethodGet, pathPeekWord, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		messageEnvelope
		models.WordCard
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode peek response: %w", err)
	}
	if payload.Message != "" {
		return nil, nil
	}

	card := payload.WordCard
	if err := c.cards.Put(ctx, card); err != nil {
		log.Warn("failed to cache peeked card %d: %v", card.ContextualMeaningID, err)
	}
	return &card, nil
}

// SubmitReview submits a review. On connectivity failure the review is
// buffered into the pending queue and acknowledged as offline-accepted,
// so the caller proceeds exactly as though the server accepted it.
// Validation and unexpected server failures propagate.
func (c *Client) SubmitReview(ctx context.Context, meaningID int64, choice string) (*ReviewAck, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway")

	if !models.ValidChoice(choice) {
		return nil, errs.NewAPIError(http.StatusBadRequest, fmt.Sprintf("invalid review choice: %q", choice))
	}

	body := reviewRequest{
		MeaningID:      meaningID,
		UserChoice:     choice,
		ClientReviewID: c.newReviewID(),
	}

	raw, err := c.do(ctx, http.MethodPost, pathReview, body)
	if err != nil {
		if errs.IsConnectivity(err) {
			log.Info("review submission unreachable, buffering: meaning_id=%d", meaningID)
			_, qerr := c.queue.Enqueue(ctx, models.PendingReview{
				ClientID:   body.ClientReviewID,
				MeaningID:  meaningID,
				UserChoice: choice,
			})
			if qerr != nil {
				// Storage failures never surface to the review flow.
				log.Error("failed to buffer review for meaning %d: %v", meaningID, qerr)
			}
			return &ReviewAck{Message: "已离线保存，联网后自动同步", Offline: true}, nil
		}
		return nil, err
	}

	var envelope messageEnvelope
	_ = json.Unmarshal(raw, &envelope)
	return &ReviewAck{Message: envelope.Message}, nil
}

// Progress fetches today's counters, writing the online result through
// to the local snapshot. Offline reads come from the snapshot and a
// missing snapshot yields zero counters.
func (c *Client) Progress(ctx context.Context) (*ProgressResult, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway")

	raw, err := c.do(ctx, http.MethodGet, pathProgress, nil)
	if err != nil {
		if errs.IsConnectivity(err) {
			log.Debug("progress unreachable, reading cached snapshot")
			snap, serr := c.progress.Get(ctx)
			if serr != nil {
				log.Warn("failed to read cached progress: %v", serr)
				snap = models.ProgressSnapshot{}
			}
			return &ProgressResult{Snapshot: snap, Offline: true}, nil
		}
		return nil, err
	}

	var snap models.ProgressSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode progress response: %w", err)
	}

	if err := c.progress.Set(ctx, snap); err != nil {
		log.Warn("failed to cache progress snapshot: %v", err)
	}
	return &ProgressResult{Snapshot: snap}, nil
}

// CacheWords pulls count random cards from the backend into the local
// cache for offline pre-provisioning. Best-effort: callers log the
// error, the user never sees it.
func (c *Client) CacheWords(ctx context.Context, count int) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("gateway")

	if count <= 0 {
		return 0, nil
	}

	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s?count=%d&order=random", pathSelection, count), nil)
	if err != nil {
		log.Warn("failed to fetch cards for offline cache: %v", err)
		return 0, err
	}

	var cards []models.WordCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		log.Warn("failed to decode selection response: %v", err)
		return 0, fmt.Errorf("decode selection response: %w", err)
	}

	if err := c.cards.PutBatch(ctx, cards); err != nil {
		log.Warn("failed to store %d cards: %v", len(cards), err)
		return 0, err
	}

	log.Info("cached %d cards for offline use", len(cards))
	return len(cards), nil
}

// SyncPendingReviews replays unsynced reviews in insertion order and
// marks exactly the successes. A failure on one entry never aborts the
// rest. Safe to invoke repeatedly; reviews enqueued mid-replay are
// picked up on the next invocation.
func (c *Client) SyncPendingReviews(ctx context.Context) (SyncResult, error) {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("gateway")

	pending, err := c.queue.Pending(ctx)
	if err != nil {
		log.Error("failed to read pending reviews: %v", err)
		return SyncResult{}, err
	}
	if len(pending) == 0 {
		log.Debug("no pending reviews to sync")
		return SyncResult{}, nil
	}

	log.Info("replaying %d pending reviews", len(pending))

	var syncedIDs []int64
	for _, review := range pending {
		body := reviewRequest{
			MeaningID:      review.MeaningID,
			UserChoice:     review.UserChoice,
			ClientReviewID: review.ClientID,
		}
		if _, err := c.do(ctx, http.MethodPost, pathReview, body); err != nil {
			log.Warn("replay failed for review %d (meaning %d): %v", review.ID, review.MeaningID, err)
			continue
		}
		syncedIDs = append(syncedIDs, review.ID)
	}

	if err := c.queue.MarkSynced(ctx, syncedIDs); err != nil {
		// Entries stay unsynced and will replay again; the backend
		// dedups on the client review id.
		log.Error("failed to mark %d reviews synced: %v", len(syncedIDs), err)
		return SyncResult{Synced: len(syncedIDs), Failed: len(pending) - len(syncedIDs)}, err
	}

	result := SyncResult{Synced: len(syncedIDs), Failed: len(pending) - len(syncedIDs)}
	log.Info("replay finished: synced=%d failed=%d", result.Synced, result.Failed)
	return result, nil
}

// Ping probes backend reachability. Only connectivity-classified
// failures count as unreachable; an auth or server error still proves
// the network path works.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil && errs.IsConnectivity(err) {
		return err
	}
	return nil
}
