package session

import (
	"context"
	"errors"
	"sync"
	"time"

	errs "github.com/sentencease/client/internal/errors"
	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/logger"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository"
)

// State is the review-session presentation state.
type State int

const (
	// StateLoading means a fetch for the next card is outstanding.
	StateLoading State = iota
	// StatePresentingHidden shows the sentence with the definition and
	// choices still hidden.
	StatePresentingHidden
	// StatePresentingRevealed shows the definition; choices become
	// interactable after a short grace delay.
	StatePresentingRevealed
	// StateSubmitting rejects input until the submission resolves.
	StateSubmitting
	// StateComplete means the backend signalled no more cards are due.
	StateComplete
	// StateErrored means a non-connectivity failure needs a user retry.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePresentingHidden:
		return "hidden"
	case StatePresentingRevealed:
		return "revealed"
	case StateSubmitting:
		return "submitting"
	case StateComplete:
		return "complete"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

var (
	// ErrNotInteractable is returned when a choice arrives before the
	// card is revealed or before the reveal grace delay has elapsed.
	ErrNotInteractable = errors.New("session: choices are not interactable yet")
	// ErrBusy is returned when input arrives while a submission or
	// fetch is already in flight.
	ErrBusy = errors.New("session: operation already in progress")
)

// Snapshot is an immutable view of the session for UI consumption.
type Snapshot struct {
	State        State
	Card         *models.WordCard
	Message      string
	ErrMessage   string
	Offline      bool
	Progress     models.ProgressSnapshot
	Interactable bool
	CanGoBack    bool
}

// Options tune a session controller. Zero values select defaults.
type Options struct {
	HistorySize int
	RevealGrace time.Duration
	Now         func() time.Time
}

// Controller drives one review session: fetching cards, tracking a
// bounded navigable history, submitting choices, and exposing the
// current presentation state.
type Controller struct {
	mu       sync.Mutex
	gw       gateway.ClientInterface
	progress repository.ProgressRepository
	log      *logger.Logger

	state      State
	card       *models.WordCard
	offline    bool
	message    string
	errMsg     string
	counters   models.ProgressSnapshot
	revealedAt time.Time

	history     []models.WordCard
	historySize int

	// generation invalidates in-flight fetches: only the most recently
	// initiated fetch may apply its result.
	generation uint64

	now         func() time.Time
	revealGrace time.Duration
	listener    func(Snapshot)
}

// New creates a session controller on top of the gateway.
func New(gw gateway.ClientInterface, progress repository.ProgressRepository, opts Options) *Controller {
	if opts.HistorySize <= 0 {
		opts.HistorySize = 10
	}
	if opts.RevealGrace <= 0 {
		opts.RevealGrace = 300 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		gw:          gw,
		progress:    progress,
		log:         logger.Default().WithPrefix("session"),
		state:       StateLoading,
		historySize: opts.HistorySize,
		revealGrace: opts.RevealGrace,
		now:         opts.Now,
	}
}

// SetListener registers a callback invoked after every state change.
// The callback runs outside the controller lock.
func (c *Controller) SetListener(fn func(Snapshot)) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

// Start loads the cached progress counters and issues the first fetch.
func (c *Controller) Start(ctx context.Context) {
	if snap, err := c.progress.Get(ctx); err == nil {
		c.mu.Lock()
		c.counters = snap
		c.mu.Unlock()
	}
	c.fetchNext(ctx)
}

// Refresh discards the current card and fetches a fresh one. Any fetch
// already in flight is superseded.
func (c *Controller) Refresh(ctx context.Context) {
	c.fetchNext(ctx)
}

// Retry re-fetches after a failure. Only valid from the errored state.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateErrored {
		c.mu.Unlock()
		return ErrBusy
	}
	c.mu.Unlock()
	c.fetchNext(ctx)
	return nil
}

// fetchNext transitions to loading and resolves the next card
// asynchronously. A new card always arrives hidden and
// non-interactable, never inheriting the previous card's revealed
// state.
func (c *Controller) fetchNext(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.card = nil
	c.offline = false
	c.message = ""
	c.errMsg = ""
	c.revealedAt = time.Time{}
	c.notifyLocked()
	c.mu.Unlock()

	go func() {
		result, err := c.gw.NextWord(ctx)
		c.applyFetch(gen, result, err)
		if err == nil {
			c.refreshProgress(ctx)
		}
	}()
}

// applyFetch installs a fetch result unless a newer fetch has been
// initiated since: a stale in-flight fetch must never clobber newer
// state.
func (c *Controller) applyFetch(gen uint64, result *gateway.NextWordResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug("ignoring superseded fetch: generation %d < %d", gen, c.generation)
		return
	}

	if err != nil {
		// Connectivity failures were absorbed by the gateway; whatever
		// reaches here needs an explicit user retry.
		c.log.Error("fetch failed: %v", err)
		c.state = StateErrored
		c.errMsg = errorMessage(err)
		c.notifyLocked()
		return
	}

	if result.Message != "" {
		c.state = StateComplete
		c.message = result.Message
		c.offline = result.Offline
		c.notifyLocked()
		return
	}

	c.state = StatePresentingHidden
	c.card = result.Card
	c.offline = result.Offline
	c.revealedAt = time.Time{}
	c.notifyLocked()
}

// Reveal shows the current card's definition. Choices become
// interactable only after the grace delay, to keep the gesture that
// revealed the card from also submitting a choice.
func (c *Controller) Reveal() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePresentingHidden {
		return ErrBusy
	}
	c.state = StatePresentingRevealed
	c.revealedAt = c.now()
	c.notifyLocked()
	return nil
}

// Submit records the user's choice for the current card. The control
// surface stays locked until the next card arrives, and the online and
// offline-buffered paths take the identical transition.
func (c *Controller) Submit(ctx context.Context, choice string) error {
	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateLoading {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != StatePresentingRevealed {
		c.mu.Unlock()
		return ErrNotInteractable
	}
	if c.now().Sub(c.revealedAt) < c.revealGrace {
		c.mu.Unlock()
		return ErrNotInteractable
	}
	card := *c.card
	c.state = StateSubmitting
	c.notifyLocked()
	c.mu.Unlock()

	ack, err := c.gw.SubmitReview(ctx, card.ContextualMeaningID, choice)
	if err != nil {
		c.mu.Lock()
		c.log.Error("submission failed for meaning %d: %v", card.ContextualMeaningID, err)
		c.state = StateErrored
		c.errMsg = errorMessage(err)
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if ack.Offline {
		c.log.Info("review buffered offline: meaning_id=%d", card.ContextualMeaningID)
	}
	// Optimistic progress: completed advances immediately on both
	// paths so the UI never regresses; the server count reconciles it
	// on the next successful fetch.
	c.counters.Completed++
	counters := c.counters
	c.pushHistoryLocked(card)
	c.mu.Unlock()

	if err := c.progress.Set(ctx, counters); err != nil {
		c.log.Warn("failed to persist optimistic progress: %v", err)
	}

	c.fetchNext(ctx)
	c.peek(ctx)
	return nil
}

// peek opportunistically pre-fetches the card after the next one. Pure
// latency optimization: failures are swallowed.
func (c *Controller) peek(ctx context.Context) {
	go func() {
		if _, err := c.gw.PeekNextWord(ctx); err != nil {
			c.log.Debug("peek prefetch failed: %v", err)
		}
	}()
}

// Back restores the most recently reviewed card without a network
// call. The restored card is immediately revealed and interactable,
// and any in-flight fetch is superseded.
func (c *Controller) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 || c.state == StateSubmitting {
		return false
	}

	c.generation++
	card := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]

	c.card = &card
	c.state = StatePresentingRevealed
	c.revealedAt = c.now().Add(-c.revealGrace)
	c.message = ""
	c.errMsg = ""
	c.notifyLocked()
	return true
}

func (c *Controller) pushHistoryLocked(card models.WordCard) {
	c.history = append(c.history, card)
	if len(c.history) > c.historySize {
		// Bounded window: oldest entries drop first.
		c.history = c.history[len(c.history)-c.historySize:]
	}
}

// refreshProgress reconciles the optimistic counters with the server's
// authoritative count. Offline results come from the cached snapshot.
func (c *Controller) refreshProgress(ctx context.Context) {
	result, err := c.gw.Progress(ctx)
	if err != nil {
		c.log.Debug("progress refresh failed: %v", err)
		return
	}
	c.mu.Lock()
	if !result.Offline || result.Snapshot.Completed > c.counters.Completed {
		c.counters = result.Snapshot
	}
	c.notifyLocked()
	c.mu.Unlock()
}

// Snapshot returns the current presentation state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:        c.state,
		Card:         c.card,
		Message:      c.message,
		ErrMessage:   c.errMsg,
		Offline:      c.offline,
		Progress:     c.counters,
		Interactable: c.state == StatePresentingRevealed && c.now().Sub(c.revealedAt) >= c.revealGrace,
		CanGoBack:    len(c.history) > 0,
	}
}

func (c *Controller) notifyLocked() {
	if c.listener == nil {
		return
	}
	snap := c.snapshotLocked()
	listener := c.listener
	go listener(snap)
}

func errorMessage(err error) string {
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
