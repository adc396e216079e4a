package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/sentencease/client/internal/models"
)

// ReviewRequest is the body the gateway posts to /learn/review.
type ReviewRequest struct {
	MeaningID      int64  `json:"meaningId"`
	UserChoice     string `json:"userChoice"`
	ClientReviewID string `json:"clientReviewId,omitempty"`
}

// FakeBackend is a scriptable stand-in for the SentenCease API used by
// gateway tests. It records every review POST in arrival order and can
// be told to fail specific reviews or the whole API.
type FakeBackend struct {
	Server *httptest.Server

	mu             sync.Mutex
	cards          []models.WordCard
	peekCard       *models.WordCard
	progress       models.ProgressSnapshot
	selection      []models.WordCard
	reviewRequests []ReviewRequest
	failReview     map[int64]int
	failAll        int
	lastAuth       string
	noMoreMessage  string
}

// NewFakeBackend starts a fake backend on a random local port.
func NewFakeBackend() *FakeBackend {
	f := &FakeBackend{
		failReview:    make(map[int64]int),
		noMoreMessage: "Congratulations! You have learned all available words.",
	}

	r := chi.NewRouter()
	r.Get("/learn/next-word", f.handleNextWord)
	r.Get("/learn/peek-next-word", f.handlePeekNextWord)
	r.Post("/learn/review", f.handleReview)
	r.Get("/learn/progress", f.handleProgress)
	r.Get("/words/selection", f.handleSelection)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if status := f.failure(r); status != 0 {
			writeJSON(w, status, map[string]string{"error": "backend unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Sentencease API"})
	})

	f.Server = httptest.NewServer(r)
	return f
}

// Close shuts the fake backend down.
func (f *FakeBackend) Close() {
	f.Server.Close()
}

// URL returns the backend base URL.
func (f *FakeBackend) URL() string {
	return f.Server.URL
}

// QueueCards sets the cards served by successive next-word calls.
func (f *FakeBackend) QueueCards(cards ...models.WordCard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = append(f.cards, cards...)
}

// SetPeekCard sets the card served by peek-next-word.
func (f *FakeBackend) SetPeekCard(card *models.WordCard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peekCard = card
}

// SetProgress sets the served progress counters.
func (f *FakeBackend) SetProgress(snapshot models.ProgressSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = snapshot
}

// SetSelection sets the cards served by /words/selection.
func (f *FakeBackend) SetSelection(cards []models.WordCard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selection = cards
}

// FailReviewWith makes reviews for meaningID fail with the given status.
func (f *FakeBackend) FailReviewWith(meaningID int64, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReview[meaningID] = status
}

// FailAllWith makes every endpoint respond with the given status.
// Pass 0 to restore normal behavior.
func (f *FakeBackend) FailAllWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = status
}

// ReviewRequests returns every recorded review POST in arrival order.
func (f *FakeBackend) ReviewRequests() []ReviewRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ReviewRequest, len(f.reviewRequests))
	copy(out, f.reviewRequests)
	return out
}

// LastAuthorization returns the Authorization header of the most recent request.
func (f *FakeBackend) LastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *FakeBackend) failure(r *http.Request) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = r.Header.Get("Authorization")
	return f.failAll
}

func (f *FakeBackend) handleNextWord(w http.ResponseWriter, r *http.Request) {
	if status := f.failure(r); status != 0 {
		writeJSON(w, status, map[string]string{"error": "backend unavailable"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cards) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": f.noMoreMessage})
		return
	}
	card := f.cards[0]
	f.cards = f.cards[1:]
	writeJSON(w, http.StatusOK, card)
}

func (f *FakeBackend) handlePeekNextWord(w http.ResponseWriter, r *http.Request) {
	if status := f.failure(r); status != 0 {
		writeJSON(w, status, map[string]string{"error": "backend unavailable"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.peekCard == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "当前没有更多单词了"})
		return
	}
	writeJSON(w, http.StatusOK, f.peekCard)
}

func (f *FakeBackend) handleReview(w http.ResponseWriter, r *http.Request) {
	if status := f.failure(r); status != 0 {
		writeJSON(w, status, map[string]string{"error": "backend unavailable"})
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.failReview[req.MeaningID]; ok {
		writeJSON(w, status, map[string]string{"error": "review rejected"})
		return
	}
	f.reviewRequests = append(f.reviewRequests, req)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Progress updated successfully"})
}

func (f *FakeBackend) handleProgress(w http.ResponseWriter, r *http.Request) {
	if status := f.failure(r); status != 0 {
		writeJSON(w, status, map[string]string{"error": "backend unavailable"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.progress)
}

func (f *FakeBackend) handleSelection(w http.ResponseWriter, r *http.Request) {
	if status := f.failure(r); status != 0 {
		writeJSON(w, status, map[string]string{"error": "backend unavailable"})
		return
	}

	if _, err := strconv.Atoi(r.URL.Query().Get("count")); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid count parameter"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	cards := f.selection
	if count < len(cards) {
		cards = cards[:count]
	}
	writeJSON(w, http.StatusOK, cards)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
