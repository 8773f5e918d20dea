package userhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/internal/rank"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/dto"
)

type fakeUserService struct {
	users map[string]*domain.User
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: make(map[string]*domain.User)}
}

func (f *fakeUserService) Stats(_ context.Context, userID string) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		user = &domain.User{ID: userID, Rank: rank.Default().Floor()}
		f.users[userID] = user
	}
	snapshot := *user
	return &snapshot, nil
}

func (f *fakeUserService) SetStats(_ context.Context, userID string, totalSpent, orderCount int64) (*domain.User, error) {
	user := &domain.User{
		ID:         userID,
		TotalSpent: totalSpent,
		OrderCount: orderCount,
		Rank:       rank.Default().Resolve(totalSpent),
	}
	f.users[userID] = user
	snapshot := *user
	return &snapshot, nil
}

func newTestRouter(svc *fakeUserService) *chi.Mux {
	h := New(svc)
	r := chi.NewRouter()
	r.Get("/api/user/{userID}", h.Stats)
	r.Post("/api/user/{userID}/update", h.Update)
	return r
}

func TestStatsLazilyCreatesUnseenUser(t *testing.T) {
	r := newTestRouter(newFakeUserService())

	req := httptest.NewRequest(http.MethodGet, "/api/user/u1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var stats dto.UserStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalSpent != 0 || stats.OrderCount != 0 || stats.Rank != "زائر جديد 🌱" {
		t.Errorf("stats = %+v", stats)
	}
}

func TestUpdateRecomputesRank(t *testing.T) {
	svc := newFakeUserService()
	r := newTestRouter(svc)

	body := `{"totalSpent": 20000, "orderCount": 4}`
	req := httptest.NewRequest(http.MethodPost, "/api/user/u1/update", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp dto.UpdateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.User.Rank != "تاجر العدم ✨" {
		t.Errorf("rank = %q", resp.User.Rank)
	}
}

func TestUpdateIgnoresCallerSuppliedRank(t *testing.T) {
	svc := newFakeUserService()
	r := newTestRouter(svc)

	body := `{"totalSpent": 0, "orderCount": 0, "rank": "إمبراطور العدم 👑"}`
	req := httptest.NewRequest(http.MethodPost, "/api/user/u1/update", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp dto.UpdateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.User.Rank != "زائر جديد 🌱" {
		t.Errorf("rank = %q, want the recomputed floor rank", resp.User.Rank)
	}
}

func TestUpdateRejectsMissingAndNegativeFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing orderCount", body: `{"totalSpent": 100}`},
		{name: "negative totalSpent", body: `{"totalSpent": -1, "orderCount": 0}`},
		{name: "broken json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newFakeUserService())

			req := httptest.NewRequest(http.MethodPost, "/api/user/u1/update", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}
