package userhandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/dto"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

type userService interface {
	Stats(ctx context.Context, userID string) (*domain.User, error)
	SetStats(ctx context.Context, userID string, totalSpent, orderCount int64) (*domain.User, error)
}

type UserHandler struct {
	srv userService
}

func New(srv userService) *UserHandler {
	return &UserHandler{
		srv: srv,
	}
}

func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.srv.Stats(r.Context(), userID)
	if err != nil {
		logger.Log.Error("error while fetching user stats", logger.String("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeStats(w, http.StatusOK, user)
}

// Update is the out-of-band absolute-set path. It overwrites totals and
// recomputes the rank server-side; a rank in the request body is ignored.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var update dto.UpdateStats
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Log.Warn("error while decoding an update request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Error("error while closing request body", logger.Error(err))
			return
		}
	}(r.Body)

	if err := update.IsValid(); err != nil {
		logger.Log.Warn("invalid update fields", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.srv.SetStats(r.Context(), userID, *update.TotalSpent, *update.OrderCount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStats) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.Error("error while updating user stats", logger.String("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := dto.UpdateResponse{
		Success: true,
		User: dto.UserStats{
			TotalSpent: user.TotalSpent,
			OrderCount: user.OrderCount,
			Rank:       user.Rank,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("error while encoding update response", logger.String("user_id", userID), logger.Error(err))
		return
	}
}

func writeStats(w http.ResponseWriter, status int, user *domain.User) {
	resp := dto.UserStats{
		TotalSpent: user.TotalSpent,
		OrderCount: user.OrderCount,
		Rank:       user.Rank,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("error while encoding user stats", logger.String("user_id", user.ID), logger.Error(err))
		return
	}
}
