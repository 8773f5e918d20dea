package service

import (
	"context"
	"fmt"

	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/internal/rank"
)

type userRepository interface {
	User(ctx context.Context, userID, floorRank string) (*domain.User, error)
	SetStats(ctx context.Context, userID string, totalSpent, orderCount int64, rank string) (*domain.User, error)
}

type UserService struct {
	repo  userRepository
	ranks rank.Table
}

func NewUserService(repo userRepository, ranks rank.Table) *UserService {
	return &UserService{
		repo:  repo,
		ranks: ranks,
	}
}

// Stats returns the user's aggregate, creating it at the zero state on first
// sight.
func (s *UserService) Stats(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.User(ctx, userID, s.ranks.Floor())
}

// SetStats overwrites the aggregate with absolute values, recomputing the rank
// from totalSpent. It never trusts a caller-supplied rank.
func (s *UserService) SetStats(ctx context.Context, userID string, totalSpent, orderCount int64) (*domain.User, error) {
	if totalSpent < 0 || orderCount < 0 {
		return nil, fmt.Errorf("%w: totalSpent and orderCount must be non-negative", domain.ErrInvalidStats)
	}

	return s.repo.SetStats(ctx, userID, totalSpent, orderCount, s.ranks.Resolve(totalSpent))
}
