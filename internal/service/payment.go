package service

import (
	"context"
	"errors"

	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/internal/rank"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

const (
	paymentAppliedText = "🎉 تم الدفع بنجاح! شكرًا لشرائك لاشيء!"
	paymentFailedText  = "❌ حدث خطأ أثناء معالجة الدفع."
)

type ledgerRepository interface {
	ApplyPayment(ctx context.Context, key, userID string, amount int64, rankFor func(int64) string) (*domain.User, error)
}

type notifier interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

type PaymentService struct {
	repo     ledgerRepository
	notifier notifier
	ranks    rank.Table
}

func NewPaymentService(repo ledgerRepository, notifier notifier, ranks rank.Table) *PaymentService {
	return &PaymentService{
		repo:     repo,
		notifier: notifier,
		ranks:    ranks,
	}
}

// Process applies one payment-completion event exactly once.
//
// Sequence: validate, then claim the correlation key and fold the amount into
// the user's aggregate in a single storage transaction, then notify the buyer.
// A redelivered event surfaces as domain.ErrDuplicatePayment with no state
// change and no second notification; the caller should ack it as success.
// A validation failure claims nothing and writes nothing. A storage failure
// leaves the event unclaimed and retryable. Notification is advisory: its
// failure is logged and never undoes the ledger update.
func (s *PaymentService) Process(ctx context.Context, payment domain.Payment) (*domain.User, error) {
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.ApplyPayment(ctx, payment.CorrelationKey(), payment.UserID, payment.Amount, s.ranks.Resolve)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			return nil, err
		}

		s.notify(ctx, payment.UserID, paymentFailedText)
		return nil, err
	}

	logger.Log.Info("payment applied",
		logger.String("user_id", user.ID),
		logger.Int64("amount", payment.Amount),
		logger.Int64("total_spent", user.TotalSpent),
		logger.Int64("order_count", user.OrderCount),
		logger.String("rank", user.Rank),
	)

	s.notify(ctx, payment.UserID, paymentAppliedText)

	return user, nil
}

func (s *PaymentService) notify(ctx context.Context, userID, text string) {
	if err := s.notifier.SendMessage(ctx, userID, text); err != nil {
		logger.Log.Error("error notifying user", logger.String("user_id", userID), logger.Error(err))
	}
}
