package paymenthandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/youcefmohamedelamine/telegram-bot/internal/domain"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/dto"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

type paymentService interface {
	Process(ctx context.Context, payment domain.Payment) (*domain.User, error)
}

type checkoutAnswerer interface {
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool) error
}

type PaymentHandler struct {
	srv paymentService
	bot checkoutAnswerer
}

func New(srv paymentService, bot checkoutAnswerer) *PaymentHandler {
	return &PaymentHandler{
		srv: srv,
		bot: bot,
	}
}

// Webhook receives Bot API updates. Telegram delivers at least once and
// redelivers anything not acked with a 2xx, so the response code is the retry
// contract: 200 acks (including duplicates, whose effect is already durable),
// 4xx drops malformed updates, 5xx asks for redelivery.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update dto.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Log.Warn("error decoding webhook update", logger.Error(err))
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

	switch {
	case update.PreCheckoutQuery != nil:
		h.answerPreCheckout(w, r, update.PreCheckoutQuery)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		h.applyPayment(w, r, update.Message.SuccessfulPayment)
	default:
		// not an update this service reacts to
		w.WriteHeader(http.StatusOK)
	}
}

func (h *PaymentHandler) answerPreCheckout(w http.ResponseWriter, r *http.Request, query *dto.PreCheckoutQuery) {
	if err := h.bot.AnswerPreCheckoutQuery(r.Context(), query.ID, true); err != nil {
		logger.Log.Error("error answering pre-checkout query", logger.String("query_id", query.ID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *PaymentHandler) applyPayment(w http.ResponseWriter, r *http.Request, confirmed *dto.SuccessfulPayment) {
	var payload dto.InvoicePayload
	if err := json.Unmarshal([]byte(confirmed.InvoicePayload), &payload); err != nil {
		logger.Log.Warn("error decoding invoice payload", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	payment := domain.Payment{
		UserID:   string(payload.UserID),
		Category: payload.Category,
		Amount:   payload.Amount,
		ChargeID: confirmed.TelegramPaymentChargeID,
	}

	_, err := h.srv.Process(r.Context(), payment)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			// already applied, ack so the provider stops redelivering
			w.WriteHeader(http.StatusOK)
			return
		}
		if errors.Is(err, domain.ErrInvalidPayment) {
			logger.Log.Warn("invalid payment event", logger.String("user_id", payment.UserID), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		logger.Log.Error("error processing payment", logger.String("user_id", payment.UserID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
