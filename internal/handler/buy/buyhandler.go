package buyhandler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/youcefmohamedelamine/telegram-bot/pkg/dto"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

type invoiceService interface {
	CreateInvoice(ctx context.Context, userID, category string, amount int64) error
}

type BuyHandler struct {
	srv invoiceService
}

func New(srv invoiceService) *BuyHandler {
	return &BuyHandler{
		srv: srv,
	}
}

func (h *BuyHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var buy dto.Buy
	if err := json.NewDecoder(r.Body).Decode(&buy); err != nil {
		logger.Log.Warn("error while decoding a buy request")
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

	if err := buy.IsValid(); err != nil {
		logger.Log.Warn("invalid buy fields", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.srv.CreateInvoice(r.Context(), string(buy.UserID), buy.Category, buy.Amount); err != nil {
		logger.Log.Error("error while creating invoice", logger.String("user_id", string(buy.UserID)), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := dto.BuyResponse{
		Success: true,
		Message: "تم إرسال فاتورة الشراء",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("error while encoding buy response", logger.Error(err))
		return
	}
}
