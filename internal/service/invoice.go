package service

import (
	"context"
	"fmt"

	"github.com/youcefmohamedelamine/telegram-bot/internal/telegram"
	"github.com/youcefmohamedelamine/telegram-bot/pkg/dto"
)

type invoiceSender interface {
	SendInvoice(ctx context.Context, invoice telegram.Invoice) error
}

type InvoiceService struct {
	sender        invoiceSender
	providerToken string
}

func NewInvoiceService(sender invoiceSender, providerToken string) *InvoiceService {
	return &InvoiceService{
		sender:        sender,
		providerToken: providerToken,
	}
}

// CreateInvoice sends a Stars invoice for one purchase to the buyer's chat.
// The purchase fields ride along in the invoice payload and come back inside
// the successful_payment confirmation.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID, category string, amount int64) error {
	payload, err := dto.InvoicePayload{
		UserID:   dto.UserID(userID),
		Category: category,
		Amount:   amount,
	}.Encode()
	if err != nil {
		return fmt.Errorf("error encoding invoice payload: %w", err)
	}

	invoice := telegram.Invoice{
		ChatID:         userID,
		Title:          fmt.Sprintf("شراء لاشيء %s", category),
		Description:    fmt.Sprintf("شراء لاشيء بحجم %s بقيمة %d ⭐", category, amount),
		Payload:        payload,
		ProviderToken:  s.providerToken,
		Currency:       "XTR",
		Prices:         []telegram.LabeledPrice{{Label: fmt.Sprintf("لاشيء %s", category), Amount: amount * 100}},
		StartParameter: "buy",
	}

	if err := s.sender.SendInvoice(ctx, invoice); err != nil {
		return fmt.Errorf("error sending invoice: %w", err)
	}

	return nil
}
