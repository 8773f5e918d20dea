package dto

import "encoding/json"

// Update is the subset of a Telegram Bot API update the store reacts to.
// Anything else in the payload is ignored.
type Update struct {
	UpdateID         int64             `json:"update_id"`
	Message          *Message          `json:"message,omitempty"`
	PreCheckoutQuery *PreCheckoutQuery `json:"pre_checkout_query,omitempty"`
}

type Message struct {
	From              *TelegramUser      `json:"from,omitempty"`
	SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
}

type TelegramUser struct {
	ID int64 `json:"id"`
}

type PreCheckoutQuery struct {
	ID       string       `json:"id"`
	From     TelegramUser `json:"from"`
	Currency string       `json:"currency"`
	Total    int64        `json:"total_amount"`
}

type SuccessfulPayment struct {
	Currency                string `json:"currency"`
	TotalAmount             int64  `json:"total_amount"`
	InvoicePayload          string `json:"invoice_payload"`
	TelegramPaymentChargeID string `json:"telegram_payment_charge_id"`
}

// InvoicePayload is the purchase description embedded in the invoice at
// creation time and echoed back inside successful_payment.
type InvoicePayload struct {
	UserID   UserID `json:"userId"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

func (p InvoicePayload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
