package buyhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/youcefmohamedelamine/telegram-bot/pkg/dto"
)

type invoiceCall struct {
	userID   string
	category string
	amount   int64
}

type fakeInvoiceService struct {
	err   error
	calls []invoiceCall
}

func (f *fakeInvoiceService) CreateInvoice(_ context.Context, userID, category string, amount int64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, invoiceCall{userID: userID, category: category, amount: amount})
	return nil
}

func postBuy(h *BuyHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/buy", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Buy(w, req)
	return w
}

func TestBuySendsInvoice(t *testing.T) {
	svc := &fakeInvoiceService{}
	h := New(svc)

	w := postBuy(h, `{"userId": "42", "category": "M", "amount": 100}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp dto.BuyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("success = false")
	}

	if len(svc.calls) != 1 {
		t.Fatalf("calls = %d", len(svc.calls))
	}
	if got, want := svc.calls[0], (invoiceCall{userID: "42", category: "M", amount: 100}); got != want {
		t.Errorf("call = %+v, want %+v", got, want)
	}
}

func TestBuyAcceptsNumericUserID(t *testing.T) {
	svc := &fakeInvoiceService{}
	h := New(svc)

	w := postBuy(h, `{"userId": 42, "category": "M", "amount": 100}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.calls[0].userID != "42" {
		t.Errorf("userID = %q", svc.calls[0].userID)
	}
}

func TestBuyRejectsIncompleteRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing userId", body: `{"category": "M", "amount": 100}`},
		{name: "missing category", body: `{"userId": "42", "amount": 100}`},
		{name: "zero amount", body: `{"userId": "42", "category": "M", "amount": 0}`},
		{name: "negative amount", body: `{"userId": "42", "category": "M", "amount": -5}`},
		{name: "broken json", body: `{"userId"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeInvoiceService{}
			h := New(svc)

			w := postBuy(h, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			if len(svc.calls) != 0 {
				t.Error("invalid request must not create an invoice")
			}
		})
	}
}

func TestBuyReportsBotAPIFailure(t *testing.T) {
	h := New(&fakeInvoiceService{err: errors.New("bot api unreachable")})

	w := postBuy(h, `{"userId": "42", "category": "M", "amount": 100}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}
