package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

/**
  {
      "userId": "123456789",
      "category": "M",
      "amount": 100
  }
*/

// UserID tolerates both string and numeric encodings: browser clients send the
// Telegram chat id as a number, the invoice payload round-trips it as a string.
type UserID string

func (u *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("userId must be a string or number")
	}
	*u = UserID(n.String())

	return nil
}

type Buy struct {
	UserID   UserID `json:"userId"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

func (b Buy) IsValid() error {
	var userErr, categoryErr, amountErr error

	if strings.TrimSpace(string(b.UserID)) == "" {
		userErr = fmt.Errorf("userId is required")
	}

	if strings.TrimSpace(b.Category) == "" {
		categoryErr = fmt.Errorf("category is required")
	}

	if b.Amount <= 0 {
		amountErr = fmt.Errorf("amount must be a positive integer")
	}

	return errors.Join(userErr, categoryErr, amountErr)
}

type BuyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
