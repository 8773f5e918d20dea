package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// User is the current-state aggregate for one buyer. It is not a transaction
// history: every applied payment folds into TotalSpent and OrderCount, and
// Rank is always derivable from TotalSpent.
type User struct {
	ID         string
	TotalSpent int64
	OrderCount int64
	Rank       string
}

// Payment is a payment-completion event. Amount is in the smallest currency
// unit and must be positive. ChargeID is the provider's transaction id when
// the provider supplied one; it may be empty.
type Payment struct {
	UserID   string
	Category string
	Amount   int64
	ChargeID string
}

func (p Payment) Validate() error {
	var userErr, categoryErr, amountErr error

	if strings.TrimSpace(p.UserID) == "" {
		userErr = fmt.Errorf("userId is required")
	}

	if strings.TrimSpace(p.Category) == "" {
		categoryErr = fmt.Errorf("category is required")
	}

	if p.Amount <= 0 {
		amountErr = fmt.Errorf("amount must be a positive integer")
	}

	if err := errors.Join(userErr, categoryErr, amountErr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayment, err)
	}

	return nil
}

// CorrelationKey is the dedup key for this payment. The provider's charge id
// is used when present. Without one the key falls back to a digest of the
// purchase fields, which cannot tell a redelivered event apart from a second
// genuine purchase of the same category and amount by the same user.
func (p Payment) CorrelationKey() string {
	if p.ChargeID != "" {
		return "charge:" + p.ChargeID
	}

	sum := sha256.Sum256([]byte(p.UserID + "|" + p.Category + "|" + strconv.FormatInt(p.Amount, 10)))

	return "payload:" + hex.EncodeToString(sum[:])
}
