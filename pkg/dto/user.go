package dto

import (
	"errors"
	"fmt"
)

/**
  {
      "totalSpent": 10000,
      "orderCount": 2,
      "rank": "مبتدئ اللاشيء 🎯"
  }
*/

type UserStats struct {
	TotalSpent int64  `json:"totalSpent"`
	OrderCount int64  `json:"orderCount"`
	Rank       string `json:"rank"`
}

type UpdateStats struct {
	TotalSpent *int64 `json:"totalSpent"`
	OrderCount *int64 `json:"orderCount"`
}

func (u UpdateStats) IsValid() error {
	var spentErr, countErr error

	if u.TotalSpent == nil || *u.TotalSpent < 0 {
		spentErr = fmt.Errorf("totalSpent must be a non-negative integer")
	}

	if u.OrderCount == nil || *u.OrderCount < 0 {
		countErr = fmt.Errorf("orderCount must be a non-negative integer")
	}

	return errors.Join(spentErr, countErr)
}

type UpdateResponse struct {
	Success bool      `json:"success"`
	User    UserStats `json:"user"`
}
