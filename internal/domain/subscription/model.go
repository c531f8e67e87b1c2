package subscription

import (
	"errors"
	"strings"
	"time"
)

// Default plan values, used on first run and when a stored record has no subscription.
const (
	DefaultPlan         = "Dojo Hub Premium"
	DefaultStudentLimit = 150
	DefaultPrice        = 0
)

// Domain errors
var (
	ErrEmptyPlan           = errors.New("subscription plan cannot be empty")
	ErrInvalidLimit        = errors.New("student limit must be positive")
	ErrNegativePrice       = errors.New("subscription price cannot be negative")
	ErrStudentLimitReached = errors.New("student limit reached for the current plan")
)

// Subscription is the academy's plan. Exactly one exists at all times.
type Subscription struct {
	Plan         string    `json:"plan"`
	StartDate    time.Time `json:"startDate"`
	StudentLimit int       `json:"studentLimit"`
	Price        float64   `json:"price"`
}

// Default returns the plan every new academy starts on.
func Default(now time.Time) Subscription {
	return Subscription{
		Plan:         DefaultPlan,
		StartDate:    now,
		StudentLimit: DefaultStudentLimit,
		Price:        DefaultPrice,
	}
}

// Validate checks if the Subscription has valid data.
// PRE: Subscription struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Subscription) Validate() error {
	if strings.TrimSpace(s.Plan) == "" {
		return ErrEmptyPlan
	}
	if s.StudentLimit <= 0 {
		return ErrInvalidLimit
	}
	if s.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Remaining returns how many more students fit the plan, never below zero.
func (s *Subscription) Remaining(enrolled int) int {
	if n := s.StudentLimit - enrolled; n > 0 {
		return n
	}
	return 0
}

// Admits reports whether one more student can be enrolled.
func (s *Subscription) Admits(enrolled int) bool {
	return s.Remaining(enrolled) > 0
}
