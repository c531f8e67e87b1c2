package payment

import (
	"errors"
	"strings"
	"time"
)

// PayerKind tags which collection a payment's payer lives in.
type PayerKind string

// Payer kinds
const (
	PayerStudent    PayerKind = "student"
	PayerInstructor PayerKind = "instructor"
)

// Status constants
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Method constants
const (
	MethodPix  = "pix"
	MethodCash = "cash"
	MethodCard = "card"
)

// ValidStatuses contains all valid payment statuses.
var ValidStatuses = []string{StatusPending, StatusPaid, StatusOverdue}

// Domain errors
var (
	ErrEmptyPayer       = errors.New("payment payer is required")
	ErrInvalidPayerKind = errors.New("payer kind must be 'student' or 'instructor'")
	ErrNegativeAmount   = errors.New("payment amount cannot be negative")
	ErrInvalidStatus    = errors.New("payment status must be one of: pending, paid, overdue")
)

// Payment is a charge owed or settled by a student or an instructor.
// PayerKind may be empty only on records written before the tag existed;
// it is resolved on load.
type Payment struct {
	ID          string    `json:"id"`
	PayerID     string    `json:"payerId"`
	PayerKind   PayerKind `json:"payerKind,omitempty"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description,omitempty"`
	Method      string    `json:"method,omitempty"`
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: PayerID must be non-empty and Amount must be >= 0
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.PayerID) == "" {
		return ErrEmptyPayer
	}
	if p.PayerKind != "" && !p.PayerKind.Valid() {
		return ErrInvalidPayerKind
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if p.Status != "" && !isValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Valid reports whether k is a known payer kind.
func (k PayerKind) Valid() bool {
	return k == PayerStudent || k == PayerInstructor
}

// IsPaid returns true if the payment has been settled.
// INVARIANT: Status field is not mutated
func (p *Payment) IsPaid() bool {
	return p.Status == StatusPaid
}

// IsPending returns true for unsettled payments. An empty status reads as pending.
func (p *Payment) IsPending() bool {
	return p.Status == "" || p.Status == StatusPending
}

// BelongsTo reports whether the payment is owed by the given payer.
// An untagged payment matches on id alone.
func (p *Payment) BelongsTo(kind PayerKind, id string) bool {
	if p.PayerID != id {
		return false
	}
	return p.PayerKind == "" || p.PayerKind == kind
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	PayerID     *string    `json:"payerId,omitempty"`
	PayerKind   *PayerKind `json:"payerKind,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Description *string    `json:"description,omitempty"`
	Method      *string    `json:"method,omitempty"`
}

// ChangesPayer reports whether applying p would re-point the payment.
func (p Patch) ChangesPayer() bool {
	return p.PayerID != nil || p.PayerKind != nil
}

// Apply merges the set fields of p into pay. The ID is never changed.
func (p Patch) Apply(pay *Payment) {
	if p.PayerID != nil {
		pay.PayerID = *p.PayerID
		// A new payer without an explicit kind is re-resolved by the caller.
		if p.PayerKind == nil {
			pay.PayerKind = ""
		}
	}
	if p.PayerKind != nil {
		pay.PayerKind = *p.PayerKind
	}
	if p.Amount != nil {
		pay.Amount = *p.Amount
	}
	if p.Status != nil {
		pay.Status = *p.Status
	}
	if p.Timestamp != nil {
		pay.Timestamp = *p.Timestamp
	}
	if p.Description != nil {
		pay.Description = *p.Description
	}
	if p.Method != nil {
		pay.Method = *p.Method
	}
}

func isValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
