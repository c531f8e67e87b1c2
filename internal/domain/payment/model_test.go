package payment_test

import (
	"errors"
	"testing"

	"dojohub/internal/domain/payment"
)

// TestPaymentValidation tests validation of Payment.
func TestPaymentValidation(t *testing.T) {
	tests := []struct {
		name    string
		payment payment.Payment
		wantErr error
	}{
		{"valid", payment.Payment{PayerID: "s1", PayerKind: payment.PayerStudent, Amount: 180, Status: payment.StatusPaid}, nil},
		{"legacy untagged", payment.Payment{PayerID: "s1", Amount: 0}, nil},
		{"no payer", payment.Payment{Amount: 10}, payment.ErrEmptyPayer},
		{"bad kind", payment.Payment{PayerID: "s1", PayerKind: "guest"}, payment.ErrInvalidPayerKind},
		{"negative amount", payment.Payment{PayerID: "s1", Amount: -1}, payment.ErrNegativeAmount},
		{"bad status", payment.Payment{PayerID: "s1", Status: "refunded"}, payment.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.payment.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPaymentBelongsTo tests payer matching with and without a kind tag.
func TestPaymentBelongsTo(t *testing.T) {
	tagged := payment.Payment{PayerID: "x1", PayerKind: payment.PayerInstructor}
	untagged := payment.Payment{PayerID: "x1"}

	if !tagged.BelongsTo(payment.PayerInstructor, "x1") {
		t.Error("tagged payment should match its own kind")
	}
	if tagged.BelongsTo(payment.PayerStudent, "x1") {
		t.Error("tagged payment should not match a student with the same id")
	}
	if !untagged.BelongsTo(payment.PayerStudent, "x1") || !untagged.BelongsTo(payment.PayerInstructor, "x1") {
		t.Error("untagged payment should match on id alone")
	}
	if tagged.BelongsTo(payment.PayerInstructor, "x2") {
		t.Error("different id should not match")
	}
}

// TestPatchApply_ClearsKindOnNewPayer tests that re-pointing a payment drops the old tag.
func TestPatchApply_ClearsKindOnNewPayer(t *testing.T) {
	p := payment.Payment{PayerID: "s1", PayerKind: payment.PayerStudent, Amount: 10}
	newPayer := "i1"
	patch := payment.Patch{PayerID: &newPayer}
	if !patch.ChangesPayer() {
		t.Fatal("expected ChangesPayer")
	}
	patch.Apply(&p)
	if p.PayerID != "i1" || p.PayerKind != "" {
		t.Errorf("unexpected payment after patch: %+v", p)
	}

	status := payment.StatusPaid
	if (payment.Patch{Status: &status}).ChangesPayer() {
		t.Error("a status patch should not change the payer")
	}
}

// TestPaymentStatusHelpers tests IsPaid and IsPending.
func TestPaymentStatusHelpers(t *testing.T) {
	if p := (payment.Payment{}); !p.IsPending() || p.IsPaid() {
		t.Error("empty status should read as pending")
	}
	if p := (payment.Payment{Status: payment.StatusPaid}); !p.IsPaid() || p.IsPending() {
		t.Error("paid payment misread")
	}
}
