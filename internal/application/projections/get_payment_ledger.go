package projections

import (
	"context"
	"sort"
	"time"

	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/snapshot"
)

// GetPaymentLedgerQuery carries filters. Empty fields match everything.
type GetPaymentLedgerQuery struct {
	Status    string
	PayerKind payment.PayerKind
	PayerID   string
}

// GetPaymentLedgerDeps holds dependencies for the ledger projection.
type GetPaymentLedgerDeps struct {
	Source SnapshotSource
}

// LedgerEntry is a payment joined with its payer.
type LedgerEntry struct {
	ID          string            `json:"id"`
	PayerID     string            `json:"payerId"`
	PayerKind   payment.PayerKind `json:"payerKind"`
	PayerName   string            `json:"payerName"`
	Orphan      bool              `json:"orphan,omitempty"`
	Amount      float64           `json:"amount"`
	Status      string            `json:"status"`
	Method      string            `json:"method,omitempty"`
	Description string            `json:"description,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// GetPaymentLedgerResult carries the ledger and its totals.
type GetPaymentLedgerResult struct {
	Entries []LedgerEntry `json:"entries"`
	Total   float64       `json:"total"`
}

// QueryGetPaymentLedger lists payments newest first with the payer's name.
// PRE: none
// POST: Entries sorted by Timestamp descending; orphaned payments flagged
func QueryGetPaymentLedger(_ context.Context, query GetPaymentLedgerQuery, deps GetPaymentLedgerDeps) (GetPaymentLedgerResult, error) {
	s := deps.Source.Snapshot()
	names := payerNames(&s)

	result := GetPaymentLedgerResult{Entries: []LedgerEntry{}}
	for _, p := range s.Payments {
		status := p.Status
		if status == "" {
			status = payment.StatusPending
		}
		if query.Status != "" && status != query.Status {
			continue
		}
		if query.PayerID != "" && !p.BelongsTo(query.PayerKind, query.PayerID) {
			continue
		}
		if query.PayerID == "" && query.PayerKind != "" && p.PayerKind != query.PayerKind {
			continue
		}

		entry := LedgerEntry{
			ID:          p.ID,
			PayerID:     p.PayerID,
			PayerKind:   p.PayerKind,
			Amount:      p.Amount,
			Status:      status,
			Method:      p.Method,
			Description: p.Description,
			Timestamp:   p.Timestamp,
		}
		name, ok := names[payerKey{p.PayerKind, p.PayerID}]
		if !ok {
			entry.Orphan = true
		}
		entry.PayerName = name
		result.Entries = append(result.Entries, entry)
		result.Total += p.Amount
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].Timestamp.After(result.Entries[j].Timestamp)
	})
	return result, nil
}

type payerKey struct {
	kind payment.PayerKind
	id   string
}

func payerNames(s *snapshot.Snapshot) map[payerKey]string {
	names := make(map[payerKey]string, len(s.Students)+len(s.Instructors))
	for _, st := range s.Students {
		names[payerKey{payment.PayerStudent, st.ID}] = st.Name
	}
	for _, in := range s.Instructors {
		names[payerKey{payment.PayerInstructor, in.ID}] = in.Name
	}
	return names
}
