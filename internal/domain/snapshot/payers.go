package snapshot

import "dojohub/internal/domain/payment"

// Payer issue reasons
const (
	IssueAmbiguous = "ambiguous"
	IssueOrphan    = "orphan"
)

// PayerIssue describes a payment whose payer reference did not resolve cleanly.
type PayerIssue struct {
	PaymentID string
	PayerID   string
	Reason    string
}

// HasStudent reports whether a student with id exists.
func (s *Snapshot) HasStudent(id string) bool {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return true
		}
	}
	return false
}

// HasInstructor reports whether an instructor with id exists.
func (s *Snapshot) HasInstructor(id string) bool {
	for i := range s.Instructors {
		if s.Instructors[i].ID == id {
			return true
		}
	}
	return false
}

// PayerExists reports whether a payer of the given kind exists.
func (s *Snapshot) PayerExists(kind payment.PayerKind, id string) bool {
	switch kind {
	case payment.PayerStudent:
		return s.HasStudent(id)
	case payment.PayerInstructor:
		return s.HasInstructor(id)
	}
	return false
}

// PayerKindOf looks id up across both payer collections, students first.
// ambiguous is true when the id exists in both.
func (s *Snapshot) PayerKindOf(id string) (kind payment.PayerKind, found, ambiguous bool) {
	inStudents := s.HasStudent(id)
	inInstructors := s.HasInstructor(id)
	switch {
	case inStudents:
		return payment.PayerStudent, true, inInstructors
	case inInstructors:
		return payment.PayerInstructor, true, false
	}
	return "", false, false
}

// ResolvePayerKinds tags every untagged payment by looking its payer up, and
// reports payments that are ambiguous or point at no existing payer.
// Orphans are left as they are.
// POST: every payment whose payer exists carries a PayerKind
func (s *Snapshot) ResolvePayerKinds() []PayerIssue {
	var issues []PayerIssue
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.PayerKind != "" {
			if !s.PayerExists(p.PayerKind, p.PayerID) {
				issues = append(issues, PayerIssue{PaymentID: p.ID, PayerID: p.PayerID, Reason: IssueOrphan})
			}
			continue
		}
		kind, found, ambiguous := s.PayerKindOf(p.PayerID)
		if !found {
			issues = append(issues, PayerIssue{PaymentID: p.ID, PayerID: p.PayerID, Reason: IssueOrphan})
			continue
		}
		if ambiguous {
			issues = append(issues, PayerIssue{PaymentID: p.ID, PayerID: p.PayerID, Reason: IssueAmbiguous})
		}
		p.PayerKind = kind
	}
	return issues
}
