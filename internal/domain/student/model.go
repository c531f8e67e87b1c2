package student

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxNotesLength = 2000
	MaxStripes     = 4
)

// Status constants. An empty status on a stored record reads as active.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Belt constants, in progression order (kids belts sit between white and blue).
const (
	BeltWhite  = "Branca"
	BeltGrey   = "Cinza"
	BeltYellow = "Amarela"
	BeltOrange = "Laranja"
	BeltGreen  = "Verde"
	BeltBlue   = "Azul"
	BeltPurple = "Roxa"
	BeltBrown  = "Marrom"
	BeltBlack  = "Preta"
)

// Belts lists every valid belt value.
var Belts = []string{BeltWhite, BeltGrey, BeltYellow, BeltOrange, BeltGreen, BeltBlue, BeltPurple, BeltBrown, BeltBlack}

// Domain errors
var (
	ErrEmptyName     = errors.New("student name cannot be empty")
	ErrNameTooLong   = errors.New("student name cannot exceed 100 characters")
	ErrNotesTooLong  = errors.New("student notes cannot exceed 2000 characters")
	ErrInvalidEmail  = errors.New("student email must contain '@'")
	ErrInvalidBelt   = errors.New("belt must be one of: Branca, Cinza, Amarela, Laranja, Verde, Azul, Roxa, Marrom, Preta")
	ErrInvalidStripe = errors.New("stripes must be between 0 and 4")
	ErrInvalidStatus = errors.New("status must be 'active' or 'inactive'")
	ErrNegativeFee   = errors.New("monthly fee cannot be negative")
)

// Student is an enrolled practitioner of the academy.
type Student struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	BirthDate      string     `json:"birthDate,omitempty"`
	Belt           string     `json:"belt,omitempty"`
	Stripes        int        `json:"stripes,omitempty"`
	Status         string     `json:"status,omitempty"`
	EnrolledAt     *time.Time `json:"enrolledAt,omitempty"`
	MonthlyFee     float64    `json:"monthlyFee,omitempty"`
	LastGraduation *time.Time `json:"lastGraduation,omitempty"`
	Photo          string     `json:"photo,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty; optional fields are only checked when set
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(s.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if s.Belt != "" && !IsValidBelt(s.Belt) {
		return ErrInvalidBelt
	}
	if s.Stripes < 0 || s.Stripes > MaxStripes {
		return ErrInvalidStripe
	}
	if s.Status != "" && s.Status != StatusActive && s.Status != StatusInactive {
		return ErrInvalidStatus
	}
	if s.MonthlyFee < 0 {
		return ErrNegativeFee
	}
	return nil
}

// IsActive returns true unless the student has been explicitly deactivated.
// INVARIANT: Status field is not mutated
func (s *Student) IsActive() bool {
	return s.Status == "" || s.Status == StatusActive
}

// Promote moves the student to a new belt, clearing stripes.
// PRE: belt is a valid belt value
// POST: Belt set, Stripes reset, LastGraduation set to at
func (s *Student) Promote(belt string, at time.Time) error {
	if !IsValidBelt(belt) {
		return ErrInvalidBelt
	}
	s.Belt = belt
	s.Stripes = 0
	s.LastGraduation = &at
	return nil
}

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	if s.EnrolledAt != nil {
		t := *s.EnrolledAt
		s.EnrolledAt = &t
	}
	if s.LastGraduation != nil {
		t := *s.LastGraduation
		s.LastGraduation = &t
	}
	return s
}

// IsValidBelt reports whether belt is one of Belts.
func IsValidBelt(belt string) bool {
	for _, b := range Belts {
		if b == belt {
			return true
		}
	}
	return false
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name           *string    `json:"name,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	BirthDate      *string    `json:"birthDate,omitempty"`
	Belt           *string    `json:"belt,omitempty"`
	Stripes        *int       `json:"stripes,omitempty"`
	Status         *string    `json:"status,omitempty"`
	EnrolledAt     *time.Time `json:"enrolledAt,omitempty"`
	MonthlyFee     *float64   `json:"monthlyFee,omitempty"`
	LastGraduation *time.Time `json:"lastGraduation,omitempty"`
	Photo          *string    `json:"photo,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// Apply merges the set fields of p into s. The ID is never changed.
func (p Patch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.BirthDate != nil {
		s.BirthDate = *p.BirthDate
	}
	if p.Belt != nil {
		s.Belt = *p.Belt
	}
	if p.Stripes != nil {
		s.Stripes = *p.Stripes
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.EnrolledAt != nil {
		t := *p.EnrolledAt
		s.EnrolledAt = &t
	}
	if p.MonthlyFee != nil {
		s.MonthlyFee = *p.MonthlyFee
	}
	if p.LastGraduation != nil {
		t := *p.LastGraduation
		s.LastGraduation = &t
	}
	if p.Photo != nil {
		s.Photo = *p.Photo
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
}
