package instructor

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Staff role constants. Any non-empty role is accepted; these are the ones the
// console offers by default.
const (
	RoleProfessor  = "Professor"
	RoleInstructor = "Instrutor"
	RoleMonitor    = "Monitor"
)

// Domain errors
var (
	ErrEmptyName            = errors.New("instructor name cannot be empty")
	ErrNameTooLong          = errors.New("instructor name cannot exceed 100 characters")
	ErrEmptyRole            = errors.New("instructor role cannot be empty")
	ErrInvalidEmail         = errors.New("instructor email must contain '@'")
	ErrNegativeCompensation = errors.New("compensation cannot be negative")
)

// Instructor is a member of the academy's technical staff.
type Instructor struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	Belt         string     `json:"belt,omitempty"`
	Compensation float64    `json:"compensation,omitempty"`
	Premium      bool       `json:"premium,omitempty"`
	AcademyLogo  *string    `json:"academyLogo,omitempty"`
	JoinedAt     *time.Time `json:"joinedAt,omitempty"`
}

// Validate checks if the Instructor has valid data.
// PRE: Instructor struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (i *Instructor) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if len(i.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(i.Role) == "" {
		return ErrEmptyRole
	}
	if i.Email != "" && !strings.Contains(i.Email, "@") {
		return ErrInvalidEmail
	}
	if i.Compensation < 0 {
		return ErrNegativeCompensation
	}
	return nil
}

// HasOwnLogo reports whether the instructor overrides the academy branding.
func (i *Instructor) HasOwnLogo() bool {
	return i.AcademyLogo != nil && *i.AcademyLogo != ""
}

// Clone returns a deep copy of the instructor.
func (i Instructor) Clone() Instructor {
	if i.AcademyLogo != nil {
		logo := *i.AcademyLogo
		i.AcademyLogo = &logo
	}
	if i.JoinedAt != nil {
		t := *i.JoinedAt
		i.JoinedAt = &t
	}
	return i
}

// Patch carries a partial update. Nil fields are left untouched.
// AcademyLogo set to an empty string clears the override.
type Patch struct {
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Role         *string    `json:"role,omitempty"`
	Belt         *string    `json:"belt,omitempty"`
	Compensation *float64   `json:"compensation,omitempty"`
	Premium      *bool      `json:"premium,omitempty"`
	AcademyLogo  *string    `json:"academyLogo,omitempty"`
	JoinedAt     *time.Time `json:"joinedAt,omitempty"`
}

// Apply merges the set fields of p into i. The ID is never changed.
func (p Patch) Apply(i *Instructor) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Email != nil {
		i.Email = *p.Email
	}
	if p.Phone != nil {
		i.Phone = *p.Phone
	}
	if p.Role != nil {
		i.Role = *p.Role
	}
	if p.Belt != nil {
		i.Belt = *p.Belt
	}
	if p.Compensation != nil {
		i.Compensation = *p.Compensation
	}
	if p.Premium != nil {
		i.Premium = *p.Premium
	}
	if p.AcademyLogo != nil {
		if *p.AcademyLogo == "" {
			i.AcademyLogo = nil
		} else {
			logo := *p.AcademyLogo
			i.AcademyLogo = &logo
		}
	}
	if p.JoinedAt != nil {
		t := *p.JoinedAt
		i.JoinedAt = &t
	}
}
