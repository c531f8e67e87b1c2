package identity

import "errors"

// Role constants. Staff identities carry the instructor's own role string
// (Professor, Instrutor, ...), so any other non-empty role is treated as staff.
const (
	RoleAdmin   = "Administrador"
	RoleStudent = "Aluno"
)

// AdminProfileID is the profile id of the built-in administrator.
const AdminProfileID = "admin"

// Area constants name the sections of the console an identity may open.
const (
	AreaDashboard   = "dashboard"
	AreaAssistant   = "assistant"
	AreaCommunity   = "community"
	AreaInstructors = "instructors"
	AreaTasks       = "tasks"
	AreaStudents    = "students"
	AreaStore       = "store"
	AreaFinance     = "finance"
)

// Domain errors
var (
	ErrEmptyRole    = errors.New("identity role is required")
	ErrEmptyProfile = errors.New("identity profile id is required")
)

// Identity is the resolved user of a session.
type Identity struct {
	Role        string  `json:"role"`
	ProfileID   string  `json:"profileId"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	AcademyLogo *string `json:"academyLogo,omitempty"`
}

// Access describes which roles may open an area.
type Access struct {
	Area         string
	Description  string
	AllowAdmin   bool
	AllowStaff   bool
	AllowStudent bool
}

// AccessRules returns the console areas and who may open them.
func AccessRules() []Access {
	return []Access{
		{Area: AreaDashboard, Description: "Painel central", AllowAdmin: true, AllowStaff: true},
		{Area: AreaAssistant, Description: "Consultor IA", AllowAdmin: true, AllowStaff: true},
		{Area: AreaCommunity, Description: "Mural do dojo", AllowAdmin: true, AllowStaff: true, AllowStudent: true},
		{Area: AreaInstructors, Description: "Time técnico", AllowAdmin: true},
		{Area: AreaTasks, Description: "Operações", AllowAdmin: true},
		{Area: AreaStudents, Description: "Guerreiros", AllowAdmin: true, AllowStaff: true},
		{Area: AreaStore, Description: "Arsenal", AllowAdmin: true, AllowStaff: true, AllowStudent: true},
		{Area: AreaFinance, Description: "Tesouraria", AllowAdmin: true},
	}
}

// Validate checks if the Identity has valid data.
// PRE: Identity struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (i *Identity) Validate() error {
	if i.Role == "" {
		return ErrEmptyRole
	}
	if i.ProfileID == "" {
		return ErrEmptyProfile
	}
	return nil
}

// IsAdmin returns true for the administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsStudent returns true for student identities.
func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

// IsStaff returns true for instructor identities of any staff role.
func (i Identity) IsStaff() bool {
	return i.Role != "" && !i.IsAdmin() && !i.IsStudent()
}

// Can reports whether the identity may open the given area.
// INVARIANT: i is not mutated
func (i Identity) Can(area string) bool {
	for _, a := range AccessRules() {
		if a.Area != area {
			continue
		}
		switch {
		case i.IsAdmin():
			return a.AllowAdmin
		case i.IsStudent():
			return a.AllowStudent
		case i.IsStaff():
			return a.AllowStaff
		}
		return false
	}
	return false
}

// DisplayLogo picks the logo to show: staff with their own branding see it,
// everyone else sees the academy logo.
func (i Identity) DisplayLogo(academyLogo *string) *string {
	if i.IsStaff() && i.AcademyLogo != nil && *i.AcademyLogo != "" {
		return i.AcademyLogo
	}
	return academyLogo
}
