package identity_test

import (
	"testing"

	"dojohub/internal/domain/identity"
)

// TestIdentityCan tests the area rules per role.
func TestIdentityCan(t *testing.T) {
	admin := identity.Identity{Role: identity.RoleAdmin, ProfileID: identity.AdminProfileID}
	staff := identity.Identity{Role: "Professor", ProfileID: "i1"}
	student := identity.Identity{Role: identity.RoleStudent, ProfileID: "s1"}
	nobody := identity.Identity{}

	tests := []struct {
		area                        string
		admin, staff, student, none bool
	}{
		{identity.AreaDashboard, true, true, false, false},
		{identity.AreaAssistant, true, true, false, false},
		{identity.AreaCommunity, true, true, true, false},
		{identity.AreaInstructors, true, false, false, false},
		{identity.AreaTasks, true, false, false, false},
		{identity.AreaStudents, true, true, false, false},
		{identity.AreaStore, true, true, true, false},
		{identity.AreaFinance, true, false, false, false},
		{"unknown", false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.area, func(t *testing.T) {
			if admin.Can(tt.area) != tt.admin || staff.Can(tt.area) != tt.staff ||
				student.Can(tt.area) != tt.student || nobody.Can(tt.area) != tt.none {
				t.Errorf("unexpected access for %s", tt.area)
			}
		})
	}
}

// TestIdentityRoles tests role classification.
func TestIdentityRoles(t *testing.T) {
	if !(identity.Identity{Role: "Monitor"}).IsStaff() {
		t.Error("any other role should be staff")
	}
	if (identity.Identity{}).IsStaff() {
		t.Error("empty role is not staff")
	}
	if (identity.Identity{Role: identity.RoleAdmin}).IsStaff() {
		t.Error("admin is not staff")
	}
}

// TestDisplayLogo tests that only staff see their own branding.
func TestDisplayLogo(t *testing.T) {
	academy := "academy.png"
	own := "own.png"
	empty := ""

	tests := []struct {
		name string
		id   identity.Identity
		want *string
	}{
		{"staff with logo", identity.Identity{Role: "Professor", AcademyLogo: &own}, &own},
		{"staff with empty logo", identity.Identity{Role: "Professor", AcademyLogo: &empty}, &academy},
		{"student ignores override", identity.Identity{Role: identity.RoleStudent, AcademyLogo: &own}, &academy},
		{"admin", identity.Identity{Role: identity.RoleAdmin}, &academy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.DisplayLogo(&academy); got != tt.want {
				t.Errorf("DisplayLogo() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

// TestIdentityValidation tests required identity fields.
func TestIdentityValidation(t *testing.T) {
	id := identity.Identity{Role: identity.RoleStudent}
	if err := id.Validate(); err != identity.ErrEmptyProfile {
		t.Errorf("Validate() = %v, want ErrEmptyProfile", err)
	}
	id = identity.Identity{ProfileID: "s1"}
	if err := id.Validate(); err != identity.ErrEmptyRole {
		t.Errorf("Validate() = %v, want ErrEmptyRole", err)
	}
}
