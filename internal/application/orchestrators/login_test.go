package orchestrators

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"dojohub/internal/application/session"
	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/student"
)

// mockGate implements GateForLogin by running the authenticator against fixed people.
type mockGate struct {
	students    []student.Student
	instructors []instructor.Instructor
	logo        *string
	loggedIn    *identity.Identity
}

// Login implements GateForLogin.
func (m *mockGate) Login(ctx context.Context, auth session.Authenticator) (identity.Identity, error) {
	id, err := auth.Authenticate(ctx, m.students, m.instructors, m.logo)
	if err != nil {
		return identity.Identity{}, err
	}
	m.loggedIn = &id
	return id, nil
}

func newLoginGate() *mockGate {
	logo := "carla.png"
	academy := "academy.png"
	return &mockGate{
		students: []student.Student{
			{ID: "s1", Name: "Ana", Email: "ana@dojo.com"},
		},
		instructors: []instructor.Instructor{
			{ID: "i1", Name: "Carla", Email: "carla@dojo.com", Role: instructor.RoleProfessor, AcademyLogo: &logo},
		},
		logo: &academy,
	}
}

func mustHash(t *testing.T, passphrase string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

// TestExecuteLogin tests profile and passphrase resolution.
func TestExecuteLogin(t *testing.T) {
	hash := mustHash(t, "oss-123")
	tests := []struct {
		name        string
		input       LoginInput
		hash        []byte
		wantRole    string
		wantProfile string
		wantErr     error
	}{
		{"admin right passphrase", LoginInput{Profile: ProfileAdmin, Passphrase: "oss-123"}, hash, identity.RoleAdmin, "admin", nil},
		{"admin wrong passphrase", LoginInput{Profile: ProfileAdmin, Passphrase: "nope"}, hash, "", "", ErrInvalidCredentials},
		{"admin unprotected", LoginInput{Profile: ProfileAdmin}, nil, identity.RoleAdmin, "admin", nil},
		{"staff by id", LoginInput{Profile: ProfileStaff, Lookup: "i1"}, hash, instructor.RoleProfessor, "i1", nil},
		{"staff by email", LoginInput{Profile: ProfileStaff, Lookup: "CARLA@dojo.com"}, hash, instructor.RoleProfessor, "i1", nil},
		{"student by email", LoginInput{Profile: ProfileStudent, Lookup: " ana@dojo.com "}, hash, identity.RoleStudent, "s1", nil},
		{"student not found", LoginInput{Profile: ProfileStudent, Lookup: "i1"}, hash, "", "", ErrInvalidCredentials},
		{"empty lookup", LoginInput{Profile: ProfileStaff}, hash, "", "", ErrInvalidCredentials},
		{"unknown profile", LoginInput{Profile: "guest", Lookup: "s1"}, hash, "", "", ErrUnknownProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := newLoginGate()
			id, err := ExecuteLogin(context.Background(), tt.input, LoginDeps{Gate: gate, AdminPassphraseHash: tt.hash})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if gate.loggedIn != nil {
					t.Error("expected no identity after a failed login")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.Role != tt.wantRole || id.ProfileID != tt.wantProfile {
				t.Errorf("got role=%s profile=%s, want role=%s profile=%s", id.Role, id.ProfileID, tt.wantRole, tt.wantProfile)
			}
		})
	}
}

// TestExecuteLogin_StaffCarriesBranding verifies staff identities keep their logo.
func TestExecuteLogin_StaffCarriesBranding(t *testing.T) {
	gate := newLoginGate()
	id, err := ExecuteLogin(context.Background(), LoginInput{Profile: ProfileStaff, Lookup: "i1"}, LoginDeps{Gate: gate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.AcademyLogo == nil || *id.AcademyLogo != "carla.png" {
		t.Errorf("expected staff logo carla.png, got %v", id.AcademyLogo)
	}
}

// TestHashAdminPassphrase verifies the hash round-trips through bcrypt.
func TestHashAdminPassphrase(t *testing.T) {
	h, err := HashAdminPassphrase("faixa-preta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(h, []byte("faixa-preta")); err != nil {
		t.Errorf("expected hash to match: %v", err)
	}
}
