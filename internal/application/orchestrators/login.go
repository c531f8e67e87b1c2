package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"dojohub/internal/application/session"
	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/student"
)

// Login profile kinds
const (
	ProfileAdmin   = "admin"
	ProfileStaff   = "staff"
	ProfileStudent = "student"
)

// GateForLogin defines the gate interface needed by Login.
type GateForLogin interface {
	Login(ctx context.Context, auth session.Authenticator) (identity.Identity, error)
}

// LoginInput carries input for the login orchestrator.
// Staff and students pick their profile by id or email; the administrator
// proves the passphrase.
type LoginInput struct {
	Profile    string
	Lookup     string
	Passphrase string
}

// LoginDeps holds dependencies for Login.
// An empty AdminPassphraseHash leaves the administrator unprotected.
type LoginDeps struct {
	Gate                GateForLogin
	AdminPassphraseHash []byte
}

var (
	ErrInvalidCredentials = errors.New("invalid profile or passphrase")
	ErrUnknownProfile     = errors.New("profile must be 'admin', 'staff' or 'student'")
)

// HashAdminPassphrase returns the bcrypt hash stored for the administrator.
// PRE: passphrase is non-empty
func HashAdminPassphrase(passphrase string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
}

// ExecuteLogin resolves an identity and opens the session on the gate.
// PRE: deps.Gate is non-nil
// POST: on success the gate is authenticated with the returned identity
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (identity.Identity, error) {
	auth := profileAuthenticator{input: input, adminHash: deps.AdminPassphraseHash}
	return deps.Gate.Login(ctx, auth)
}

// profileAuthenticator implements session.Authenticator.
type profileAuthenticator struct {
	input     LoginInput
	adminHash []byte
}

// Authenticate implements session.Authenticator.
func (a profileAuthenticator) Authenticate(_ context.Context, students []student.Student, instructors []instructor.Instructor, academyLogo *string) (identity.Identity, error) {
	switch a.input.Profile {
	case ProfileAdmin:
		return a.admin(academyLogo)
	case ProfileStaff:
		for _, in := range instructors {
			if matchesProfile(a.input.Lookup, in.ID, in.Email) {
				slog.Info("auth_event", "event", "login_success", "profile", ProfileStaff, "profile_id", in.ID)
				return identity.Identity{
					Role:        in.Role,
					ProfileID:   in.ID,
					Name:        in.Name,
					Email:       in.Email,
					AcademyLogo: in.AcademyLogo,
				}, nil
			}
		}
	case ProfileStudent:
		for _, s := range students {
			if matchesProfile(a.input.Lookup, s.ID, s.Email) {
				slog.Info("auth_event", "event", "login_success", "profile", ProfileStudent, "profile_id", s.ID)
				return identity.Identity{
					Role:      identity.RoleStudent,
					ProfileID: s.ID,
					Name:      s.Name,
					Email:     s.Email,
				}, nil
			}
		}
	default:
		return identity.Identity{}, ErrUnknownProfile
	}
	slog.Info("auth_event", "event", "login_failed", "profile", a.input.Profile, "lookup", a.input.Lookup, "reason", "not_found")
	return identity.Identity{}, ErrInvalidCredentials
}

func (a profileAuthenticator) admin(academyLogo *string) (identity.Identity, error) {
	if len(a.adminHash) == 0 {
		slog.Warn("auth_event", "event", "login_unprotected", "profile", ProfileAdmin)
	} else if err := bcrypt.CompareHashAndPassword(a.adminHash, []byte(a.input.Passphrase)); err != nil {
		slog.Info("auth_event", "event", "login_failed", "profile", ProfileAdmin, "reason", "wrong_passphrase")
		return identity.Identity{}, ErrInvalidCredentials
	}
	slog.Info("auth_event", "event", "login_success", "profile", ProfileAdmin)
	return identity.Identity{
		Role:        identity.RoleAdmin,
		ProfileID:   identity.AdminProfileID,
		Name:        "Sensei",
		AcademyLogo: academyLogo,
	}, nil
}

// matchesProfile matches lookup against a profile id exactly or an email
// case-insensitively.
func matchesProfile(lookup, id, email string) bool {
	lookup = strings.TrimSpace(lookup)
	if lookup == "" {
		return false
	}
	return lookup == id || (email != "" && strings.EqualFold(lookup, email))
}
