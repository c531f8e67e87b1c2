// Package session gates access to the console behind a logged-in identity.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dojohub/internal/application/console"
	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/student"
)

// Gate errors
var (
	ErrUnauthenticated = errors.New("no identity is logged in")
	ErrForbidden       = errors.New("identity may not open this area")
)

// Authenticator resolves an identity from the current people of the academy.
// It returns an error when no identity could be resolved.
type Authenticator interface {
	Authenticate(ctx context.Context, students []student.Student, instructors []instructor.Instructor, academyLogo *string) (identity.Identity, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, students []student.Student, instructors []instructor.Instructor, academyLogo *string) (identity.Identity, error)

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, students []student.Student, instructors []instructor.Instructor, academyLogo *string) (identity.Identity, error) {
	return f(ctx, students, instructors, academyLogo)
}

// Gate is either unauthenticated or holds one identity. The console is only
// reachable through an authenticated gate.
type Gate struct {
	mu       sync.RWMutex
	console  *console.Console
	identity *identity.Identity
}

// NewGate creates an unauthenticated gate in front of c.
func NewGate(c *console.Console) *Gate {
	return &Gate{console: c}
}

// Login asks auth to resolve an identity and, on success, authenticates the gate.
// PRE: auth is non-nil
// POST: on success the gate holds the identity; on failure its state is unchanged
func (g *Gate) Login(ctx context.Context, auth Authenticator) (identity.Identity, error) {
	id, err := auth.Authenticate(ctx, g.console.Students(), g.console.Instructors(), g.console.Settings().AcademyLogo)
	if err != nil {
		return identity.Identity{}, err
	}
	if err := id.Validate(); err != nil {
		return identity.Identity{}, err
	}

	g.mu.Lock()
	g.identity = &id
	g.mu.Unlock()

	slog.Info("session_opened", "role", id.Role, "profile_id", id.ProfileID)
	return id, nil
}

// Logout discards the identity. The console state is not touched.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.identity != nil {
		slog.Info("session_closed", "role", g.identity.Role, "profile_id", g.identity.ProfileID)
	}
	g.identity = nil
}

// Identity returns the logged-in identity, if any.
func (g *Gate) Identity() (identity.Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.identity == nil {
		return identity.Identity{}, false
	}
	return *g.identity, true
}

// Authenticated reports whether an identity is logged in.
func (g *Gate) Authenticated() bool {
	_, ok := g.Identity()
	return ok
}

// Console returns the console, or ErrUnauthenticated.
func (g *Gate) Console() (*console.Console, error) {
	if !g.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return g.console, nil
}

// ConsoleFor returns the console if the identity may open area.
// POST: ErrUnauthenticated without an identity, ErrForbidden without access
func (g *Gate) ConsoleFor(area string) (*console.Console, error) {
	id, ok := g.Identity()
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !id.Can(area) {
		return nil, ErrForbidden
	}
	return g.console, nil
}

// DisplayLogo returns the logo to show for the current identity. Staff with
// their own branding see it; everyone else sees the academy logo.
func (g *Gate) DisplayLogo() *string {
	academyLogo := g.console.Settings().AcademyLogo
	id, ok := g.Identity()
	if !ok {
		return academyLogo
	}
	if id.IsStaff() {
		// Branding can change after login, so read the live profile.
		if in, err := g.console.Instructor(id.ProfileID); err == nil {
			id.AcademyLogo = in.AcademyLogo
		}
	}
	return id.DisplayLogo(academyLogo)
}
