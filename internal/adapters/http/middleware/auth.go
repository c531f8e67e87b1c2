package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"dojohub/internal/application/console"
	"dojohub/internal/application/session"
	"dojohub/internal/domain/identity"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	gateContextKey    contextKey = "gate"
	consoleContextKey contextKey = "console"
)

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

// SecureCookies marks the session cookie Secure. Set in production.
var SecureCookies bool

type sessionEntry struct {
	gate      *session.Gate
	createdAt time.Time
}

// SessionStore maps cookie tokens to authenticated gates. Every browser
// session gets its own gate; all gates share one console.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Create stores an authenticated gate and returns its token.
// PRE: gate is authenticated
// POST: Gate is stored, token is returned
func (ss *SessionStore) Create(gate *session.Gate) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = sessionEntry{gate: gate, createdAt: ss.now()}
	return token, nil
}

// Get retrieves a gate by token.
// POST: Returns the gate if present, unexpired and still authenticated
func (ss *SessionStore) Get(token string) (*session.Gate, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	entry, ok := ss.sessions[token]
	if !ok {
		return nil, false
	}
	if ss.now().Sub(entry.createdAt) > SessionTTL || !entry.gate.Authenticated() {
		delete(ss.sessions, token)
		return nil, false
	}
	return entry.gate, true
}

// Delete logs the gate out and forgets the token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	entry, ok := ss.sessions[token]
	delete(ss.sessions, token)
	ss.mu.Unlock()
	if ok {
		entry.gate.Logout()
	}
}

// Len returns the number of stored sessions, expired ones included.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "dojohub_session"

// Auth returns middleware that resolves the session cookie to a gate and puts
// it in the request context. It does NOT block unauthenticated requests.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if gate, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithGate(r.Context(), gate))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireArea returns middleware that only lets identities allowed into area through.
// Unauthenticated requests get 401, authenticated ones without access get 403.
func RequireArea(area string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gate, ok := GetGateFromContext(r.Context())
			if !ok {
				writeAuthError(w, session.ErrUnauthenticated)
				return
			}
			c, err := gate.ConsoleFor(area)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithConsole(r.Context(), c)))
		})
	}
}

// RequireAdmin only lets the administrator through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentityFromContext(r.Context())
		if !ok {
			writeAuthError(w, session.ErrUnauthenticated)
			return
		}
		if !id.IsAdmin() {
			writeAuthError(w, session.ErrForbidden)
			return
		}
		gate, _ := GetGateFromContext(r.Context())
		c, err := gate.Console()
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithConsole(r.Context(), c)))
	})
}

// RequireAuth blocks requests without an authenticated gate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gate, ok := GetGateFromContext(r.Context())
		if !ok {
			writeAuthError(w, session.ErrUnauthenticated)
			return
		}
		c, err := gate.Console()
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithConsole(r.Context(), c)))
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	if errors.Is(err, session.ErrForbidden) {
		status = http.StatusForbidden
	}
	writeJSONError(w, status, err.Error())
}

// GetGateFromContext extracts the authenticated gate from the request context.
func GetGateFromContext(ctx context.Context) (*session.Gate, bool) {
	gate, ok := ctx.Value(gateContextKey).(*session.Gate)
	return gate, ok && gate != nil
}

// GetIdentityFromContext returns the identity of the authenticated gate, if any.
func GetIdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	gate, ok := GetGateFromContext(ctx)
	if !ok {
		return identity.Identity{}, false
	}
	return gate.Identity()
}

// ConsoleFromContext returns the console a Require* middleware obtained
// from the request's gate.
func ConsoleFromContext(ctx context.Context) (*console.Console, bool) {
	c, ok := ctx.Value(consoleContextKey).(*console.Console)
	return c, ok && c != nil
}

func contextWithConsole(ctx context.Context, c *console.Console) context.Context {
	return context.WithValue(ctx, consoleContextKey, c)
}

// ContextWithGate returns a context carrying gate.
func ContextWithGate(ctx context.Context, gate *session.Gate) context.Context {
	return context.WithValue(ctx, gateContextKey, gate)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
