package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dojohub/internal/adapters/http/middleware"
	"dojohub/internal/adapters/http/perf"
	"dojohub/internal/application/console"
	"dojohub/internal/application/session"
)

// Options configures the HTTP surface.
type Options struct {
	// StaticDir is served at "/" when set.
	StaticDir      string
	CSRFKey        []byte
	TrustedOrigins []string
	Production     bool
	SlowRequestMs  int
	// AdminPassphraseHash is the bcrypt hash checked on admin login.
	// Empty leaves the administrator unprotected.
	AdminPassphraseHash []byte
}

var (
	ErrCSRFKeyFormat   = errors.New("CSRF key must be 64 hex characters (32 bytes)")
	ErrCSRFKeyRequired = errors.New("CSRF key is required in production")
)

// LoadCSRFKey decodes the hex CSRF secret. In production the key MUST be set;
// in development a random key is generated per startup.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, ErrCSRFKeyFormat
		}
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_random", "hint", "set DOJOHUB_CSRF_KEY so form tokens survive restarts")
	return key, nil
}

// newGate opens an unauthenticated gate in front of the console (set by NewMux).
// Handlers reach the console only through a gate.
var newGate func() *session.Gate

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Admin passphrase hash (set by NewMux)
var adminPassphraseHash []byte

// consoleOf returns the console the route's Require* middleware took from
// the session gate. Routes without such a guard must not call it.
func consoleOf(r *http.Request) *console.Console {
	c, ok := middleware.ConsoleFromContext(r.Context())
	if !ok {
		panic("web: console requested on an unguarded route " + r.URL.Path)
	}
	return c
}

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the console.
// PRE: c is hydrated; opts.CSRFKey is 32 bytes
func NewMux(opts Options, c *console.Console, collector *perf.Collector) http.Handler {
	newGate = func() *session.Gate { return session.NewGate(c) }
	perfCollector = collector
	adminPassphraseHash = opts.AdminPassphraseHash
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Production

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(opts.StaticDir)))
	}
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Outer to inner: Recover -> Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.TrustedOrigins, opts.Production),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequestMs),
		middleware.Recover,
	)
}
