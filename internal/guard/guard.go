// Package guard gates protected screens and commands on session state.
package guard

import (
	"errors"
	"sync"
)

// State is the guard's view of the session.
type State int

const (
	Loading State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "LOADING"
	case Authenticated:
		return "AUTHENTICATED"
	case Unauthenticated:
		return "UNAUTHENTICATED"
	}
	return "UNKNOWN"
}

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// ErrUnauthenticated is returned for protected commands run while signed
// out.
var ErrUnauthenticated = errors.New("not logged in (run `duskwallet login`)")

// SessionView is what the guard needs from the session store.
type SessionView interface {
	Loading() bool
	IsAuthenticated() bool
}

// Decision is what to do with the requested location.
type Decision struct {
	State State
	// Redirect is set when the user must be sent elsewhere.
	Redirect string
	// From is the location originally requested, for returning after
	// login.
	From string
}

// Allowed reports whether the requested content may be shown.
func (d Decision) Allowed() bool {
	return d.State == Authenticated
}

// Err returns ErrUnauthenticated when access is denied, else nil.
func (d Decision) Err() error {
	if d.State == Unauthenticated {
		return ErrUnauthenticated
	}
	return nil
}

// Guard protects one requested location. It leaves Loading exactly once
// and keeps that outcome for its lifetime.
type Guard struct {
	requested string

	mu      sync.Mutex
	settled bool
	state   State
}

// New returns a guard for requested.
func New(requested string) *Guard {
	return &Guard{requested: requested, state: Loading}
}

// Requested is the protected location.
func (g *Guard) Requested() string {
	return g.requested
}

// Resolve reports Loading while the session is hydrating. The first call
// after hydration fixes the outcome.
func (g *Guard) Resolve(sess SessionView) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.settled {
		if sess.Loading() {
			return Decision{State: Loading}
		}
		g.settled = true
		if sess.IsAuthenticated() {
			g.state = Authenticated
		} else {
			g.state = Unauthenticated
		}
	}
	return g.decision()
}

func (g *Guard) decision() Decision {
	if g.state == Unauthenticated {
		return Decision{State: Unauthenticated, Redirect: LoginPath, From: g.requested}
	}
	return Decision{State: g.state}
}

// Check resolves a fresh guard once, for one-shot callers like CLI
// commands.
func Check(requested string, sess SessionView) Decision {
	return New(requested).Resolve(sess)
}
