package guard

import (
	"errors"
	"testing"
)

type fakeSession struct {
	loading bool
	authed  bool
}

func (f *fakeSession) Loading() bool         { return f.loading }
func (f *fakeSession) IsAuthenticated() bool { return f.authed }

func TestResolve_LoadingThenAuthenticated(t *testing.T) {
	sess := &fakeSession{loading: true}
	g := New("/dashboard")

	if d := g.Resolve(sess); d.State != Loading || d.Redirect != "" {
		t.Fatalf("while loading: %+v, want Loading without redirect", d)
	}

	sess.loading = false
	sess.authed = true
	d := g.Resolve(sess)
	if d.State != Authenticated || !d.Allowed() || d.Err() != nil {
		t.Errorf("after hydrate: %+v, want Authenticated", d)
	}
}

func TestResolve_UnauthenticatedRedirects(t *testing.T) {
	d := Check("/transactions", &fakeSession{})
	if d.State != Unauthenticated {
		t.Fatalf("State = %s, want UNAUTHENTICATED", d.State)
	}
	if d.Redirect != LoginPath {
		t.Errorf("Redirect = %q, want %q", d.Redirect, LoginPath)
	}
	if d.From != "/transactions" {
		t.Errorf("From = %q, want /transactions", d.From)
	}
	if !errors.Is(d.Err(), ErrUnauthenticated) {
		t.Errorf("Err() = %v, want ErrUnauthenticated", d.Err())
	}
}

func TestResolve_SettlesOnce(t *testing.T) {
	sess := &fakeSession{authed: true}
	g := New("/analysis")
	if d := g.Resolve(sess); d.State != Authenticated {
		t.Fatalf("State = %s, want AUTHENTICATED", d.State)
	}

	// Later session changes do not move a settled guard.
	sess.authed = false
	sess.loading = true
	if d := g.Resolve(sess); d.State != Authenticated {
		t.Errorf("State = %s after change, want AUTHENTICATED", d.State)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Loading:         "LOADING",
		Authenticated:   "AUTHENTICATED",
		Unauthenticated: "UNAUTHENTICATED",
		State(9):        "UNKNOWN",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
