// Package session holds the per-user, in-process state that gates user
// actions: the displayed symbol, its validation state, and the last
// successfully forecast symbol. Nothing here is persisted; state lives for
// the lifetime of the process and is scoped to one username.
package session

import (
	"sync"

	"github.com/okabet/tickerscope/internal/models"
)

// Validity tracks whether the displayed symbol has been confirmed to have
// usable historical data.
type Validity int

const (
	// Unvalidated is the initial state, re-entered on every symbol edit.
	Unvalidated Validity = iota
	// Valid means a forecast for this exact symbol string fetched a series
	// of at least models.MinSeriesLength points.
	Valid
	// Invalid means the fetch failed or the series was too short.
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// State is one user's session. Methods are not safe for concurrent use;
// the Registry serializes access per user.
type State struct {
	searchSymbol string
	lastSearched string
	validity     Validity
}

// Symbol returns the currently displayed symbol.
func (s *State) Symbol() string {
	return s.searchSymbol
}

// LastSearched returns the last symbol that completed a successful forecast.
func (s *State) LastSearched() string {
	return s.lastSearched
}

// Validity returns the validation state of the displayed symbol.
func (s *State) Validity() Validity {
	return s.validity
}

// SetSymbol updates the displayed symbol. Any change of the exact symbol
// string resets validity to Unvalidated: validation is bound to the string,
// not to a symbol identity that survives edits.
func (s *State) SetSymbol(symbol string) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol != s.searchSymbol {
		s.validity = Unvalidated
	}
	s.searchSymbol = symbol
}

// MarkValidationResult records the outcome of a forecast fetch for the
// displayed symbol.
func (s *State) MarkValidationResult(success bool) {
	if success {
		s.validity = Valid
		s.lastSearched = s.searchSymbol
		return
	}
	s.validity = Invalid
}

// CanAddFavorite reports whether a favorite-add is permitted: true iff the
// displayed symbol has been validated.
func (s *State) CanAddFavorite() bool {
	return s.validity == Valid
}

// Registry maps usernames to their session state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*State
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*State)}
}

// Get returns the session for a username, creating it on first use.
func (r *Registry) Get(username string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[username]
	if !ok {
		s = &State{}
		r.sessions[username] = s
	}
	return s
}

// Remove drops a user's session, e.g. after account deletion.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, username)
}

// WithState runs fn while holding the registry lock, serializing all session
// mutations for the single-threaded-per-user request model.
func (r *Registry) WithState(username string, fn func(*State)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[username]
	if !ok {
		s = &State{}
		r.sessions[username] = s
	}
	fn(s)
}
