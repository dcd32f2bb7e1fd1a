package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the account and forecast paths.
var (
	// ErrInsufficientData means the fetched series was empty or shorter than
	// MinSeriesLength. The symbol is marked invalid.
	ErrInsufficientData = errors.New("insufficient historical data")

	// ErrUserNotFound means no account exists for the username.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser means the username is already registered.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrInvalidCredentials means the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrEmptySymbol means the symbol was empty after normalization.
	ErrEmptySymbol = errors.New("empty symbol")

	// ErrNoCandidates means a free-text query matched no tickers.
	ErrNoCandidates = errors.New("no matching tickers found")

	// ErrSymbolNotValidated means a favorite was requested for a symbol the
	// session has not successfully forecast.
	ErrSymbolNotValidated = errors.New("symbol has not been validated")
)

// FetchError wraps a network or provider failure while retrieving market data.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching data for %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FitError wraps a model fitting failure on degenerate input.
type FitError struct {
	Symbol string
	Err    error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fitting model for %s: %v", e.Symbol, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// CascadeDeleteError reports a partial account deletion. Steps that completed
// before the failure are NOT rolled back; Completed records how far the
// cascade got (in order: history, favorites, user).
type CascadeDeleteError struct {
	Username  string
	FailedAt  string
	Completed []string
	Err       error
}

func (e *CascadeDeleteError) Error() string {
	return fmt.Sprintf("account deletion for %s failed at %s (completed: %v): %v",
		e.Username, e.FailedAt, e.Completed, e.Err)
}

func (e *CascadeDeleteError) Unwrap() error {
	return e.Err
}
