// Package models defines the domain types for tickerscope
package models

import (
	"strings"
	"time"
)

// CandidateSymbol is one search result for a free-text ticker query.
// Ordering follows the relevance order returned by the search provider.
type CandidateSymbol struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
	Exchange    string `json:"exchange"`
}

// PricePoint is a single daily close observation. Date is a timezone-naive
// calendar date; intraday time has no meaning at daily-close granularity.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// MinSeriesLength is the minimum number of price points required for a
// symbol to be considered valid for forecasting.
const MinSeriesLength = 10

// CompanyProfile holds the naming metadata for a symbol.
type CompanyProfile struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"long_name,omitempty"`
	ShortName string `json:"short_name,omitempty"`
}

// DisplayName returns the best available name: long form, then short form,
// then the raw symbol.
func (p *CompanyProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.LongName != "" {
		return p.LongName
	}
	if p.ShortName != "" {
		return p.ShortName
	}
	return p.Symbol
}

// NormalizeSymbol trims whitespace and uppercases a symbol. The normalized
// form is the identity key for validation, history, and favorites.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// LookbackYears are the supported historical windows for forecasting.
var LookbackYears = []int{1, 2, 3, 5}

// ValidLookback reports whether years is a supported lookback window.
func ValidLookback(years int) bool {
	for _, y := range LookbackYears {
		if y == years {
			return true
		}
	}
	return false
}

// DedupByRecency collapses repeated symbols to their most recent occurrence,
// preserving recency order among survivors, capped at limit entries.
// Input must be ordered most-recent first.
func DedupByRecency(symbols []string, limit int) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, limit)
	for _, sym := range symbols {
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
		if len(out) == limit {
			break
		}
	}
	return out
}
