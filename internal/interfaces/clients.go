// Package interfaces defines service contracts for tickerscope
package interfaces

import (
	"context"

	"github.com/okabet/tickerscope/internal/models"
)

// MarketDataClient is the contract for the external market-data provider.
type MarketDataClient interface {
	// GetDailyCloses fetches daily close prices for the trailing lookback
	// window, ordered by date ascending.
	GetDailyCloses(ctx context.Context, symbol string, lookbackYears int) ([]models.PricePoint, error)

	// GetProfile fetches naming metadata for a symbol.
	GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)

	// SearchTickers finds candidate symbols for a free-text query, at most
	// maxResults, in provider relevance order.
	SearchTickers(ctx context.Context, query string, maxResults int) ([]models.CandidateSymbol, error)
}

// TranslationClient is the contract for the external text-to-text
// translation service.
type TranslationClient interface {
	// Translate converts text between languages. source "auto" requests
	// provider-side language detection.
	Translate(ctx context.Context, text, source, target string) (string, error)
}
