// Package resolver turns free-text company queries into candidate symbols
package resolver

import (
	"context"
	"strings"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

// MaxCandidates caps how many ticker candidates a single query returns.
const MaxCandidates = 5

// Compile-time interface check
var _ interfaces.ResolverService = (*Service)(nil)

// Service implements ResolverService with optional query translation.
type Service struct {
	market     interfaces.MarketDataClient
	translator interfaces.TranslationClient
	logger     *common.Logger
}

// NewService creates a new resolver service.
// translator may be nil, in which case non-ASCII queries are searched as-is.
func NewService(market interfaces.MarketDataClient, translator interfaces.TranslationClient, logger *common.Logger) *Service {
	return &Service{
		market:     market,
		translator: translator,
		logger:     logger,
	}
}

// Resolve searches the market-data provider for symbols matching the query.
// Queries containing characters outside Latin-1 are first translated to
// English; translation failure falls back to the original text. Any search
// failure yields an empty candidate list rather than an error.
func (s *Service) Resolve(ctx context.Context, query string) []models.CandidateSymbol {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	searchText := query
	if s.translator != nil && needsTranslation(query) {
		translated, err := s.translator.Translate(ctx, query, "auto", "en")
		if err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("Translation failed, searching original text")
		} else if translated != "" {
			s.logger.Debug().Str("query", query).Str("translated", translated).Msg("Query translated")
			searchText = translated
		}
	}

	candidates, err := s.market.SearchTickers(ctx, searchText, MaxCandidates)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", searchText).Msg("Ticker search failed")
		return nil
	}
	return candidates
}

// needsTranslation reports whether the query contains characters outside the
// Latin-1 range, e.g. Japanese or Chinese company names.
func needsTranslation(query string) bool {
	for _, r := range query {
		if r > 255 {
			return true
		}
	}
	return false
}
