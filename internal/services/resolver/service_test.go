package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/models"
)

type fakeMarket struct {
	gotQuery   string
	gotMax     int
	candidates []models.CandidateSymbol
	err        error
}

func (f *fakeMarket) GetDailyCloses(_ context.Context, _ string, _ int) ([]models.PricePoint, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMarket) GetProfile(_ context.Context, _ string) (*models.CompanyProfile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMarket) SearchTickers(_ context.Context, query string, maxResults int) ([]models.CandidateSymbol, error) {
	f.gotQuery = query
	f.gotMax = maxResults
	return f.candidates, f.err
}

type fakeTranslator struct {
	gotText string
	out     string
	err     error
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.gotText = text
	return f.out, f.err
}

func TestResolveASCIIQuerySkipsTranslation(t *testing.T) {
	market := &fakeMarket{candidates: []models.CandidateSymbol{{Symbol: "AAPL", DisplayName: "Apple Inc."}}}
	translator := &fakeTranslator{out: "should not be used"}
	svc := NewService(market, translator, common.NewSilentLogger())

	got := svc.Resolve(context.Background(), "apple")

	assert.Empty(t, translator.gotText)
	assert.Equal(t, "apple", market.gotQuery)
	assert.Equal(t, MaxCandidates, market.gotMax)
	assert.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Symbol)
}

func TestResolveTranslatesNonASCIIQuery(t *testing.T) {
	market := &fakeMarket{candidates: []models.CandidateSymbol{{Symbol: "7203.T", DisplayName: "Toyota Motor Corporation"}}}
	translator := &fakeTranslator{out: "Toyota Motors"}
	svc := NewService(market, translator, common.NewSilentLogger())

	got := svc.Resolve(context.Background(), "トヨタ自動車")

	assert.Equal(t, "トヨタ自動車", translator.gotText)
	assert.Equal(t, "Toyota Motors", market.gotQuery)
	assert.Len(t, got, 1)
}

func TestResolveTranslationFailureFallsBackToOriginal(t *testing.T) {
	market := &fakeMarket{candidates: []models.CandidateSymbol{{Symbol: "7203.T"}}}
	translator := &fakeTranslator{err: errors.New("service unavailable")}
	svc := NewService(market, translator, common.NewSilentLogger())

	got := svc.Resolve(context.Background(), "トヨタ")

	assert.Equal(t, "トヨタ", market.gotQuery)
	assert.Len(t, got, 1)
}

func TestResolveNilTranslator(t *testing.T) {
	market := &fakeMarket{}
	svc := NewService(market, nil, common.NewSilentLogger())

	svc.Resolve(context.Background(), "トヨタ")

	assert.Equal(t, "トヨタ", market.gotQuery)
}

func TestResolveSearchErrorReturnsEmpty(t *testing.T) {
	market := &fakeMarket{err: errors.New("upstream 500")}
	svc := NewService(market, nil, common.NewSilentLogger())

	got := svc.Resolve(context.Background(), "apple")

	assert.Empty(t, got)
}

func TestResolveBlankQueryReturnsEmpty(t *testing.T) {
	market := &fakeMarket{}
	svc := NewService(market, nil, common.NewSilentLogger())

	got := svc.Resolve(context.Background(), "   ")

	assert.Empty(t, got)
	assert.Empty(t, market.gotQuery)
}
