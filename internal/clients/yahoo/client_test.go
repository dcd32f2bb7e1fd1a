package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetDailyCloses_ParsesChart(t *testing.T) {
	var capturedPath, capturedUA string
	var capturedQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedUA = r.Header.Get("User-Agent")
		capturedQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		// Three trading days, one with a null close (halted day).
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1704153600,1704240000,1704326400],
			"indicators":{"quote":[{"close":[185.64,null,181.91]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	points, err := client.GetDailyCloses(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("GetDailyCloses failed: %v", err)
	}

	if capturedPath != "/v8/finance/chart/AAPL" {
		t.Errorf("expected chart path, got %s", capturedPath)
	}
	if capturedUA == "" || capturedUA == "Go-http-client/1.1" {
		t.Errorf("expected a browser User-Agent, got %q", capturedUA)
	}
	if got := capturedQuery["range"]; len(got) != 1 || got[0] != "2y" {
		t.Errorf("expected range=2y, got %v", got)
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points (null close skipped), got %d", len(points))
	}
	if points[0].Close != 185.64 {
		t.Errorf("expected first close 185.64, got %.2f", points[0].Close)
	}
	for _, p := range points {
		if h, m, s := p.Date.Clock(); h != 0 || m != 0 || s != 0 {
			t.Errorf("expected midnight calendar date, got %v", p.Date)
		}
		if p.Date.Location() != time.UTC {
			t.Errorf("expected timezone-naive UTC date, got %v", p.Date.Location())
		}
	}
	if !points[0].Date.Before(points[1].Date) {
		t.Error("expected points ordered by date ascending")
	}
}

func TestGetDailyCloses_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetDailyCloses(context.Background(), "NOPE", 1)
	if err == nil {
		t.Fatal("expected error for provider error payload")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "No data found, symbol may be delisted" {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}

func TestGetDailyCloses_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetDailyCloses(context.Background(), "AAPL", 1)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if apiErr, ok := err.(*APIError); !ok || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429 APIError, got %v", err)
	}
}

func TestGetProfile_PrefersLongName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":[{"price":{"longName":"Toyota Motor Corporation","shortName":"TOYOTA MOTOR CORP"}}],"error":null}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	profile, err := client.GetProfile(context.Background(), "7203.T")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.DisplayName() != "Toyota Motor Corporation" {
		t.Errorf("expected long name preferred, got %q", profile.DisplayName())
	}
}

func TestGetProfile_FallsBackToSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":[{"price":{}}],"error":null}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	profile, err := client.GetProfile(context.Background(), "7203.T")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.DisplayName() != "7203.T" {
		t.Errorf("expected symbol fallback, got %q", profile.DisplayName())
	}
}

func TestSearchTickers_MapsQuotes(t *testing.T) {
	var capturedQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":[
			{"symbol":"TM","longname":"Toyota Motor Corporation","shortname":"Toyota Motor","exchDisp":"NYSE"},
			{"symbol":"7203.T","shortname":"TOYOTA MOTOR CORP","exchDisp":"Tokyo"},
			{"symbol":"TOYOF"},
			{"symbol":""}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	candidates, err := client.SearchTickers(context.Background(), "Toyota", 5)
	if err != nil {
		t.Fatalf("SearchTickers failed: %v", err)
	}

	if got := capturedQuery["quotesCount"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("expected quotesCount=5, got %v", got)
	}

	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates (empty symbol dropped), got %d", len(candidates))
	}
	// Provider relevance order preserved, no re-sorting.
	if candidates[0].Symbol != "TM" || candidates[1].Symbol != "7203.T" {
		t.Errorf("candidate order changed: %+v", candidates)
	}
	if candidates[0].DisplayName != "Toyota Motor Corporation" {
		t.Errorf("expected long name, got %q", candidates[0].DisplayName)
	}
	if candidates[1].DisplayName != "TOYOTA MOTOR CORP" {
		t.Errorf("expected short name fallback, got %q", candidates[1].DisplayName)
	}
	if candidates[2].DisplayName != "TOYOF" {
		t.Errorf("expected symbol fallback, got %q", candidates[2].DisplayName)
	}
	if candidates[1].Exchange != "Tokyo" {
		t.Errorf("expected exchange Tokyo, got %q", candidates[1].Exchange)
	}
	if candidates[2].Exchange != "" {
		t.Errorf("expected empty exchange, got %q", candidates[2].Exchange)
	}
}

func TestSearchTickers_CapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quotes":[
			{"symbol":"A"},{"symbol":"B"},{"symbol":"C"},{"symbol":"D"},{"symbol":"E"},{"symbol":"F"},{"symbol":"G"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	candidates, err := client.SearchTickers(context.Background(), "a", 5)
	if err != nil {
		t.Fatalf("SearchTickers failed: %v", err)
	}
	if len(candidates) != 5 {
		t.Errorf("expected at most 5 candidates, got %d", len(candidates))
	}
}
