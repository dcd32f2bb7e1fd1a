package models

import "time"

// ForecastPoint is one estimated point with its uncertainty band.
// Invariant: Lower <= Estimate <= Upper.
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Estimate float64   `json:"estimate"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// ForecastHorizonDays is the fixed-length future window in calendar days.
// After weekend filtering the effective horizon is typically 6-8 points.
const ForecastHorizonDays = 10

// HistoryWindowPoints is the default number of trailing historical points a
// consumer needs to show alongside the future horizon.
const HistoryWindowPoints = 60

// ForecastTableRows is the number of trailing forecast rows included in the
// response table.
const ForecastTableRows = 7

// ForecastResult is the outcome of a successful forecast run: the reduced
// historical series, the re-estimated historical range plus future horizon,
// and presentation hints for consumers.
type ForecastResult struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name"`
	Series      []PricePoint    `json:"series"`
	Forecast    []ForecastPoint `json:"forecast"`
	// WindowStart is the recommended left edge of the default chart window:
	// the 60th-from-last historical date, or the first date if fewer.
	WindowStart time.Time       `json:"window_start"`
	Table       []ForecastPoint `json:"table"`
}
