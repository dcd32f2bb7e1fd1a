// Package timeseries fits an additive trend-plus-seasonality model to a
// daily price series and produces point estimates with uncertainty bands.
//
// The model decomposes the series into a piecewise-linear trend (slope
// changes allowed at a fixed grid of changepoints, regularized by a
// changepoint flexibility parameter) and Fourier seasonal components with
// daily, weekly, and yearly periods. Coefficients come from a single ridge
// least-squares solve; no data-driven tuning is performed.
package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/okabet/tickerscope/internal/models"
)

// Options configures a model fit. A single fixed default is used for all
// symbols.
type Options struct {
	DailySeasonality  bool
	WeeklySeasonality bool
	YearlySeasonality bool

	// ChangepointPriorScale controls how readily the trend may change slope
	// at a changepoint. Larger values allow a more flexible trend.
	ChangepointPriorScale float64

	// NChangepoints is the number of potential changepoints, placed
	// uniformly over the first ChangepointRange of the series.
	NChangepoints    int
	ChangepointRange float64

	// IntervalZ is the z-score of the uncertainty band (1.2816 = 80%).
	IntervalZ float64
}

// DefaultOptions returns the fixed model configuration: all seasonal
// components on, changepoint flexibility 0.05.
func DefaultOptions() Options {
	return Options{
		DailySeasonality:      true,
		WeeklySeasonality:     true,
		YearlySeasonality:     true,
		ChangepointPriorScale: 0.05,
		NChangepoints:         25,
		ChangepointRange:      0.8,
		IntervalZ:             1.2816,
	}
}

// seasonality is one Fourier component of the design matrix.
type seasonality struct {
	period float64 // days
	order  int     // number of harmonics
}

// Model is a fitted trend+seasonality model.
type Model struct {
	opts Options

	origin   time.Time // first observed date
	spanDays float64   // training span in days
	lastDay  float64   // day offset of the last observation

	yMean float64
	yStd  float64

	changepoints []float64 // day offsets
	seasonal     []seasonality
	coef         []float64

	sigma float64 // residual std, in standardized units
}

// dayOffset converts a date to fractional days since the model origin.
func dayOffset(origin, date time.Time) float64 {
	return date.Sub(origin).Hours() / 24
}

// features builds the design row for a single day offset.
func (m *Model) features(day float64) []float64 {
	row := make([]float64, 0, 2+len(m.changepoints)+m.fourierCols())
	row = append(row, 1, day/m.spanDays)
	for _, cp := range m.changepoints {
		// Hinge term: slope changes activate once the changepoint passes.
		if day > cp {
			row = append(row, (day-cp)/m.spanDays)
		} else {
			row = append(row, 0)
		}
	}
	for _, s := range m.seasonal {
		for n := 1; n <= s.order; n++ {
			arg := 2 * math.Pi * float64(n) * day / s.period
			row = append(row, math.Sin(arg), math.Cos(arg))
		}
	}
	return row
}

func (m *Model) fourierCols() int {
	cols := 0
	for _, s := range m.seasonal {
		cols += 2 * s.order
	}
	return cols
}

// Fit fits the additive model to a series ordered by date ascending.
// It fails on series with fewer than two distinct dates, non-finite values,
// or an unsolvable design.
func Fit(points []models.PricePoint, opts Options) (*Model, error) {
	if len(points) < 2 {
		return nil, errors.New("series has fewer than two points")
	}

	origin := points[0].Date
	span := dayOffset(origin, points[len(points)-1].Date)
	if span <= 0 {
		return nil, errors.New("series has no time span (all dates identical)")
	}

	for _, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return nil, fmt.Errorf("non-finite close at %s", p.Date.Format("2006-01-02"))
		}
	}

	m := &Model{
		opts:     opts,
		origin:   origin,
		spanDays: span,
		lastDay:  span,
	}

	if opts.YearlySeasonality {
		m.seasonal = append(m.seasonal, seasonality{period: 365.25, order: 10})
	}
	if opts.WeeklySeasonality {
		m.seasonal = append(m.seasonal, seasonality{period: 7, order: 3})
	}
	if opts.DailySeasonality {
		m.seasonal = append(m.seasonal, seasonality{period: 1, order: 4})
	}

	// Changepoints: uniform over the first ChangepointRange of the span.
	n := opts.NChangepoints
	if n > len(points)-2 {
		n = len(points) - 2
	}
	if n > 0 {
		limit := span * opts.ChangepointRange
		for i := 1; i <= n; i++ {
			m.changepoints = append(m.changepoints, limit*float64(i)/float64(n+1))
		}
	}

	// Standardize the target.
	var sum, sumSq float64
	for _, p := range points {
		sum += p.Close
	}
	m.yMean = sum / float64(len(points))
	for _, p := range points {
		d := p.Close - m.yMean
		sumSq += d * d
	}
	m.yStd = math.Sqrt(sumSq / float64(len(points)))
	if m.yStd == 0 {
		// Constant series: fit proceeds on the centered (all-zero) target.
		m.yStd = 1
	}

	rows := len(points)
	cols := 2 + len(m.changepoints) + m.fourierCols()

	// Ridge regularization via augmented least squares: changepoint slopes
	// are penalized by the inverse of the changepoint flexibility, seasonal
	// terms by a fixed mild penalty.
	cpPenalty := math.Sqrt(1 / opts.ChangepointPriorScale)
	seasPenalty := 0.1

	a := mat.NewDense(rows+cols, cols, nil)
	b := mat.NewVecDense(rows+cols, nil)

	for i, p := range points {
		row := m.features(dayOffset(origin, p.Date))
		a.SetRow(i, row)
		b.SetVec(i, (p.Close-m.yMean)/m.yStd)
	}
	for j := 0; j < cols; j++ {
		penalty := 1e-4 // near-free intercept and base slope
		switch {
		case j >= 2 && j < 2+len(m.changepoints):
			penalty = cpPenalty
		case j >= 2+len(m.changepoints):
			penalty = seasPenalty
		}
		a.Set(rows+j, j, penalty)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("least squares solve: %w", err)
		}
		// Ill-conditioned but solvable: the ridge rows keep this stable.
	}

	m.coef = make([]float64, cols)
	for j := 0; j < cols; j++ {
		m.coef[j] = beta.AtVec(j)
	}
	for _, c := range m.coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, errors.New("degenerate fit produced non-finite coefficients")
		}
	}

	// Residual standard deviation drives the uncertainty band.
	var ssr float64
	for _, p := range points {
		yhat := m.evaluate(dayOffset(origin, p.Date))
		r := (p.Close-m.yMean)/m.yStd - yhat
		ssr += r * r
	}
	m.sigma = math.Sqrt(ssr / float64(rows))

	return m, nil
}

// evaluate computes the standardized model value at a day offset.
func (m *Model) evaluate(day float64) float64 {
	row := m.features(day)
	var v float64
	for j, x := range row {
		v += m.coef[j] * x
	}
	return v
}

// Predict evaluates the fitted model over the given dates, producing a point
// estimate and an uncertainty band per date. Bands widen for dates beyond
// the training range.
func (m *Model) Predict(dates []time.Time) []models.ForecastPoint {
	z := m.opts.IntervalZ
	out := make([]models.ForecastPoint, 0, len(dates))
	for _, d := range dates {
		day := dayOffset(m.origin, d)
		est := m.evaluate(day)*m.yStd + m.yMean

		width := z * m.sigma * m.yStd
		if day > m.lastDay {
			// Uncertainty grows with extrapolation distance.
			ahead := day - m.lastDay
			width *= math.Sqrt(1 + ahead/float64(models.ForecastHorizonDays))
		}

		out = append(out, models.ForecastPoint{
			Date:     d,
			Estimate: est,
			Lower:    est - width,
			Upper:    est + width,
		})
	}
	return out
}

// BusinessDayHorizon returns the dates within calendarDays after last,
// excluding Saturdays and Sundays. For a 10-day window this yields 6-8
// future points depending on where the weekend falls.
func BusinessDayHorizon(last time.Time, calendarDays int) []time.Time {
	out := make([]time.Time, 0, calendarDays)
	for i := 1; i <= calendarDays; i++ {
		d := last.AddDate(0, 0, i)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}
