package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ForecastPoint is a single projected period.
type ForecastPoint struct {
	Period          int       `json:"period"`
	Date            time.Time `json:"date"`
	ForecastedValue float64   `json:"forecasted_value"`
}

// ForecastSummary aggregates a forecast's data points.
type ForecastSummary struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

// SummarizeForecast returns count, total and average of the forecasted values.
func SummarizeForecast(points []ForecastPoint) ForecastSummary {
	var s ForecastSummary
	for _, p := range points {
		s.Total += p.ForecastedValue
	}
	s.Count = len(points)
	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}
	return s
}

// SummarizeForecastJSON summarizes raw data points as received from a
// backend. Anything other than a JSON array yields the zero summary; an
// element without a numeric forecasted_value still counts, with value 0.
func SummarizeForecastJSON(raw []byte) ForecastSummary {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return ForecastSummary{}
	}

	var s ForecastSummary
	for _, el := range elems {
		var p struct {
			ForecastedValue *float64 `json:"forecasted_value"`
		}
		if err := json.Unmarshal(el, &p); err == nil && p.ForecastedValue != nil {
			s.Total += *p.ForecastedValue
		}
	}
	s.Count = len(elems)
	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}
	return s
}

// Method is a forecasting technique.
type Method string

const (
	MethodMovingAverage Method = "moving_average"
	MethodLinearGrowth  Method = "linear_growth"
	MethodTrend         Method = "trend"
)

// Method parameter names and their defaults.
const (
	ParamWindow     = "window"
	ParamGrowthRate = "growth_rate"

	defaultWindow     = 3
	defaultGrowthRate = 5.0

	MaxWindow     = 60
	MinGrowthRate = -100.0 // exclusive
	MaxGrowthRate = 1000.0
)

var (
	// ErrUnknownMethod is returned by Project for an unsupported method.
	ErrUnknownMethod = errors.New("analytics: unknown forecast method")
	// ErrNonFinite is returned by Project when the projection overflows.
	ErrNonFinite = errors.New("analytics: projection is not finite")
)

// ParamError reports a method parameter outside its accepted range.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return "analytics: invalid " + e.Param + ": " + e.Reason
}

// ValidateParams checks the known method parameters. Unknown keys are
// ignored; absent keys fall back to their defaults in Project.
func ValidateParams(params map[string]float64) error {
	if w, ok := params[ParamWindow]; ok {
		if math.IsNaN(w) || w != math.Trunc(w) || w < 1 || w > MaxWindow {
			return &ParamError{Param: ParamWindow, Reason: fmt.Sprintf("must be a whole number between 1 and %d", MaxWindow)}
		}
	}
	if r, ok := params[ParamGrowthRate]; ok {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= MinGrowthRate || r > MaxGrowthRate {
			return &ParamError{Param: ParamGrowthRate, Reason: fmt.Sprintf("must be greater than %g and at most %g", MinGrowthRate, MaxGrowthRate)}
		}
	}
	return nil
}

// Project extends history by the given number of periods. An empty history
// projects zeros.
func Project(method Method, history []float64, periods int, params map[string]float64) ([]float64, error) {
	if periods <= 0 {
		periods = 0
	}

	var out []float64
	switch method {
	case MethodMovingAverage:
		out = movingAverage(history, periods, windowParam(params))
	case MethodLinearGrowth:
		out = linearGrowth(history, periods, growthParam(params))
	case MethodTrend:
		out = trend(history, periods)
	default:
		return nil, ErrUnknownMethod
	}

	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}
	return out, nil
}

// windowParam and growthParam fall back to the default for values that
// ValidateParams would reject.
func windowParam(params map[string]float64) int {
	if w, ok := params[ParamWindow]; ok && w >= 1 && w <= MaxWindow {
		return int(w)
	}
	return defaultWindow
}

func growthParam(params map[string]float64) float64 {
	if r, ok := params[ParamGrowthRate]; ok && r > MinGrowthRate && r <= MaxGrowthRate {
		return r
	}
	return defaultGrowthRate
}

// movingAverage rolls each projection into the window for the next one.
func movingAverage(history []float64, periods, window int) []float64 {
	out := make([]float64, periods)
	if len(history) == 0 {
		return out
	}

	series := append(make([]float64, 0, len(history)+periods), history...)
	for i := 0; i < periods; i++ {
		start := max(len(series)-window, 0)
		var sum float64
		for _, v := range series[start:] {
			sum += v
		}
		next := sum / float64(len(series)-start)
		out[i] = next
		series = append(series, next)
	}
	return out
}

// linearGrowth compounds the last observed value by rate percent per period.
func linearGrowth(history []float64, periods int, rate float64) []float64 {
	out := make([]float64, periods)
	if len(history) == 0 {
		return out
	}

	last := history[len(history)-1]
	for i := 0; i < periods; i++ {
		last *= 1 + rate/100
		out[i] = last
	}
	return out
}

// trend extrapolates an ordinary least-squares line fitted to history.
func trend(history []float64, periods int) []float64 {
	out := make([]float64, periods)
	n := len(history)
	if n == 0 {
		return out
	}
	if n == 1 {
		for i := range out {
			out[i] = history[0]
		}
		return out
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range history {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	for i := range out {
		out[i] = intercept + slope*float64(n+i)
	}
	return out
}
