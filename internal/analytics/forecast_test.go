package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeForecast(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, ForecastSummary{}, SummarizeForecast(nil))
		assert.Equal(t, ForecastSummary{}, SummarizeForecast([]ForecastPoint{}))
	})

	t.Run("two_points", func(t *testing.T) {
		got := SummarizeForecast([]ForecastPoint{{ForecastedValue: 100}, {ForecastedValue: 300}})
		assert.Equal(t, ForecastSummary{Count: 2, Total: 400, Average: 200}, got)
	})

	t.Run("negative_values", func(t *testing.T) {
		got := SummarizeForecast([]ForecastPoint{{ForecastedValue: -50}, {ForecastedValue: 20}})
		assert.Equal(t, ForecastSummary{Count: 2, Total: -30, Average: -15}, got)
	})
}

func TestSummarizeForecastJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ForecastSummary
	}{
		{"array", `[{"forecasted_value":100},{"forecasted_value":300}]`, ForecastSummary{Count: 2, Total: 400, Average: 200}},
		{"empty_array", `[]`, ForecastSummary{}},
		{"missing_value_counts_as_zero", `[{"period":1},{"forecasted_value":90}]`, ForecastSummary{Count: 2, Total: 90, Average: 45}},
		{"null_value", `[{"forecasted_value":null},{"forecasted_value":10}]`, ForecastSummary{Count: 2, Total: 10, Average: 5}},
		{"non_numeric_value", `[{"forecasted_value":"abc"},{"forecasted_value":10}]`, ForecastSummary{Count: 2, Total: 10, Average: 5}},
		{"object_not_array", `{"forecasted_value":100}`, ForecastSummary{}},
		{"null", `null`, ForecastSummary{}},
		{"garbage", `not json`, ForecastSummary{}},
		{"empty_input", ``, ForecastSummary{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeForecastJSON([]byte(tt.raw)))
		})
	}
}

func TestProject(t *testing.T) {
	t.Run("moving_average_rolls_forward", func(t *testing.T) {
		got, err := Project(MethodMovingAverage, []float64{10, 20, 30}, 2, map[string]float64{ParamWindow: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.InDelta(t, 25.0, got[0], 1e-9)
		assert.InDelta(t, 27.5, got[1], 1e-9)
	})

	t.Run("moving_average_window_larger_than_history", func(t *testing.T) {
		got, err := Project(MethodMovingAverage, []float64{10, 20}, 1, nil)
		require.NoError(t, err)
		assert.InDelta(t, 15.0, got[0], 1e-9)
	})

	t.Run("linear_growth_compounds", func(t *testing.T) {
		got, err := Project(MethodLinearGrowth, []float64{50, 100}, 2, map[string]float64{ParamGrowthRate: 10})
		require.NoError(t, err)
		assert.InDelta(t, 110.0, got[0], 1e-9)
		assert.InDelta(t, 121.0, got[1], 1e-9)
	})

	t.Run("linear_growth_default_rate", func(t *testing.T) {
		got, err := Project(MethodLinearGrowth, []float64{100}, 1, nil)
		require.NoError(t, err)
		assert.InDelta(t, 105.0, got[0], 1e-9)
	})

	t.Run("trend_extends_line", func(t *testing.T) {
		got, err := Project(MethodTrend, []float64{10, 20, 30, 40}, 2, nil)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, got[0], 1e-9)
		assert.InDelta(t, 60.0, got[1], 1e-9)
	})

	t.Run("trend_single_point_is_flat", func(t *testing.T) {
		got, err := Project(MethodTrend, []float64{7}, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{7, 7, 7}, got)
	})

	t.Run("empty_history_projects_zeros", func(t *testing.T) {
		for _, m := range []Method{MethodMovingAverage, MethodLinearGrowth, MethodTrend} {
			got, err := Project(m, nil, 3, nil)
			require.NoError(t, err)
			assert.Equal(t, []float64{0, 0, 0}, got, "method %s", m)
		}
	})

	t.Run("unknown_method", func(t *testing.T) {
		_, err := Project(Method("arima"), []float64{1}, 1, nil)
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})

	t.Run("zero_periods", func(t *testing.T) {
		got, err := Project(MethodTrend, []float64{1, 2}, 0, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name      string
		params    map[string]float64
		wantParam string
	}{
		{"nil", nil, ""},
		{"defaults_in_range", map[string]float64{ParamWindow: 3, ParamGrowthRate: 5}, ""},
		{"upper_bounds", map[string]float64{ParamWindow: MaxWindow, ParamGrowthRate: MaxGrowthRate}, ""},
		{"shrinking_growth", map[string]float64{ParamGrowthRate: -99.5}, ""},
		{"unknown_key_ignored", map[string]float64{"alpha": 1e300}, ""},
		{"window_zero", map[string]float64{ParamWindow: 0}, ParamWindow},
		{"window_fraction", map[string]float64{ParamWindow: 2.5}, ParamWindow},
		{"window_huge", map[string]float64{ParamWindow: 1e300}, ParamWindow},
		{"window_nan", map[string]float64{ParamWindow: math.NaN()}, ParamWindow},
		{"growth_huge", map[string]float64{ParamGrowthRate: 1e300}, ParamGrowthRate},
		{"growth_wipes_out", map[string]float64{ParamGrowthRate: -100}, ParamGrowthRate},
		{"growth_inf", map[string]float64{ParamGrowthRate: math.Inf(1)}, ParamGrowthRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParams(tt.params)
			if tt.wantParam == "" {
				assert.NoError(t, err)
				return
			}
			var pe *ParamError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantParam, pe.Param)
		})
	}
}

func TestProjectRejectsOverflow(t *testing.T) {
	_, err := Project(MethodLinearGrowth, []float64{1e300}, 60, map[string]float64{ParamGrowthRate: MaxGrowthRate})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestProjectIgnoresOutOfRangeParams(t *testing.T) {
	got, err := Project(MethodMovingAverage, []float64{10, 20, 30, 40}, 1, map[string]float64{ParamWindow: 1e300})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, got[0], 1e-9)

	got, err = Project(MethodLinearGrowth, []float64{100}, 1, map[string]float64{ParamGrowthRate: 1e300})
	require.NoError(t, err)
	assert.InDelta(t, 105.0, got[0], 1e-9)
}
