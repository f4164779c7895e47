package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

const (
	defaultForecastPeriods = 6
	maxForecastPeriods     = 60
)

// forecastService projects recorded actuals forward.
type forecastService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(db *gorm.DB) ForecastServicer {
	return &forecastService{db: db, now: time.Now}
}

// periodStart truncates t to the first day of its month, quarter or year.
func periodStart(t time.Time, pt models.PeriodType) time.Time {
	t = t.UTC()
	switch pt {
	case models.PeriodQuarterly:
		month := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	case models.PeriodYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func nextPeriod(t time.Time, pt models.PeriodType) time.Time {
	switch pt {
	case models.PeriodQuarterly:
		return t.AddDate(0, 3, 0)
	case models.PeriodYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// entryValue is the contribution of one actual to the forecast metric.
// Profit and "all" both project net profit.
func entryValue(e models.ActualEntry, ft models.ForecastType) float64 {
	switch ft {
	case models.ForecastRevenue:
		if e.Type == models.ItemTypeRevenue {
			return e.Amount
		}
	case models.ForecastExpense:
		if e.Type == models.ItemTypeExpense {
			return e.Amount
		}
	default:
		if e.Type == models.ItemTypeRevenue {
			return e.Amount
		}
		return -e.Amount
	}
	return 0
}

// buildHistory buckets actuals into consecutive periods, filling gaps with
// zero. It returns the series and the start of the last bucket.
func buildHistory(entries []models.ActualEntry, ft models.ForecastType, pt models.PeriodType) ([]float64, time.Time) {
	if len(entries) == 0 {
		return nil, time.Time{}
	}

	buckets := make(map[time.Time]float64)
	first, last := periodStart(entries[0].Date, pt), periodStart(entries[0].Date, pt)
	for _, e := range entries {
		p := periodStart(e.Date, pt)
		buckets[p] += entryValue(e, ft)
		if p.Before(first) {
			first = p
		}
		if p.After(last) {
			last = p
		}
	}

	var history []float64
	for p := first; !p.After(last); p = nextPeriod(p, pt) {
		history = append(history, buckets[p])
	}
	return history, last
}

// CreateForecast projects the user's actuals, or one budget's, forward and
// stores the result.
func (s *forecastService) CreateForecast(userID string, input ForecastInput) (*ForecastDetail, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "forecast name is required")
	}
	if input.PeriodType == "" {
		input.PeriodType = models.PeriodMonthly
	}
	if input.ForecastType == "" {
		input.ForecastType = models.ForecastRevenue
	}
	switch {
	case input.Periods <= 0:
		input.Periods = defaultForecastPeriods
	case input.Periods > maxForecastPeriods:
		input.Periods = maxForecastPeriods
	}

	if err := analytics.ValidateParams(input.MethodParams); err != nil {
		var pe *analytics.ParamError
		if errors.As(err, &pe) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("method_params.%s %s", pe.Param, pe.Reason))
		}
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	budgetIDs, err := s.sourceBudgets(userID, input.BudgetID)
	if err != nil {
		return nil, err
	}
	entries, err := loadActuals(s.db, budgetIDs...)
	if err != nil {
		return nil, err
	}

	history, last := buildHistory(entries, input.ForecastType, input.PeriodType)
	values, err := analytics.Project(input.Method, history, input.Periods, input.MethodParams)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownMethod) {
			return nil, apperrors.ErrUnknownForecastMethod
		}
		if errors.Is(err, analytics.ErrNonFinite) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "forecast values are too large; lower the growth rate or periods")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if last.IsZero() {
		last = periodStart(s.now(), input.PeriodType)
	}
	points := make([]analytics.ForecastPoint, len(values))
	date := last
	for i, v := range values {
		date = nextPeriod(date, input.PeriodType)
		points[i] = analytics.ForecastPoint{Period: i + 1, Date: date, ForecastedValue: v}
	}

	params := input.MethodParams
	if params == nil {
		params = map[string]float64{}
	}
	forecast := &models.Forecast{
		UserID:       userID,
		BudgetID:     input.BudgetID,
		Name:         input.Name,
		ForecastType: input.ForecastType,
		PeriodType:   input.PeriodType,
		Method:       input.Method,
		MethodParams: params,
		DataPoints:   points,
	}
	if err := s.db.Create(forecast).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ForecastDetail{Forecast: *forecast, Summary: analytics.SummarizeForecast(points)}, nil
}

func (s *forecastService) sourceBudgets(userID string, budgetID *string) ([]string, error) {
	if budgetID != nil && *budgetID != "" {
		budget, err := findBudget(s.db, *budgetID, visibleTo(userID))
		if err != nil {
			return nil, err
		}
		return []string{budget.ID}, nil
	}

	var ids []string
	if err := s.db.Model(&models.Budget{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ids, nil
}

// GetForecasts lists the user's forecasts, newest first.
func (s *forecastService) GetForecasts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Forecast], error) {
	page.Defaults()

	base := s.db.Model(&models.Forecast{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var forecasts []models.Forecast
	if err := base.Order("id DESC").Scopes(pagination.Paginate(page)).Find(&forecasts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(forecasts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *forecastService) find(userID, forecastID string) (*models.Forecast, error) {
	var forecast models.Forecast
	if err := s.db.Where("id = ? AND user_id = ?", forecastID, userID).First(&forecast).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrForecastNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &forecast, nil
}

// GetForecast returns a forecast with its summary.
func (s *forecastService) GetForecast(userID, forecastID string) (*ForecastDetail, error) {
	forecast, err := s.find(userID, forecastID)
	if err != nil {
		return nil, err
	}
	return &ForecastDetail{Forecast: *forecast, Summary: analytics.SummarizeForecast(forecast.DataPoints)}, nil
}

// DeleteForecast soft-deletes a forecast.
func (s *forecastService) DeleteForecast(userID, forecastID string) error {
	forecast, err := s.find(userID, forecastID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(forecast).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
