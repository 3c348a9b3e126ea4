package domain

import "errors"

var (
	ErrYearNotConfigured = errors.New("rate_schedule_year_not_configured")
	ErrInvalidYear       = errors.New("invalid_rate_schedule_year")
	ErrMissingCeiling    = errors.New("missing_period_ceiling")
)
