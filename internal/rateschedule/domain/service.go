package domain

import "context"

// Service resolves the immutable schedule for a payroll year. The engine
// never interpolates missing years.
type Service interface {
	ScheduleForYear(ctx context.Context, year int) (RateSchedule, error)
}

type Repository interface {
	FindYear(ctx context.Context, year int) (*RateSchedule, error)
	SaveSchedule(ctx context.Context, schedule RateSchedule) error
}
