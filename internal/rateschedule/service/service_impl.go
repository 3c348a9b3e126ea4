package service

import (
	"context"

	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo ratescheduledomain.Repository
}

type Param struct {
	fx.In

	Log        *zap.Logger
	Repository ratescheduledomain.Repository
}

func NewService(p Param) ratescheduledomain.Service {
	return &Service{
		log:  p.Log.Named("rateschedule.service"),
		repo: p.Repository,
	}
}

// ScheduleForYear loads the persisted table for the year, falling back to the
// built-in defaults when the database has no rows for it.
func (s *Service) ScheduleForYear(ctx context.Context, year int) (ratescheduledomain.RateSchedule, error) {
	if year <= 0 {
		return ratescheduledomain.RateSchedule{}, ratescheduledomain.ErrInvalidYear
	}

	schedule, err := s.repo.FindYear(ctx, year)
	if err != nil {
		return ratescheduledomain.RateSchedule{}, err
	}
	if schedule != nil {
		return *schedule, nil
	}

	defaults := ratescheduledomain.Defaults2024()
	if year == defaults.Year {
		s.log.Debug("serving built-in rate schedule", zap.Int("year", year))
		return defaults, nil
	}

	return ratescheduledomain.RateSchedule{}, ratescheduledomain.ErrYearNotConfigured
}
