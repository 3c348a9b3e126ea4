package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	"github.com/rivierasoft/monapaie/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Repository struct {
	db          *gorm.DB
	genID       *snowflake.Node
	rateRepo    repository.Repository[ratescheduledomain.ContributionRate]
	ceilingRepo repository.Repository[ratescheduledomain.PeriodCeiling]
}

type Param struct {
	fx.In

	DB    *gorm.DB
	GenID *snowflake.Node
}

func NewRepository(p Param) ratescheduledomain.Repository {
	return &Repository{
		db:          p.DB,
		genID:       p.GenID,
		rateRepo:    repository.ProvideStore[ratescheduledomain.ContributionRate](p.DB),
		ceilingRepo: repository.ProvideStore[ratescheduledomain.PeriodCeiling](p.DB),
	}
}

func (r *Repository) FindYear(ctx context.Context, year int) (*ratescheduledomain.RateSchedule, error) {
	rates, err := r.rateRepo.Find(ctx,
		&ratescheduledomain.ContributionRate{Year: year},
		repository.WithOrderBy("code ASC"),
	)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, nil
	}

	ceiling, err := r.ceilingRepo.FindOne(ctx, &ratescheduledomain.PeriodCeiling{Year: year})
	if err != nil {
		return nil, err
	}
	if ceiling == nil {
		return nil, ratescheduledomain.ErrMissingCeiling
	}

	schedule := ratescheduledomain.RateSchedule{
		Year:           year,
		CeilingT1Cents: ceiling.CeilingT1Cents,
		CeilingT2Cents: ceiling.CeilingT2Cents,
		Lines:          make([]ratescheduledomain.ContributionLine, 0, len(rates)),
	}
	for _, rate := range rates {
		schedule.Lines = append(schedule.Lines, ratescheduledomain.ContributionLine{
			Code:         rate.Code,
			SalarialRate: rate.SalarialRate,
			PatronalRate: rate.PatronalRate,
			Tranche:      rate.Tranche,
		})
	}
	return &schedule, nil
}

func (r *Repository) SaveSchedule(ctx context.Context, schedule ratescheduledomain.RateSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("year = ?", schedule.Year).
			Delete(&ratescheduledomain.ContributionRate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("year = ?", schedule.Year).
			Delete(&ratescheduledomain.PeriodCeiling{}).Error; err != nil {
			return err
		}

		rows := make([]*ratescheduledomain.ContributionRate, 0, len(schedule.Lines))
		for _, line := range schedule.Lines {
			rows = append(rows, &ratescheduledomain.ContributionRate{
				ID:           r.genID.Generate(),
				Year:         schedule.Year,
				Code:         line.Code,
				SalarialRate: line.SalarialRate,
				PatronalRate: line.PatronalRate,
				Tranche:      line.Tranche,
			})
		}
		if len(rows) > 0 {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}

		return tx.Create(&ratescheduledomain.PeriodCeiling{
			ID:             r.genID.Generate(),
			Year:           schedule.Year,
			CeilingT1Cents: schedule.CeilingT1Cents,
			CeilingT2Cents: schedule.CeilingT2Cents,
		}).Error
	})
}
