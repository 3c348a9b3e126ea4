// Package seed bootstraps reference data on startup.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	"gorm.io/gorm"
)

// EnsureRateSchedules inserts the built-in contribution tables for years
// that have no rows yet. Existing years are left untouched so operator
// overrides survive restarts.
func EnsureRateSchedules(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ensureScheduleTx(ctx, tx, node, ratescheduledomain.Defaults2024())
	})
}

func ensureScheduleTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, schedule ratescheduledomain.RateSchedule) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&ratescheduledomain.ContributionRate{}).
		Where("year = ?", schedule.Year).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows := make([]*ratescheduledomain.ContributionRate, 0, len(schedule.Lines))
	for _, line := range schedule.Lines {
		rows = append(rows, &ratescheduledomain.ContributionRate{
			ID:           node.Generate(),
			Year:         schedule.Year,
			Code:         line.Code,
			SalarialRate: line.SalarialRate,
			PatronalRate: line.PatronalRate,
			Tranche:      line.Tranche,
		})
	}
	if err := tx.WithContext(ctx).Create(rows).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Create(&ratescheduledomain.PeriodCeiling{
		ID:             node.Generate(),
		Year:           schedule.Year,
		CeilingT1Cents: schedule.CeilingT1Cents,
		CeilingT2Cents: schedule.CeilingT2Cents,
	}).Error
}
