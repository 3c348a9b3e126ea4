package migration

import (
	"github.com/rivierasoft/monapaie/internal/config"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	"github.com/rivierasoft/monapaie/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql deployments rely on the model schema
			if err := conn.AutoMigrate(
				&ratescheduledomain.ContributionRate{},
				&ratescheduledomain.PeriodCeiling{},
				&perioddomain.EmployeeRecord{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureRateSchedules(conn)
	}),
)
