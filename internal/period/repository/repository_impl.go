package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	"github.com/rivierasoft/monapaie/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Repository struct {
	db    *gorm.DB
	genID *snowflake.Node
	store repository.Repository[perioddomain.EmployeeRecord]
}

type Param struct {
	fx.In

	DB    *gorm.DB
	GenID *snowflake.Node
}

func NewRepository(p Param) perioddomain.Store {
	return &Repository{
		db:    p.DB,
		genID: p.GenID,
		store: repository.ProvideStore[perioddomain.EmployeeRecord](p.DB),
	}
}

func (r *Repository) LoadPeriod(ctx context.Context, companyID string, year, month int) ([]perioddomain.EmployeeRecord, error) {
	records, err := r.store.Find(ctx,
		&perioddomain.EmployeeRecord{CompanyID: companyID, Year: year, Month: month},
		repository.WithOrderBy("matricule ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]perioddomain.EmployeeRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}
	return out, nil
}

func (r *Repository) SavePeriod(ctx context.Context, companyID string, year, month int, records []perioddomain.EmployeeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND year = ? AND month = ?", companyID, year, month).
			Delete(&perioddomain.EmployeeRecord{}).Error; err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}

		rows := make([]*perioddomain.EmployeeRecord, 0, len(records))
		for _, rec := range records {
			row := rec
			row.ID = r.genID.Generate()
			row.CompanyID = companyID
			row.Year = year
			row.Month = month
			rows = append(rows, &row)
		}
		return tx.Create(rows).Error
	})
}
