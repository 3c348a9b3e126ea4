// Package domain persists per-month employee payroll records.
package domain

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
)

// EmployeeRecord is one employee in one company period: the raw input
// snapshot plus the computed payslip aggregates. The review agent compares
// consecutive periods field by field, so the snapshot keeps every input.
type EmployeeRecord struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID string       `gorm:"type:text;not null;uniqueIndex:idx_employee_records_period"`
	Year      int          `gorm:"not null;uniqueIndex:idx_employee_records_period"`
	Month     int          `gorm:"not null;uniqueIndex:idx_employee_records_period"`
	Matricule string       `gorm:"type:text;not null;uniqueIndex:idx_employee_records_period"`

	FirstName        string `gorm:"type:text"`
	LastName         string `gorm:"type:text"`
	ResidencyCountry string `gorm:"type:text;not null;default:MC"`

	BaseSalaryCents  int64   `gorm:"not null"`
	BaseHours        float64 `gorm:"not null"`
	OvertimeHours125 float64 `gorm:"not null;default:0"`
	OvertimeHours150 float64 `gorm:"not null;default:0"`
	HolidayHours     float64 `gorm:"not null;default:0"`
	SundayHours      float64 `gorm:"not null;default:0"`

	AbsenceHours float64                   `gorm:"not null;default:0"`
	AbsenceType  payrolldomain.AbsenceType `gorm:"type:text"`

	PremiumCents        int64   `gorm:"not null;default:0"`
	PremiumType         string  `gorm:"type:text"`
	BenefitsInKindCents int64   `gorm:"not null;default:0"`
	TicketCount         int     `gorm:"not null;default:0"`
	PTODaysTaken        float64 `gorm:"not null;default:0"`

	Remark          string     `gorm:"type:text"`
	ExitDate        *time.Time `gorm:""`
	WithholdingRate *float64   `gorm:"type:numeric(8,6)"`

	GrossCents         int64   `gorm:"not null;default:0"`
	NetCents           int64   `gorm:"not null;default:0"`
	TotalSalarialCents int64   `gorm:"not null;default:0"`
	TotalPatronalCents int64   `gorm:"not null;default:0"`
	EmployerCostCents  int64   `gorm:"not null;default:0"`
	HoursWorked        float64 `gorm:"not null;default:0"`

	IsValid  bool   `gorm:"not null;default:true"`
	Issues   string `gorm:"type:text"`
	EdgeCase bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (EmployeeRecord) TableName() string { return "employee_records" }

// Input rebuilds the calculator input from the stored snapshot.
func (r EmployeeRecord) Input() payrolldomain.EmployeeInput {
	return payrolldomain.EmployeeInput{
		Matricule:           r.Matricule,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		ResidencyCountry:    r.ResidencyCountry,
		BaseSalaryCents:     r.BaseSalaryCents,
		BaseHours:           r.BaseHours,
		OvertimeHours125:    r.OvertimeHours125,
		OvertimeHours150:    r.OvertimeHours150,
		HolidayHours:        r.HolidayHours,
		SundayHours:         r.SundayHours,
		AbsenceHours:        r.AbsenceHours,
		AbsenceType:         r.AbsenceType,
		PremiumCents:        r.PremiumCents,
		PremiumType:         r.PremiumType,
		BenefitsInKindCents: r.BenefitsInKindCents,
		TicketCount:         r.TicketCount,
		PTODaysTaken:        r.PTODaysTaken,
		Remark:              r.Remark,
		ExitDate:            r.ExitDate,
		WithholdingRate:     r.WithholdingRate,
	}
}

// FromInput snapshots a calculator input into a fresh record for the period.
func FromInput(companyID string, year, month int, in payrolldomain.EmployeeInput) EmployeeRecord {
	return EmployeeRecord{
		CompanyID:           companyID,
		Year:                year,
		Month:               month,
		Matricule:           in.Matricule,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		ResidencyCountry:    in.ResidencyCountry,
		BaseSalaryCents:     in.BaseSalaryCents,
		BaseHours:           in.BaseHours,
		OvertimeHours125:    in.OvertimeHours125,
		OvertimeHours150:    in.OvertimeHours150,
		HolidayHours:        in.HolidayHours,
		SundayHours:         in.SundayHours,
		AbsenceHours:        in.AbsenceHours,
		AbsenceType:         in.AbsenceType,
		PremiumCents:        in.PremiumCents,
		PremiumType:         in.PremiumType,
		BenefitsInKindCents: in.BenefitsInKindCents,
		TicketCount:         in.TicketCount,
		PTODaysTaken:        in.PTODaysTaken,
		Remark:              in.Remark,
		ExitDate:            in.ExitDate,
		WithholdingRate:     in.WithholdingRate,
	}
}

// ApplyPayslip copies the computed aggregates onto the record.
func (r *EmployeeRecord) ApplyPayslip(slip payrolldomain.Payslip, hoursWorked float64) {
	r.GrossCents = slip.GrossCents
	r.NetCents = slip.NetCents
	r.TotalSalarialCents = slip.TotalSalarialCents
	r.TotalPatronalCents = slip.TotalPatronalCents
	r.EmployerCostCents = slip.EmployerCostCents
	r.HoursWorked = hoursWorked
	r.IsValid = slip.IsValid
	r.Issues = strings.Join(slip.Issues, "\n")
}

// IssueList splits the stored issue text back into individual issues.
func (r EmployeeRecord) IssueList() []string {
	if r.Issues == "" {
		return nil
	}
	return strings.Split(r.Issues, "\n")
}

// PreviousPeriod returns the period immediately before year/month,
// rolling January back to December of the prior year.
func PreviousPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// Store loads and saves whole company periods.
type Store interface {
	// LoadPeriod returns the records of a period, empty when none exist.
	LoadPeriod(ctx context.Context, companyID string, year, month int) ([]EmployeeRecord, error)
	// SavePeriod replaces the period's records atomically.
	SavePeriod(ctx context.Context, companyID string, year, month int, records []EmployeeRecord) error
}
