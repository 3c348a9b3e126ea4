// Package domain defines the gross-to-net payroll value types.
package domain

import "time"

// AbsenceType drives whether absence hours are deducted from gross.
type AbsenceType string

const (
	AbsenceUnpaid           AbsenceType = "unpaid"
	AbsenceUnjustified      AbsenceType = "unjustified"
	AbsenceMaintainedSalary AbsenceType = "maintained_salary"
	AbsencePaidLeave        AbsenceType = "paid_leave"
)

// Deducts reports whether hours of this type reduce gross pay.
func (t AbsenceType) Deducts() bool {
	return t != AbsenceMaintainedSalary && t != AbsencePaidLeave
}

// Residency country codes used by the cross-border overlay.
const (
	CountryMonaco = "MC"
	CountryFrance = "FR"
	CountryItaly  = "IT"
)

// EmployeeInput is the immutable per-period snapshot the calculators consume.
// Money fields are cents, hour fields are decimal hours.
type EmployeeInput struct {
	Matricule        string
	FirstName        string
	LastName         string
	ResidencyCountry string

	BaseSalaryCents  int64
	BaseHours        float64
	OvertimeHours125 float64
	OvertimeHours150 float64
	HolidayHours     float64
	SundayHours      float64

	AbsenceHours float64
	AbsenceType  AbsenceType

	PremiumCents        int64
	PremiumType         string
	BenefitsInKindCents int64
	TicketCount         int
	PTODaysTaken        float64

	Remark   string
	ExitDate *time.Time

	// WithholdingRate is the personalized French source-withholding rate,
	// a fraction. Nil means the neutral band grid applies.
	WithholdingRate *float64
}

// Normalized returns a copy with invalid numeric fields defaulted to zero.
// Missing or negative values never fail a payslip.
func (e EmployeeInput) Normalized() EmployeeInput {
	out := e
	out.BaseSalaryCents = maxInt64(out.BaseSalaryCents, 0)
	out.BaseHours = maxFloat(out.BaseHours, 0)
	out.OvertimeHours125 = maxFloat(out.OvertimeHours125, 0)
	out.OvertimeHours150 = maxFloat(out.OvertimeHours150, 0)
	out.HolidayHours = maxFloat(out.HolidayHours, 0)
	out.SundayHours = maxFloat(out.SundayHours, 0)
	out.AbsenceHours = maxFloat(out.AbsenceHours, 0)
	out.PremiumCents = maxInt64(out.PremiumCents, 0)
	out.BenefitsInKindCents = maxInt64(out.BenefitsInKindCents, 0)
	if out.TicketCount < 0 {
		out.TicketCount = 0
	}
	out.PTODaysTaken = maxFloat(out.PTODaysTaken, 0)
	return out
}

// WorkedHours is the effective hour count monitored by the review agent.
func (e EmployeeInput) WorkedHours() float64 {
	worked := e.BaseHours + e.OvertimeHours125 + e.OvertimeHours150 + e.HolidayHours + e.SundayHours
	if e.AbsenceType.Deducts() {
		worked -= e.AbsenceHours
	}
	if worked < 0 {
		return 0
	}
	return worked
}

// TrancheBases are the contribution bases derived from gross pay.
type TrancheBases struct {
	T1Cents    int64
	T2Cents    int64
	TotalCents int64
}

// Payslip is the computed result for one employee and one period. Recomputing
// from the same input yields an identical value; there is no partial mutation.
type Payslip struct {
	Matricule string

	GrossCents int64

	SalarialByCode map[string]int64
	PatronalByCode map[string]int64

	TotalSalarialCents int64
	TotalPatronalCents int64

	TicketSalarialCents int64
	TicketPatronalCents int64

	// WithholdingCents is source withholding added by the cross-border
	// overlay; zero for Monaco residents.
	WithholdingCents int64

	NetCents          int64
	EmployerCostCents int64

	IsValid bool
	Issues  []string
}

// Clone returns a deep copy so overlays never alias the original maps.
func (p Payslip) Clone() Payslip {
	out := p
	out.SalarialByCode = make(map[string]int64, len(p.SalarialByCode))
	for code, amount := range p.SalarialByCode {
		out.SalarialByCode[code] = amount
	}
	out.PatronalByCode = make(map[string]int64, len(p.PatronalByCode))
	for code, amount := range p.PatronalByCode {
		out.PatronalByCode[code] = amount
	}
	out.Issues = append([]string(nil), p.Issues...)
	return out
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
