package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
)

type employeeInputRequest struct {
	Matricule        string `json:"matricule" binding:"required"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ResidencyCountry string `json:"residency_country"`

	BaseSalaryCents  int64   `json:"base_salary_cents"`
	BaseHours        float64 `json:"base_hours"`
	OvertimeHours125 float64 `json:"overtime_hours_125"`
	OvertimeHours150 float64 `json:"overtime_hours_150"`
	HolidayHours     float64 `json:"holiday_hours"`
	SundayHours      float64 `json:"sunday_hours"`

	AbsenceHours float64 `json:"absence_hours"`
	AbsenceType  string  `json:"absence_type"`

	PremiumCents        int64   `json:"premium_cents"`
	PremiumType         string  `json:"premium_type"`
	BenefitsInKindCents int64   `json:"benefits_in_kind_cents"`
	TicketCount         int     `json:"ticket_count"`
	PTODaysTaken        float64 `json:"pto_days_taken"`

	Remark          string     `json:"remark"`
	ExitDate        *time.Time `json:"exit_date"`
	WithholdingRate *float64   `json:"withholding_rate"`
}

func (r employeeInputRequest) toDomain() payrolldomain.EmployeeInput {
	residency := r.ResidencyCountry
	if residency == "" {
		residency = payrolldomain.CountryMonaco
	}
	return payrolldomain.EmployeeInput{
		Matricule:           r.Matricule,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		ResidencyCountry:    residency,
		BaseSalaryCents:     r.BaseSalaryCents,
		BaseHours:           r.BaseHours,
		OvertimeHours125:    r.OvertimeHours125,
		OvertimeHours150:    r.OvertimeHours150,
		HolidayHours:        r.HolidayHours,
		SundayHours:         r.SundayHours,
		AbsenceHours:        r.AbsenceHours,
		AbsenceType:         payrolldomain.AbsenceType(r.AbsenceType),
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

type payslipResponse struct {
	Matricule string `json:"matricule"`

	GrossCents int64 `json:"gross_cents"`

	SalarialByCode map[string]int64 `json:"salarial_by_code"`
	PatronalByCode map[string]int64 `json:"patronal_by_code"`

	TotalSalarialCents int64 `json:"total_salarial_cents"`
	TotalPatronalCents int64 `json:"total_patronal_cents"`

	TicketSalarialCents int64 `json:"ticket_salarial_cents"`
	TicketPatronalCents int64 `json:"ticket_patronal_cents"`

	WithholdingCents int64 `json:"withholding_cents"`

	NetCents          int64 `json:"net_cents"`
	EmployerCostCents int64 `json:"employer_cost_cents"`

	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues,omitempty"`
}

func toPayslipResponse(slip payrolldomain.Payslip) payslipResponse {
	return payslipResponse{
		Matricule:           slip.Matricule,
		GrossCents:          slip.GrossCents,
		SalarialByCode:      slip.SalarialByCode,
		PatronalByCode:      slip.PatronalByCode,
		TotalSalarialCents:  slip.TotalSalarialCents,
		TotalPatronalCents:  slip.TotalPatronalCents,
		TicketSalarialCents: slip.TicketSalarialCents,
		TicketPatronalCents: slip.TicketPatronalCents,
		WithholdingCents:    slip.WithholdingCents,
		NetCents:            slip.NetCents,
		EmployerCostCents:   slip.EmployerCostCents,
		IsValid:             slip.IsValid,
		Issues:              slip.Issues,
	}
}

type previewPayslipRequest struct {
	Year     int                  `json:"year" binding:"required"`
	Month    int                  `json:"month" binding:"required"`
	Employee employeeInputRequest `json:"employee" binding:"required"`
}

// PreviewPayslip computes a payslip without persisting anything.
func (s *Server) PreviewPayslip(c *gin.Context) {
	var req previewPayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		AbortWithError(c, newValidationError("month", "invalid_month", "month must be 1..12"))
		return
	}

	schedule, err := s.schedules.ScheduleForYear(c.Request.Context(), req.Year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	input := req.Employee.toDomain()
	slip := s.computeOne(c, input, schedule)

	c.JSON(http.StatusOK, gin.H{"data": toPayslipResponse(slip)})
}
