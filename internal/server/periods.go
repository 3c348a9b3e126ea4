package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	"github.com/rivierasoft/monapaie/internal/providers/pdf"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
)

type savePeriodRequest struct {
	Employees []employeeInputRequest `json:"employees" binding:"required"`
}

type periodRecordResponse struct {
	Matricule        string `json:"matricule"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	ResidencyCountry string `json:"residency_country"`

	GrossCents         int64   `json:"gross_cents"`
	NetCents           int64   `json:"net_cents"`
	TotalSalarialCents int64   `json:"total_salarial_cents"`
	TotalPatronalCents int64   `json:"total_patronal_cents"`
	EmployerCostCents  int64   `json:"employer_cost_cents"`
	HoursWorked        float64 `json:"hours_worked"`

	IsValid  bool     `json:"is_valid"`
	Issues   []string `json:"issues,omitempty"`
	EdgeCase bool     `json:"edge_case"`
}

func toPeriodRecordResponse(rec perioddomain.EmployeeRecord) periodRecordResponse {
	return periodRecordResponse{
		Matricule:          rec.Matricule,
		FirstName:          rec.FirstName,
		LastName:           rec.LastName,
		ResidencyCountry:   rec.ResidencyCountry,
		GrossCents:         rec.GrossCents,
		NetCents:           rec.NetCents,
		TotalSalarialCents: rec.TotalSalarialCents,
		TotalPatronalCents: rec.TotalPatronalCents,
		EmployerCostCents:  rec.EmployerCostCents,
		HoursWorked:        rec.HoursWorked,
		IsValid:            rec.IsValid,
		Issues:             rec.IssueList(),
		EdgeCase:           rec.EdgeCase,
	}
}

func periodParams(c *gin.Context) (string, int, int, error) {
	companyID := c.Param("companyID")
	if companyID == "" {
		return "", 0, 0, newValidationError("companyID", "invalid_company", "company id is required")
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		return "", 0, 0, newValidationError("year", "invalid_year", "year must be a four digit year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return "", 0, 0, newValidationError("month", "invalid_month", "month must be 1..12")
	}
	return companyID, year, month, nil
}

// computeOne runs the full gross-to-net pipeline for a single employee:
// compute, soft-validate, then apply the residency overlay.
func (s *Server) computeOne(c *gin.Context, input payrolldomain.EmployeeInput, schedule ratescheduledomain.RateSchedule) payrolldomain.Payslip {
	slip := s.calculator.ComputePayslip(input, schedule)
	slip.IsValid, slip.Issues = s.calculator.Validate(input, slip)
	slip = s.adjuster.Adjust(slip, input)
	s.metrics.RecordPayslipComputed(c.Request.Context(), input.ResidencyCountry)
	return slip
}

// SavePeriod computes payslips for a whole company month and replaces the
// stored period with the results.
func (s *Server) SavePeriod(c *gin.Context) {
	companyID, year, month, err := periodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req savePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	schedule, err := s.schedules.ScheduleForYear(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records := make([]perioddomain.EmployeeRecord, 0, len(req.Employees))
	invalidCount := 0
	for _, employee := range req.Employees {
		input := employee.toDomain()
		slip := s.computeOne(c, input, schedule)

		rec := perioddomain.FromInput(companyID, year, month, input)
		rec.ApplyPayslip(slip, input.Normalized().WorkedHours())
		if !rec.IsValid {
			invalidCount++
		}
		records = append(records, rec)
	}

	if err := s.periods.SavePeriod(c.Request.Context(), companyID, year, month, records); err != nil {
		AbortWithError(c, err)
		return
	}

	responses := make([]periodRecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toPeriodRecordResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"company_id":    companyID,
			"year":          year,
			"month":         month,
			"employees":     responses,
			"invalid_count": invalidCount,
		},
	})
}

func (s *Server) GetPeriod(c *gin.Context) {
	companyID, year, month, err := periodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.periods.LoadPeriod(c.Request.Context(), companyID, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	responses := make([]periodRecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toPeriodRecordResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// ReviewPeriod runs the edge-case agent over the stored period, persists
// automatic corrections and returns the run report with its narrative.
func (s *Server) ReviewPeriod(c *gin.Context) {
	companyID, year, month, err := periodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.periods.LoadPeriod(c.Request.Context(), companyID, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	outcomes, err := s.reviewer.Review(c.Request.Context(), companyID, year, month, records)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report := s.reports.Build(companyID, year, month, outcomes)

	reviewed := make([]perioddomain.EmployeeRecord, 0, len(outcomes))
	for _, out := range outcomes {
		reviewed = append(reviewed, out.Record)
	}
	if err := s.periods.SavePeriod(c.Request.Context(), companyID, year, month, reviewed); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"report":    report,
			"narrative": s.reports.RenderNarrative(report),
		},
	})
}

// GetReviewReportPDF re-runs the edge-case agent over the stored period and
// streams the rendered narrative. Unlike ReviewPeriod nothing is persisted,
// so the document can be pulled repeatedly while corrections are debated.
func (s *Server) GetReviewReportPDF(c *gin.Context) {
	companyID, year, month, err := periodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.periods.LoadPeriod(c.Request.Context(), companyID, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(records) == 0 {
		AbortWithError(c, ErrNotFound)
		return
	}

	outcomes, err := s.reviewer.Review(c.Request.Context(), companyID, year, month, records)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report := s.reports.Build(companyID, year, month, outcomes)
	data := pdf.ReviewReportData{
		Title:     fmt.Sprintf("Edge case review %s %04d-%02d", companyID, year, month),
		Narrative: s.reports.RenderNarrative(report),
	}

	reader, err := s.pdfProvider.GenerateReviewReport(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", doc)
}

// GetPayslipPDF recomputes one employee's payslip from the stored snapshot
// and streams the rendered document.
func (s *Server) GetPayslipPDF(c *gin.Context) {
	companyID, year, month, err := periodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	matricule := c.Param("matricule")

	records, err := s.periods.LoadPeriod(c.Request.Context(), companyID, year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var found *perioddomain.EmployeeRecord
	for i := range records {
		if records[i].Matricule == matricule {
			found = &records[i]
			break
		}
	}
	if found == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	schedule, err := s.schedules.ScheduleForYear(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	input := found.Input()
	slip := s.computeOne(c, input, schedule)

	data := pdf.BuildPayslipData(companyID, year, month, input, slip, schedule)
	reader, err := s.pdfProvider.GeneratePayslip(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", doc)
}
