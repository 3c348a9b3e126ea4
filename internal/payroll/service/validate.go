package service

import (
	"github.com/rivierasoft/monapaie/internal/config"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
)

// Validate applies the threshold rules to a computed payslip. Every rule is
// evaluated; issues accumulate instead of short-circuiting. No side effects.
func Validate(
	input payrolldomain.EmployeeInput,
	slip payrolldomain.Payslip,
	cfg config.PayrollConfig,
) (bool, []string) {
	var issues []string

	minimumWage := roundMoney(float64(cfg.SMICHourlyCents) * cfg.StandardMonthlyHours)
	if slip.GrossCents < minimumWage {
		issues = append(issues, payrolldomain.IssueBelowMinimumWage)
	}

	if slip.GrossCents > cfg.HighGrossCents {
		issues = append(issues, payrolldomain.IssueUnusuallyHigh)
	}

	if input.OvertimeHours125+input.OvertimeHours150 > cfg.MaxOvertimeHours {
		issues = append(issues, payrolldomain.IssueExcessiveOvertime)
	}

	if input.AbsenceHours > cfg.MaxAbsenceHours {
		issues = append(issues, payrolldomain.IssueExcessiveAbsence)
	}

	if slip.GrossCents > 0 {
		ratio := float64(slip.TotalSalarialCents) / float64(slip.GrossCents)
		if ratio < cfg.ChargeRatioMin || ratio > cfg.ChargeRatioMax {
			issues = append(issues, payrolldomain.IssueAbnormalRatio)
		}
	}

	if input.ExitDate != nil {
		issues = append(issues, payrolldomain.IssueDepartingEmployee)
	}

	return len(issues) == 0, issues
}
