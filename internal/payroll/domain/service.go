package domain

import (
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
)

// Validation issue texts surfaced to reviewers.
const (
	IssueBelowMinimumWage  = "below minimum wage"
	IssueUnusuallyHigh     = "unusually high salary"
	IssueExcessiveOvertime = "excessive overtime"
	IssueExcessiveAbsence  = "excessive absence"
	IssueAbnormalRatio     = "abnormal charge ratio"
	IssueDepartingEmployee = "departing employee: prorate review"
)

// Calculator is the pure gross-to-net engine. Every method is deterministic
// for identical inputs and never blocks on I/O.
type Calculator interface {
	SplitTranches(grossCents int64, schedule ratescheduledomain.RateSchedule) TrancheBases
	ComputeCharges(grossCents int64, bases TrancheBases, schedule ratescheduledomain.RateSchedule, side ratescheduledomain.Side) map[string]int64
	ComputePayslip(input EmployeeInput, schedule ratescheduledomain.RateSchedule) Payslip
	Validate(input EmployeeInput, slip Payslip) (bool, []string)
}
