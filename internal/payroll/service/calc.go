package service

import (
	"math"

	"github.com/rivierasoft/monapaie/internal/config"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
)

// SplitTranches derives the T1/T2 contribution bases from gross pay.
// Caller contract: grossCents >= 0.
func SplitTranches(grossCents int64, schedule ratescheduledomain.RateSchedule) payrolldomain.TrancheBases {
	t1 := grossCents
	if t1 > schedule.CeilingT1Cents {
		t1 = schedule.CeilingT1Cents
	}

	t2 := grossCents - schedule.CeilingT1Cents
	if t2 < 0 {
		t2 = 0
	}
	if band := schedule.CeilingT2Cents - schedule.CeilingT1Cents; t2 > band {
		t2 = band
	}

	return payrolldomain.TrancheBases{
		T1Cents:    t1,
		T2Cents:    t2,
		TotalCents: grossCents,
	}
}

// ComputeCharges applies the schedule percentages for one side. Rounding is
// per code, never on the aggregate, so totals match the printed line items.
func ComputeCharges(
	grossCents int64,
	bases payrolldomain.TrancheBases,
	schedule ratescheduledomain.RateSchedule,
	side ratescheduledomain.Side,
) map[string]int64 {
	charges := make(map[string]int64, len(schedule.Lines))
	for _, line := range schedule.Lines {
		rate := line.Rate(side)
		if rate == 0 {
			continue
		}

		var base int64
		switch line.Tranche {
		case ratescheduledomain.TrancheT1:
			base = bases.T1Cents
		case ratescheduledomain.TrancheT2:
			base = bases.T1Cents + bases.T2Cents
		default:
			base = grossCents
		}

		charges[line.Code] = roundMoney(float64(base) * rate / 100)
	}
	return charges
}

// ComputePayslip builds the full payslip for one employee. Each pay component
// is rounded to the cent independently before summation.
func ComputePayslip(
	input payrolldomain.EmployeeInput,
	schedule ratescheduledomain.RateSchedule,
	cfg config.PayrollConfig,
) payrolldomain.Payslip {
	in := input.Normalized()

	var hourlyRate float64
	if in.BaseHours > 0 {
		hourlyRate = float64(in.BaseSalaryCents) / in.BaseHours
	}

	overtime125 := roundMoney(in.OvertimeHours125 * hourlyRate * 1.25)
	overtime150 := roundMoney(in.OvertimeHours150 * hourlyRate * 1.50)
	holidayPay := roundMoney(in.HolidayHours * hourlyRate * 2.0)
	sundayPay := roundMoney(in.SundayHours * hourlyRate * 2.0)

	var absenceDeduction int64
	if in.AbsenceType.Deducts() {
		absenceDeduction = roundMoney(in.AbsenceHours * hourlyRate)
	}

	ptoIndemnity := roundMoney(float64(in.BaseSalaryCents) / 30 * in.PTODaysTaken)

	ticketValue := int64(in.TicketCount) * cfg.TicketUnitCents
	ticketPatronal := roundMoney(float64(ticketValue) * cfg.TicketPatronalShare)
	ticketSalarial := ticketValue - ticketPatronal

	gross := in.BaseSalaryCents +
		overtime125 + overtime150 +
		holidayPay + sundayPay +
		in.PremiumCents +
		in.BenefitsInKindCents +
		ptoIndemnity -
		absenceDeduction

	chargeBase := gross
	if chargeBase < 0 {
		chargeBase = 0
	}

	bases := SplitTranches(chargeBase, schedule)
	salarial := ComputeCharges(chargeBase, bases, schedule, ratescheduledomain.SideSalarial)
	patronal := ComputeCharges(chargeBase, bases, schedule, ratescheduledomain.SidePatronal)

	totalSalarial := sumCharges(salarial)
	totalPatronal := sumCharges(patronal)

	return payrolldomain.Payslip{
		Matricule:           in.Matricule,
		GrossCents:          gross,
		SalarialByCode:      salarial,
		PatronalByCode:      patronal,
		TotalSalarialCents:  totalSalarial,
		TotalPatronalCents:  totalPatronal,
		TicketSalarialCents: ticketSalarial,
		TicketPatronalCents: ticketPatronal,
		NetCents:            gross - totalSalarial - ticketSalarial,
		EmployerCostCents:   gross + totalPatronal + ticketPatronal,
	}
}

func sumCharges(charges map[string]int64) int64 {
	var total int64
	for _, amount := range charges {
		total += amount
	}
	return total
}

// roundMoney rounds a raw cent amount half away from zero.
func roundMoney(raw float64) int64 {
	if raw < 0 {
		return -int64(math.Floor(-raw + 0.5))
	}
	return int64(math.Floor(raw + 0.5))
}
