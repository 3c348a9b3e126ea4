package pdf

import (
	"testing"

	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayslipData(t *testing.T) {
	schedule := ratescheduledomain.Defaults2024()
	input := payrolldomain.EmployeeInput{
		Matricule:        "M001",
		FirstName:        "Anna",
		LastName:         "Rossi",
		ResidencyCountry: payrolldomain.CountryFrance,
	}
	slip := payrolldomain.Payslip{
		Matricule:  "M001",
		GrossCents: 350_000,
		SalarialByCode: map[string]int64{
			ratescheduledomain.CodeCAR: 23_975,
			"CSG_DEDUCTIBLE":           23_384,
		},
		PatronalByCode: map[string]int64{
			ratescheduledomain.CodeCAR:  29_225,
			ratescheduledomain.CodeCMRC: 18_270,
		},
		TotalSalarialCents: 47_359,
		TotalPatronalCents: 47_495,
		NetCents:           302_641,
		EmployerCostCents:  397_495,
		WithholdingCents:   7_333,
		IsValid:            true,
	}

	data := BuildPayslipData("Riviera Soft SAM", 2024, 3, input, slip, schedule)

	assert.Equal(t, "2024-03", data.Period)
	assert.Equal(t, "Anna Rossi", data.EmployeeName)
	assert.Equal(t, "3500.00", data.Gross)
	assert.Equal(t, "3026.41", data.Net)
	assert.Equal(t, "73.33", data.Withholding)

	// schedule codes first, overlay codes appended
	require.Len(t, data.Lines, len(schedule.Lines)+1)
	assert.Equal(t, ratescheduledomain.CodeCAR, data.Lines[0].Code)
	assert.Equal(t, "6.85%", data.Lines[0].SalarialRate)
	assert.Equal(t, "239.75", data.Lines[0].SalarialAmount)

	last := data.Lines[len(data.Lines)-1]
	assert.Equal(t, "CSG_DEDUCTIBLE", last.Code)
	assert.Equal(t, "233.84", last.SalarialAmount)
	assert.Empty(t, last.PatronalAmount)

	// CCSS has no employer side
	assert.Equal(t, ratescheduledomain.CodeCCSS, data.Lines[1].Code)
	assert.Empty(t, data.Lines[1].PatronalRate)
}
