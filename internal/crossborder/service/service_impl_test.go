package service

import (
	"testing"

	crossborderdomain "github.com/rivierasoft/monapaie/internal/crossborder/domain"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAdjuster() crossborderdomain.Adjuster {
	return &Service{log: zap.NewNop()}
}

func baseSlip() payrolldomain.Payslip {
	return payrolldomain.Payslip{
		Matricule:          "X001",
		GrossCents:         350_000,
		SalarialByCode:     map[string]int64{"CAR": 23_975},
		PatronalByCode:     map[string]int64{"CAR": 29_225},
		TotalSalarialCents: 140_483,
		TotalPatronalCents: 147_885,
		NetCents:           209_517,
		EmployerCostCents:  497_885,
	}
}

func TestAdjust_MonacoResidentPassesThrough(t *testing.T) {
	adjuster := newTestAdjuster()
	slip := baseSlip()

	out := adjuster.Adjust(slip, payrolldomain.EmployeeInput{ResidencyCountry: payrolldomain.CountryMonaco})

	assert.Equal(t, slip, out)
}

func TestAdjust_FranceNeutralRate(t *testing.T) {
	adjuster := newTestAdjuster()
	slip := baseSlip()

	out := adjuster.Adjust(slip, payrolldomain.EmployeeInput{ResidencyCountry: payrolldomain.CountryFrance})

	// CSG base: 3,500.00 x 98.25% = 3,438.75
	assert.Equal(t, int64(23_384), out.SalarialByCode[crossborderdomain.CodeCSGDeductible])
	assert.Equal(t, int64(8_253), out.SalarialByCode[crossborderdomain.CodeCSGNonDeductible])
	assert.Equal(t, int64(1_719), out.SalarialByCode[crossborderdomain.CodeCRDS])
	assert.Equal(t, slip.TotalSalarialCents+33_356, out.TotalSalarialCents)

	// taxable net 2,095.17 falls in the 3.5% neutral band
	assert.Equal(t, int64(7_333), out.WithholdingCents)
	assert.Equal(t, slip.NetCents-33_356-7_333, out.NetCents)

	// the Monaco charges are not re-derived
	assert.Equal(t, slip.SalarialByCode["CAR"], out.SalarialByCode["CAR"])
	assert.Equal(t, slip.GrossCents, out.GrossCents)
}

func TestAdjust_FrancePersonalizedRate(t *testing.T) {
	adjuster := newTestAdjuster()
	slip := baseSlip()
	rate := 0.062

	out := adjuster.Adjust(slip, payrolldomain.EmployeeInput{
		ResidencyCountry: payrolldomain.CountryFrance,
		WithholdingRate:  &rate,
	})

	// 2,095.17 x 6.2% = 129.90
	assert.Equal(t, int64(12_990), out.WithholdingCents)
}

func TestAdjust_ItalyFlatWithholding(t *testing.T) {
	adjuster := newTestAdjuster()
	slip := baseSlip()

	out := adjuster.Adjust(slip, payrolldomain.EmployeeInput{ResidencyCountry: payrolldomain.CountryItaly})

	// flat 15% of gross
	assert.Equal(t, int64(52_500), out.WithholdingCents)
	assert.Equal(t, slip.NetCents-52_500, out.NetCents)
	// no CSG lines for Italy
	_, ok := out.SalarialByCode[crossborderdomain.CodeCSGDeductible]
	assert.False(t, ok)
}

func TestAdjust_DoesNotMutateInput(t *testing.T) {
	adjuster := newTestAdjuster()
	slip := baseSlip()

	_ = adjuster.Adjust(slip, payrolldomain.EmployeeInput{ResidencyCountry: payrolldomain.CountryFrance})

	require.Equal(t, baseSlip(), slip)
}

func TestNeutralRate_Bands(t *testing.T) {
	tests := []struct {
		taxableCents int64
		want         float64
	}{
		{taxableCents: 100_000, want: 0},
		{taxableCents: 159_100, want: 0},
		{taxableCents: 159_101, want: 0.005},
		{taxableCents: 300_000, want: 0.075},
		{taxableCents: 6_000_000, want: 0.43},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, neutralRate(tt.taxableCents))
	}
}
