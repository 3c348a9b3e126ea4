package service

import (
	"math"

	crossborderdomain "github.com/rivierasoft/monapaie/internal/crossborder/domain"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger
}

type Param struct {
	fx.In

	Log *zap.Logger
}

func NewService(p Param) crossborderdomain.Adjuster {
	return &Service{log: p.Log.Named("crossborder.service")}
}

// Adjust applies the residency overlay. Monaco residents pass through
// untouched; the returned payslip is always a fresh value.
func (s *Service) Adjust(slip payrolldomain.Payslip, input payrolldomain.EmployeeInput) payrolldomain.Payslip {
	switch input.ResidencyCountry {
	case payrolldomain.CountryFrance:
		return adjustFrance(slip, input.WithholdingRate)
	case payrolldomain.CountryItaly:
		return adjustItaly(slip)
	default:
		return slip
	}
}

func adjustFrance(slip payrolldomain.Payslip, personalizedRate *float64) payrolldomain.Payslip {
	out := slip.Clone()

	csgBase := float64(out.GrossCents) * crossborderdomain.CSGBaseFactor
	csgDeductible := roundMoney(csgBase * crossborderdomain.CSGDeductibleRate / 100)
	csgNonDeductible := roundMoney(csgBase * crossborderdomain.CSGNonDeductibleRate / 100)
	crds := roundMoney(csgBase * crossborderdomain.CRDSRate / 100)

	out.SalarialByCode[crossborderdomain.CodeCSGDeductible] = csgDeductible
	out.SalarialByCode[crossborderdomain.CodeCSGNonDeductible] = csgNonDeductible
	out.SalarialByCode[crossborderdomain.CodeCRDS] = crds
	totalCSGCRDS := csgDeductible + csgNonDeductible + crds
	out.TotalSalarialCents += totalCSGCRDS

	// prelevement a la source on the taxable net, before CSG/CRDS
	taxable := slip.GrossCents - slip.TotalSalarialCents
	if taxable < 0 {
		taxable = 0
	}
	var withholding int64
	if personalizedRate != nil {
		withholding = roundMoney(float64(taxable) * *personalizedRate)
	} else {
		withholding = roundMoney(float64(taxable) * neutralRate(taxable))
	}
	out.WithholdingCents = withholding

	out.NetCents = slip.NetCents - totalCSGCRDS - withholding
	return out
}

func adjustItaly(slip payrolldomain.Payslip) payrolldomain.Payslip {
	out := slip.Clone()

	withholding := roundMoney(float64(out.GrossCents) * crossborderdomain.ItalyWithholdingRate / 100)
	out.WithholdingCents = withholding
	out.NetCents = slip.NetCents - withholding
	return out
}

func roundMoney(raw float64) int64 {
	if raw < 0 {
		return -int64(math.Floor(-raw + 0.5))
	}
	return int64(math.Floor(raw + 0.5))
}
