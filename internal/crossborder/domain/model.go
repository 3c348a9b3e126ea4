// Package domain defines the cross-border tax overlay applied to payslips of
// residents outside Monaco.
package domain

import (
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
)

// Charge codes added by the French overlay. They print on the payslip next to
// the Monaco rubrics, do not rename.
const (
	CodeCSGDeductible    = "CSG_DEDUCTIBLE"
	CodeCSGNonDeductible = "CSG_NON_DEDUCTIBLE"
	CodeCRDS             = "CRDS"
)

// French CSG/CRDS parameters (2024).
const (
	CSGBaseFactor         = 0.9825 // abattement: 98.25% of gross
	CSGDeductibleRate     = 6.80
	CSGNonDeductibleRate  = 2.40
	CRDSRate              = 0.50
	ItalyWithholdingRate  = 15.0 // flat frontalier withholding, percent of gross
)

// Adjuster post-processes a computed payslip for non-Monaco residents. It is
// a pure function of the payslip and the input's residency and withholding
// rate; it never re-derives the Monaco charges.
type Adjuster interface {
	Adjust(slip payrolldomain.Payslip, input payrolldomain.EmployeeInput) payrolldomain.Payslip
}
