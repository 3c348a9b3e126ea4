// Package domain defines structured classifications of free-text payroll
// remarks.
package domain

// Type is the primary event a remark describes.
type Type string

const (
	TypeNone         Type = "none"
	TypeNewHire      Type = "new_hire"
	TypeDeparture    Type = "departure"
	TypeSalaryChange Type = "salary_change"
	TypeBonus        Type = "bonus"
	TypeUnpaidLeave  Type = "unpaid_leave"
	TypeProrate      Type = "prorate"
)

// Explains reports whether a remark of this type accounts for a
// month-over-month variation, suppressing anomaly detection.
func (t Type) Explains() bool {
	switch t {
	case TypeNewHire, TypeDeparture, TypeSalaryChange, TypeBonus:
		return true
	default:
		return false
	}
}

// Classification is the structured result for one remark. Bonus and prorate
// are layered on top of the primary type when both appear in the same text.
type Classification struct {
	Type       Type
	Day        *int // extracted day of month, when present
	HasBonus   bool
	HasProrate bool
	Raw        string
}

// Classifier turns a free-text remark into a Classification. Pure function
// of the text; the pattern order is a documented contract.
type Classifier interface {
	Classify(text string) Classification
}
