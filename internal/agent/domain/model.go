// Package domain defines the edge-case review primitives.
package domain

import (
	"context"

	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
)

// Monitored field names. They appear verbatim in modifications, anomalies
// and report narratives.
const (
	FieldGross         = "gross"
	FieldNet           = "net"
	FieldTotalSalarial = "total_salarial"
	FieldTotalPatronal = "total_patronal"
	FieldHoursWorked   = "hours_worked"
	FieldBaseHours     = "base_hours"
)

// Modification reasons.
const (
	ReasonExtraZero   = "extra zero"
	ReasonMissingZero = "missing zero"
	ReasonProrate     = "prorate worked days"
)

// FlaggedCase reasons.
const (
	FlagBonusVerification = "bonus amount verification"
	FlagProrateNoDay      = "prorate review without extractable day"
	FlagUnexplainedChange = "unexplained change"
)

// Modification is one proposed or applied field correction. Automatic
// modifications are written back to the outgoing record; the rest stay
// staged until a reviewer confirms them.
type Modification struct {
	Matricule  string  `json:"matricule"`
	Field      string  `json:"field"`
	OldValue   float64 `json:"old_value"`
	NewValue   float64 `json:"new_value"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
	Automatic  bool    `json:"automatic"`
}

// FlaggedCase asks a human to look at one employee.
type FlaggedCase struct {
	Matricule string `json:"matricule"`
	Reason    string `json:"reason"`
	Detail    string `json:"detail,omitempty"`
}

// Anomaly is an unexplained period-over-period swing on a monitored field.
type Anomaly struct {
	Matricule     string  `json:"matricule"`
	Field         string  `json:"field"`
	PreviousValue float64 `json:"previous_value"`
	CurrentValue  float64 `json:"current_value"`
	PctChange     float64 `json:"pct_change"`
}

// Outcome is the review result for a single employee. Record carries any
// automatic corrections; staged modifications are NOT reflected in it.
type Outcome struct {
	Record        perioddomain.EmployeeRecord
	Modifications []Modification
	FlaggedCases  []FlaggedCase
	Anomalies     []Anomaly

	// Failed marks an employee whose pipeline panicked or errored. The
	// record passed through unmodified.
	Failed bool
}

// Reviewer runs the edge-case pipeline over a period batch. It loads the
// immediately preceding period once per run; a missing previous period
// skips the comparison steps without error.
type Reviewer interface {
	Review(ctx context.Context, companyID string, year, month int, current []perioddomain.EmployeeRecord) ([]Outcome, error)
}
