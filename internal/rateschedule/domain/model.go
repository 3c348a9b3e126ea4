// Package domain holds the per-year contribution rate tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tranche selects which contribution base a code applies to.
type Tranche string

const (
	TrancheNone Tranche = "none" // full gross
	TrancheT1   Tranche = "t1"   // capped at the T1 ceiling
	TrancheT2   Tranche = "t2"   // T1 + T2 band
)

// Side distinguishes employee-side from employer-side contributions.
type Side string

const (
	SideSalarial Side = "salarial"
	SidePatronal Side = "patronal"
)

// Monaco contribution codes. These are ENGINE-CONSTANTS: they appear on
// printed payslips and in the regulatory export, do not rename.
const (
	CodeCAR                = "CAR"
	CodeCCSS               = "CCSS"
	CodeAssedicT1          = "ASSEDIC_T1"
	CodeAssedicT2          = "ASSEDIC_T2"
	CodeRetraiteCompT1     = "RETRAITE_COMP_T1"
	CodeRetraiteCompT2     = "RETRAITE_COMP_T2"
	CodeEquilibreTech      = "CONTRIB_EQUILIBRE_TECH"
	CodeEquilibreGeneralT1 = "CONTRIB_EQUILIBRE_GEN_T1"
	CodeEquilibreGeneralT2 = "CONTRIB_EQUILIBRE_GEN_T2"
	CodeCMRC               = "CMRC"
)

// ContributionLine is one rubric of the yearly schedule. A zero rate means
// the side does not contribute under that code.
type ContributionLine struct {
	Code         string
	SalarialRate float64 // percent, up to 4 decimals
	PatronalRate float64
	Tranche      Tranche
}

// RateSchedule is the immutable per-year table threaded through every
// calculator call. Construct once per batch, never mutate.
type RateSchedule struct {
	Year           int
	CeilingT1Cents int64
	CeilingT2Cents int64
	Lines          []ContributionLine
}

// Rate returns the percentage for the given side.
func (l ContributionLine) Rate(side Side) float64 {
	if side == SidePatronal {
		return l.PatronalRate
	}
	return l.SalarialRate
}

// Defaults2024 returns the built-in 2024 table.
func Defaults2024() RateSchedule {
	return RateSchedule{
		Year:           2024,
		CeilingT1Cents: 342_800,
		CeilingT2Cents: 1_371_200,
		Lines: []ContributionLine{
			{Code: CodeCAR, SalarialRate: 6.85, PatronalRate: 8.35, Tranche: TrancheNone},
			{Code: CodeCCSS, SalarialRate: 14.75, PatronalRate: 0, Tranche: TrancheNone},
			{Code: CodeAssedicT1, SalarialRate: 2.40, PatronalRate: 4.05, Tranche: TrancheT1},
			{Code: CodeAssedicT2, SalarialRate: 2.40, PatronalRate: 4.05, Tranche: TrancheT2},
			{Code: CodeRetraiteCompT1, SalarialRate: 3.15, PatronalRate: 4.72, Tranche: TrancheT1},
			{Code: CodeRetraiteCompT2, SalarialRate: 8.64, PatronalRate: 12.95, Tranche: TrancheT2},
			{Code: CodeEquilibreTech, SalarialRate: 0.14, PatronalRate: 0.21, Tranche: TrancheNone},
			{Code: CodeEquilibreGeneralT1, SalarialRate: 0.86, PatronalRate: 1.29, Tranche: TrancheT1},
			{Code: CodeEquilibreGeneralT2, SalarialRate: 1.08, PatronalRate: 1.62, Tranche: TrancheT2},
			{Code: CodeCMRC, SalarialRate: 0, PatronalRate: 5.22, Tranche: TrancheNone},
		},
	}
}

// ContributionRate is the persisted form of one schedule line.
type ContributionRate struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Year         int          `gorm:"not null;uniqueIndex:idx_contribution_rates_year_code"`
	Code         string       `gorm:"type:text;not null;uniqueIndex:idx_contribution_rates_year_code"`
	SalarialRate float64      `gorm:"type:numeric(8,4);not null"`
	PatronalRate float64      `gorm:"type:numeric(8,4);not null"`
	Tranche      Tranche      `gorm:"type:text;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ContributionRate) TableName() string { return "contribution_rates" }

// PeriodCeiling stores the monthly tranche ceilings for a year.
type PeriodCeiling struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	Year           int          `gorm:"not null;uniqueIndex"`
	CeilingT1Cents int64        `gorm:"not null"`
	CeilingT2Cents int64        `gorm:"not null"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PeriodCeiling) TableName() string { return "period_ceilings" }
