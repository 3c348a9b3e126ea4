package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	agentdomain "github.com/rivierasoft/monapaie/internal/agent/domain"
	"github.com/rivierasoft/monapaie/internal/clock"
	reportdomain "github.com/rivierasoft/monapaie/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	clock clock.Clock
}

type Param struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
}

func NewService(p Param) reportdomain.Builder {
	return &Service{
		log:   p.Log.Named("report.service"),
		clock: p.Clock,
	}
}

func (s *Service) Build(companyID string, year, month int, outcomes []agentdomain.Outcome) reportdomain.EdgeCaseReport {
	report := reportdomain.EdgeCaseReport{
		RunID:       uuid.NewString(),
		CompanyID:   companyID,
		Year:        year,
		Month:       month,
		GeneratedAt: s.clock.Now(),

		ProcessedCount: len(outcomes),
	}

	for _, out := range outcomes {
		if out.Failed {
			report.FailedCount++
			report.FailedMatricules = append(report.FailedMatricules, out.Record.Matricule)
			continue
		}
		for _, mod := range out.Modifications {
			if mod.Automatic {
				report.AutomaticCount++
			} else {
				report.StagedCount++
			}
			report.Modifications = append(report.Modifications, mod)
		}
		report.FlaggedCount += len(out.FlaggedCases)
		report.FlaggedCases = append(report.FlaggedCases, out.FlaggedCases...)
		report.AnomalyCount += len(out.Anomalies)
		report.Anomalies = append(report.Anomalies, out.Anomalies...)
	}
	return report
}

// RenderNarrative writes the human summary. Applied corrections and staged
// proposals are kept in separate sections so a reviewer never mistakes a
// low-confidence heuristic for a finalized value.
func (s *Service) RenderNarrative(report reportdomain.EdgeCaseReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Edge-case review %s for company %s, period %04d-%02d\n",
		report.RunID, report.CompanyID, report.Year, report.Month)
	fmt.Fprintf(&b, "Processed %d employees: %d automatic corrections, %d staged proposals, %d flagged cases, %d anomalies",
		report.ProcessedCount, report.AutomaticCount, report.StagedCount, report.FlaggedCount, report.AnomalyCount)
	if report.FailedCount > 0 {
		fmt.Fprintf(&b, ", %d failed", report.FailedCount)
	}
	b.WriteString("\n")

	automatic := make([]agentdomain.Modification, 0, len(report.Modifications))
	staged := make([]agentdomain.Modification, 0, len(report.Modifications))
	for _, mod := range report.Modifications {
		if mod.Automatic {
			automatic = append(automatic, mod)
		} else {
			staged = append(staged, mod)
		}
	}

	if len(automatic) > 0 {
		b.WriteString("\nApplied automatically:\n")
		for _, mod := range automatic {
			fmt.Fprintf(&b, "  - %s %s: %s -> %s (%s, confidence %.2f)\n",
				mod.Matricule, mod.Field,
				formatValue(mod.Field, mod.OldValue), formatValue(mod.Field, mod.NewValue),
				mod.Reason, mod.Confidence)
		}
	}

	if len(staged) > 0 {
		b.WriteString("\nNEEDS REVIEW, not applied:\n")
		for _, mod := range staged {
			fmt.Fprintf(&b, "  - %s %s: %s -> %s proposed (%s, confidence %.2f)\n",
				mod.Matricule, mod.Field,
				formatValue(mod.Field, mod.OldValue), formatValue(mod.Field, mod.NewValue),
				mod.Reason, mod.Confidence)
		}
	}

	if len(report.FlaggedCases) > 0 {
		b.WriteString("\nFlagged for a human:\n")
		for _, fc := range report.FlaggedCases {
			if fc.Detail != "" {
				fmt.Fprintf(&b, "  - %s: %s (%s)\n", fc.Matricule, fc.Reason, fc.Detail)
			} else {
				fmt.Fprintf(&b, "  - %s: %s\n", fc.Matricule, fc.Reason)
			}
		}
	}

	if len(report.Anomalies) > 0 {
		b.WriteString("\nUnexplained swings:\n")
		for _, a := range report.Anomalies {
			fmt.Fprintf(&b, "  - %s %s: %s -> %s (%.1f%%)\n",
				a.Matricule, a.Field,
				formatValue(a.Field, a.PreviousValue), formatValue(a.Field, a.CurrentValue),
				a.PctChange*100)
		}
	}

	if len(report.FailedMatricules) > 0 {
		b.WriteString("\nPassed through unmodified after a pipeline failure:\n")
		for _, m := range report.FailedMatricules {
			fmt.Fprintf(&b, "  - %s\n", m)
		}
	}

	return b.String()
}

var moneyFields = map[string]struct{}{
	agentdomain.FieldGross:         {},
	agentdomain.FieldNet:           {},
	agentdomain.FieldTotalSalarial: {},
	agentdomain.FieldTotalPatronal: {},
}

// formatValue prints cents as euros and hour fields as plain decimals.
func formatValue(field string, v float64) string {
	if _, ok := moneyFields[field]; ok {
		return fmt.Sprintf("%.2f EUR", v/100)
	}
	return fmt.Sprintf("%.2f", v)
}
