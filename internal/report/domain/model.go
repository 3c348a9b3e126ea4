// Package domain defines the edge-case run report.
package domain

import (
	"time"

	agentdomain "github.com/rivierasoft/monapaie/internal/agent/domain"
)

// EdgeCaseReport aggregates one review run over a company period.
type EdgeCaseReport struct {
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	GeneratedAt time.Time `json:"generated_at"`

	ProcessedCount int `json:"processed_count"`
	AutomaticCount int `json:"automatic_count"`
	StagedCount    int `json:"staged_count"`
	FlaggedCount   int `json:"flagged_count"`
	AnomalyCount   int `json:"anomaly_count"`
	FailedCount    int `json:"failed_count"`

	Modifications    []agentdomain.Modification `json:"modifications"`
	FlaggedCases     []agentdomain.FlaggedCase  `json:"flagged_cases"`
	Anomalies        []agentdomain.Anomaly      `json:"anomalies"`
	FailedMatricules []string                   `json:"failed_matricules,omitempty"`
}

// Builder reduces per-employee outcomes into a report plus a narrative
// rendering that keeps automatic corrections apart from staged proposals.
type Builder interface {
	Build(companyID string, year, month int, outcomes []agentdomain.Outcome) EdgeCaseReport
	RenderNarrative(report EdgeCaseReport) string
}
