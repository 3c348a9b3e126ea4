package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	agentdomain "github.com/rivierasoft/monapaie/internal/agent/domain"
	"github.com/rivierasoft/monapaie/internal/config"
	"github.com/rivierasoft/monapaie/internal/observability"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	remarkdomain "github.com/rivierasoft/monapaie/internal/remark/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	dataEntryConfidence = 0.98
	prorateConfidence   = 0.90

	extraZeroRatioMin   = 9.5
	extraZeroRatioMax   = 10.5
	missingZeroRatioMin = 0.095
	missingZeroRatioMax = 0.105
)

// monitoredField adapts one record field to the generic ratio and anomaly
// checks. Money fields hold cents and are rounded after scaling.
type monitoredField struct {
	name  string
	money bool
	get   func(*perioddomain.EmployeeRecord) float64
	set   func(*perioddomain.EmployeeRecord, float64)
}

var monitoredFields = []monitoredField{
	{
		name: agentdomain.FieldGross, money: true,
		get: func(r *perioddomain.EmployeeRecord) float64 { return float64(r.GrossCents) },
		set: func(r *perioddomain.EmployeeRecord, v float64) { r.GrossCents = roundMoney(v) },
	},
	{
		name: agentdomain.FieldNet, money: true,
		get: func(r *perioddomain.EmployeeRecord) float64 { return float64(r.NetCents) },
		set: func(r *perioddomain.EmployeeRecord, v float64) { r.NetCents = roundMoney(v) },
	},
	{
		name: agentdomain.FieldTotalSalarial, money: true,
		get: func(r *perioddomain.EmployeeRecord) float64 { return float64(r.TotalSalarialCents) },
		set: func(r *perioddomain.EmployeeRecord, v float64) { r.TotalSalarialCents = roundMoney(v) },
	},
	{
		name: agentdomain.FieldTotalPatronal, money: true,
		get: func(r *perioddomain.EmployeeRecord) float64 { return float64(r.TotalPatronalCents) },
		set: func(r *perioddomain.EmployeeRecord, v float64) { r.TotalPatronalCents = roundMoney(v) },
	},
	{
		name: agentdomain.FieldHoursWorked,
		get:  func(r *perioddomain.EmployeeRecord) float64 { return r.HoursWorked },
		set:  func(r *perioddomain.EmployeeRecord, v float64) { r.HoursWorked = v },
	},
	{
		name: agentdomain.FieldBaseHours,
		get:  func(r *perioddomain.EmployeeRecord) float64 { return r.BaseHours },
		set:  func(r *perioddomain.EmployeeRecord, v float64) { r.BaseHours = v },
	},
}

// prorateFields are the money fields scaled by the worked-day fraction.
var prorateFields = monitoredFields[:4]

type Service struct {
	log        *zap.Logger
	holder     *config.PayrollConfigHolder
	store      perioddomain.Store
	classifier remarkdomain.Classifier
	metrics    *observability.Metrics
}

type Param struct {
	fx.In

	Log        *zap.Logger
	Holder     *config.PayrollConfigHolder
	Store      perioddomain.Store
	Classifier remarkdomain.Classifier
	Metrics    *observability.Metrics `optional:"true"`
}

func NewService(p Param) agentdomain.Reviewer {
	return &Service{
		log:        p.Log.Named("agent.service"),
		holder:     p.Holder,
		store:      p.Store,
		classifier: p.Classifier,
		metrics:    p.Metrics,
	}
}

func (s *Service) Review(ctx context.Context, companyID string, year, month int, current []perioddomain.EmployeeRecord) ([]agentdomain.Outcome, error) {
	prevYear, prevMonth := perioddomain.PreviousPeriod(year, month)
	previous, err := s.store.LoadPeriod(ctx, companyID, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	prevByMatricule := make(map[string]perioddomain.EmployeeRecord, len(previous))
	for _, rec := range previous {
		prevByMatricule[rec.Matricule] = rec
	}

	cfg := s.holder.Current()

	outcomes := make([]agentdomain.Outcome, len(current))
	if len(current) == 0 {
		return outcomes, nil
	}

	workers := cfg.ReviewWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(current) {
		workers = len(current)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := current[i]
				var prev *perioddomain.EmployeeRecord
				if p, ok := prevByMatricule[rec.Matricule]; ok {
					prev = &p
				}
				outcomes[i] = s.reviewOne(ctx, cfg, rec, prev)
			}
		}()
	}

submit:
	for i := range current {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Info("period reviewed",
		zap.String("company_id", companyID),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("employees", len(current)),
		zap.Int("previous_employees", len(previous)),
	)
	return outcomes, nil
}

// reviewOne runs the full per-employee pipeline. A panic anywhere inside
// passes the record through unmodified instead of aborting the batch.
func (s *Service) reviewOne(ctx context.Context, cfg config.PayrollConfig, rec perioddomain.EmployeeRecord, prev *perioddomain.EmployeeRecord) (out agentdomain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("employee review failed",
				zap.String("matricule", rec.Matricule),
				zap.Any("panic", r),
			)
			out = agentdomain.Outcome{Record: rec, Failed: true}
		}
	}()

	out = agentdomain.Outcome{Record: rec}
	cls := s.classifier.Classify(rec.Remark)

	s.checkProrate(ctx, cfg, cls, &out)
	if cls.HasBonus {
		s.flag(ctx, &out, agentdomain.FlaggedCase{
			Matricule: rec.Matricule,
			Reason:    agentdomain.FlagBonusVerification,
			Detail:    rec.Remark,
		})
	}
	if prev != nil {
		s.checkDataEntry(ctx, cfg, prev, &out)
		s.checkAnomalies(ctx, cfg, cls, prev, &out)
	}

	out.Record.EdgeCase = len(out.Modifications) > 0 || len(out.FlaggedCases) > 0 || len(out.Anomalies) > 0
	return out
}

// checkProrate proposes worked-day proration for new hires, departures and
// explicit prorate remarks. Proposals carry confidence 0.90 and stay staged;
// without an extractable day the case is flagged instead.
func (s *Service) checkProrate(ctx context.Context, cfg config.PayrollConfig, cls remarkdomain.Classification, out *agentdomain.Outcome) {
	isNewHire := cls.Type == remarkdomain.TypeNewHire
	isDeparture := cls.Type == remarkdomain.TypeDeparture
	if !isNewHire && !isDeparture && !cls.HasProrate {
		return
	}

	day := cls.Day
	if day == nil && isDeparture && out.Record.ExitDate != nil {
		d := out.Record.ExitDate.Day()
		day = &d
	}
	if day == nil {
		s.flag(ctx, out, agentdomain.FlaggedCase{
			Matricule: out.Record.Matricule,
			Reason:    agentdomain.FlagProrateNoDay,
			Detail:    out.Record.Remark,
		})
		return
	}

	daysPerMonth := cfg.WorkingDaysPerMonth
	var workedDays int
	if isNewHire {
		workedDays = daysPerMonth - *day + 1
	} else {
		workedDays = *day
	}
	if workedDays > daysPerMonth {
		workedDays = daysPerMonth
	}
	if workedDays < 0 {
		workedDays = 0
	}
	factor := float64(workedDays) / float64(daysPerMonth)

	automatic := prorateConfidence >= cfg.AutoConfidence
	for _, field := range prorateFields {
		old := field.get(&out.Record)
		if old <= 0 {
			continue
		}
		scaled := float64(roundMoney(old * factor))
		if math.Abs(old-scaled)/old <= cfg.ProrateMinDeltaPct {
			continue
		}
		mod := agentdomain.Modification{
			Matricule:  out.Record.Matricule,
			Field:      field.name,
			OldValue:   old,
			NewValue:   scaled,
			Reason:     agentdomain.ReasonProrate,
			Confidence: prorateConfidence,
			Automatic:  automatic,
		}
		if automatic {
			field.set(&out.Record, scaled)
		}
		out.Modifications = append(out.Modifications, mod)
		s.metrics.RecordCorrection(ctx, field.name, automatic)
	}
}

// checkDataEntry catches decimal-shift typos against the previous period.
// A tenfold swing in either direction is corrected in place.
func (s *Service) checkDataEntry(ctx context.Context, cfg config.PayrollConfig, prev *perioddomain.EmployeeRecord, out *agentdomain.Outcome) {
	automatic := dataEntryConfidence >= cfg.AutoConfidence
	for _, field := range monitoredFields {
		prevVal := field.get(prev)
		if prevVal == 0 {
			continue
		}
		cur := field.get(&out.Record)
		ratio := cur / prevVal

		var corrected float64
		var reason string
		switch {
		case ratio >= extraZeroRatioMin && ratio <= extraZeroRatioMax:
			corrected = cur / 10
			reason = agentdomain.ReasonExtraZero
		case ratio >= missingZeroRatioMin && ratio <= missingZeroRatioMax:
			corrected = cur * 10
			reason = agentdomain.ReasonMissingZero
		default:
			continue
		}
		if field.money {
			corrected = float64(roundMoney(corrected))
		}

		mod := agentdomain.Modification{
			Matricule:  out.Record.Matricule,
			Field:      field.name,
			OldValue:   cur,
			NewValue:   corrected,
			Reason:     reason,
			Confidence: dataEntryConfidence,
			Automatic:  automatic,
		}
		if automatic {
			field.set(&out.Record, corrected)
		}
		out.Modifications = append(out.Modifications, mod)
		s.metrics.RecordCorrection(ctx, field.name, automatic)
	}
}

// checkAnomalies runs after corrections so a fixed decimal shift does not
// also count as an unexplained swing.
func (s *Service) checkAnomalies(ctx context.Context, cfg config.PayrollConfig, cls remarkdomain.Classification, prev *perioddomain.EmployeeRecord, out *agentdomain.Outcome) {
	if cls.Type.Explains() {
		return
	}
	for _, field := range monitoredFields {
		prevVal := field.get(prev)
		if prevVal == 0 {
			continue
		}
		cur := field.get(&out.Record)
		pct := math.Abs(cur-prevVal) / math.Abs(prevVal)
		if pct <= cfg.AnomalyThreshold {
			continue
		}

		out.Anomalies = append(out.Anomalies, agentdomain.Anomaly{
			Matricule:     out.Record.Matricule,
			Field:         field.name,
			PreviousValue: prevVal,
			CurrentValue:  cur,
			PctChange:     pct,
		})
		s.metrics.RecordAnomaly(ctx, field.name)
		s.flag(ctx, out, agentdomain.FlaggedCase{
			Matricule: out.Record.Matricule,
			Reason:    agentdomain.FlagUnexplainedChange,
			Detail:    fmt.Sprintf("%s moved %.1f%% against previous period", field.name, pct*100),
		})
	}
}

func (s *Service) flag(ctx context.Context, out *agentdomain.Outcome, fc agentdomain.FlaggedCase) {
	out.FlaggedCases = append(out.FlaggedCases, fc)
	s.metrics.RecordFlaggedCase(ctx, fc.Reason)
}

func roundMoney(raw float64) int64 {
	if raw >= 0 {
		return int64(math.Floor(raw + 0.5))
	}
	return int64(math.Ceil(raw - 0.5))
}
