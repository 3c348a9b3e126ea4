package service

import (
	"github.com/rivierasoft/monapaie/internal/config"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	holder *config.PayrollConfigHolder
}

type Param struct {
	fx.In

	Log    *zap.Logger
	Holder *config.PayrollConfigHolder
}

func NewService(p Param) payrolldomain.Calculator {
	return &Service{
		log:    p.Log.Named("payroll.service"),
		holder: p.Holder,
	}
}

func (s *Service) SplitTranches(grossCents int64, schedule ratescheduledomain.RateSchedule) payrolldomain.TrancheBases {
	return SplitTranches(grossCents, schedule)
}

func (s *Service) ComputeCharges(
	grossCents int64,
	bases payrolldomain.TrancheBases,
	schedule ratescheduledomain.RateSchedule,
	side ratescheduledomain.Side,
) map[string]int64 {
	return ComputeCharges(grossCents, bases, schedule, side)
}

func (s *Service) ComputePayslip(input payrolldomain.EmployeeInput, schedule ratescheduledomain.RateSchedule) payrolldomain.Payslip {
	return ComputePayslip(input, schedule, s.holder.Current())
}

func (s *Service) Validate(input payrolldomain.EmployeeInput, slip payrolldomain.Payslip) (bool, []string) {
	return Validate(input, slip, s.holder.Current())
}
