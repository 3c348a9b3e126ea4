package payroll

import (
	"github.com/rivierasoft/monapaie/internal/payroll/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payroll.service",
	fx.Provide(service.NewService),
)
