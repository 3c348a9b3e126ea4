package remark

import (
	"github.com/rivierasoft/monapaie/internal/remark/service"
	"go.uber.org/fx"
)

var Module = fx.Module("remark.service",
	fx.Provide(
		service.NewService,
	),
)
