package crossborder

import (
	"github.com/rivierasoft/monapaie/internal/crossborder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("crossborder.service",
	fx.Provide(service.NewService),
)
