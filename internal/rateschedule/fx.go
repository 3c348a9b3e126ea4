package rateschedule

import (
	"github.com/rivierasoft/monapaie/internal/rateschedule/repository"
	"github.com/rivierasoft/monapaie/internal/rateschedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rateschedule.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
