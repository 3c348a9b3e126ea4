package agent

import (
	"github.com/rivierasoft/monapaie/internal/agent/service"
	"go.uber.org/fx"
)

var Module = fx.Module("agent.service",
	fx.Provide(
		service.NewService,
	),
)
