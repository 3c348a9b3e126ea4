package period

import (
	"github.com/rivierasoft/monapaie/internal/period/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("period.repository",
	fx.Provide(
		repository.NewRepository,
	),
)
