package observability

import (
	"github.com/rivierasoft/monapaie/internal/config"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

func provideConfig(appCfg config.Config) Config {
	return Config{
		Enabled:          appCfg.OtelEnabled,
		ExporterEndpoint: appCfg.OtelExporterEndpoint,
		ExporterProtocol: appCfg.OtelExporterProtocol,
		ServiceName:      appCfg.AppName,
		Environment:      appCfg.Environment,
	}
}

var Module = fx.Module("observability",
	fx.Provide(
		provideConfig,
		NewProvider,
		NewTracerProvider,
		New,
	),
	fx.Invoke(ensureTracerProvider),
)

func ensureTracerProvider(_ trace.TracerProvider) {}
