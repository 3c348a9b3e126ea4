package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	payslipsComputed   metric.Int64Counter
	correctionsApplied metric.Int64Counter
	correctionsStaged  metric.Int64Counter
	anomalies          metric.Int64Counter
	flaggedCases       metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "monapaie"
	}
	meter := provider.Meter(name)

	payslipsComputed, err := meter.Int64Counter("monapaie_payslips_computed_total")
	if err != nil {
		return nil, err
	}
	correctionsApplied, err := meter.Int64Counter("monapaie_corrections_applied_total")
	if err != nil {
		return nil, err
	}
	correctionsStaged, err := meter.Int64Counter("monapaie_corrections_staged_total")
	if err != nil {
		return nil, err
	}
	anomalies, err := meter.Int64Counter("monapaie_anomalies_total")
	if err != nil {
		return nil, err
	}
	flaggedCases, err := meter.Int64Counter("monapaie_flagged_cases_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		payslipsComputed:   payslipsComputed,
		correctionsApplied: correctionsApplied,
		correctionsStaged:  correctionsStaged,
		anomalies:          anomalies,
		flaggedCases:       flaggedCases,
	}, nil
}

// RecordPayslipComputed increments computed payslip counts.
func (m *Metrics) RecordPayslipComputed(ctx context.Context, residency string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("residency", strings.TrimSpace(residency)))
	m.payslipsComputed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCorrection increments applied or staged correction counts.
func (m *Metrics) RecordCorrection(ctx context.Context, field string, automatic bool) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("field", strings.TrimSpace(field)))
	if automatic {
		m.correctionsApplied.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}
	m.correctionsStaged.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAnomaly increments anomaly counts.
func (m *Metrics) RecordAnomaly(ctx context.Context, field string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("field", strings.TrimSpace(field)))
	m.anomalies.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordFlaggedCase increments flagged case counts.
func (m *Metrics) RecordFlaggedCase(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.flaggedCases.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"residency": {},
	"field":     {},
	"reason":    {},
	"endpoint":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
