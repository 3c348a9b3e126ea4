// Package pdf renders payslips and review reports with maroto.
package pdf

import (
	"bytes"
	"context"
	"io"

	"go.uber.org/fx"
)

type Provider interface {
	GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error)
	GenerateReviewReport(ctx context.Context, data ReviewReportData) (io.Reader, error)
}

// NoOpProvider renders empty documents; it stands in for the maroto provider
// where rendering is disabled or irrelevant.
type NoOpProvider struct{}

func (p *NoOpProvider) GeneratePayslip(ctx context.Context, data PayslipData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}

func (p *NoOpProvider) GenerateReviewReport(ctx context.Context, data ReviewReportData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
