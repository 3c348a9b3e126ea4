// Package server exposes the payroll engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	agentdomain "github.com/rivierasoft/monapaie/internal/agent/domain"
	"github.com/rivierasoft/monapaie/internal/config"
	crossborderdomain "github.com/rivierasoft/monapaie/internal/crossborder/domain"
	"github.com/rivierasoft/monapaie/internal/observability"
	payrolldomain "github.com/rivierasoft/monapaie/internal/payroll/domain"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	"github.com/rivierasoft/monapaie/internal/providers/pdf"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	reportdomain "github.com/rivierasoft/monapaie/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(
		NewServer,
		registerGin,
	),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.TracingMiddleware())
	r.Use(observability.GinMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(s *Server, log *zap.Logger) *gin.Engine {
	r := NewEngine(log)
	s.RegisterRoutes(r)
	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	calculator  payrolldomain.Calculator
	adjuster    crossborderdomain.Adjuster
	schedules   ratescheduledomain.Service
	periods     perioddomain.Store
	reviewer    agentdomain.Reviewer
	reports     reportdomain.Builder
	pdfProvider pdf.Provider
	metrics     *observability.Metrics
}

type ServerParams struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	Calculator  payrolldomain.Calculator
	Adjuster    crossborderdomain.Adjuster
	Schedules   ratescheduledomain.Service
	Periods     perioddomain.Store
	Reviewer    agentdomain.Reviewer
	Reports     reportdomain.Builder
	PDFProvider pdf.Provider
	Metrics     *observability.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		calculator:  p.Calculator,
		adjuster:    p.Adjuster,
		schedules:   p.Schedules,
		periods:     p.Periods,
		reviewer:    p.Reviewer,
		reports:     p.Reports,
		pdfProvider: p.PDFProvider,
		metrics:     p.Metrics,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/v1")

	v1.POST("/payslips/preview", s.PreviewPayslip)
	v1.GET("/rate-schedules/:year", s.GetRateSchedule)

	companies := v1.Group("/companies/:companyID")
	companies.PUT("/periods/:year/:month", s.SavePeriod)
	companies.GET("/periods/:year/:month", s.GetPeriod)
	companies.POST("/periods/:year/:month/review", s.ReviewPeriod)
	companies.GET("/periods/:year/:month/review/pdf", s.GetReviewReportPDF)
	companies.GET("/periods/:year/:month/payslips/:matricule/pdf", s.GetPayslipPDF)
}
