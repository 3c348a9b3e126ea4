package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/rivierasoft/monapaie/internal/agent"
	"github.com/rivierasoft/monapaie/internal/clock"
	"github.com/rivierasoft/monapaie/internal/config"
	"github.com/rivierasoft/monapaie/internal/crossborder"
	"github.com/rivierasoft/monapaie/internal/logger"
	"github.com/rivierasoft/monapaie/internal/migration"
	"github.com/rivierasoft/monapaie/internal/observability"
	"github.com/rivierasoft/monapaie/internal/payroll"
	"github.com/rivierasoft/monapaie/internal/period"
	"github.com/rivierasoft/monapaie/internal/providers/pdf"
	"github.com/rivierasoft/monapaie/internal/rateschedule"
	"github.com/rivierasoft/monapaie/internal/remark"
	"github.com/rivierasoft/monapaie/internal/report"
	"github.com/rivierasoft/monapaie/internal/server"
	"github.com/rivierasoft/monapaie/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,

		// payroll domains
		rateschedule.Module,
		payroll.Module,
		crossborder.Module,
		remark.Module,
		period.Module,
		agent.Module,
		report.Module,
		pdf.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
