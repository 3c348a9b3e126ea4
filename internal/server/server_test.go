package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	agentservice "github.com/rivierasoft/monapaie/internal/agent/service"
	"github.com/rivierasoft/monapaie/internal/clock"
	"github.com/rivierasoft/monapaie/internal/config"
	crossborderservice "github.com/rivierasoft/monapaie/internal/crossborder/service"
	payrollservice "github.com/rivierasoft/monapaie/internal/payroll/service"
	perioddomain "github.com/rivierasoft/monapaie/internal/period/domain"
	periodrepository "github.com/rivierasoft/monapaie/internal/period/repository"
	"github.com/rivierasoft/monapaie/internal/providers/pdf"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
	raterepository "github.com/rivierasoft/monapaie/internal/rateschedule/repository"
	rateservice "github.com/rivierasoft/monapaie/internal/rateschedule/service"
	remarkservice "github.com/rivierasoft/monapaie/internal/remark/service"
	reportservice "github.com/rivierasoft/monapaie/internal/report/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*gin.Engine, perioddomain.Store) {
	return newTestServerWithPDF(t, pdf.New())
}

func newTestServerWithPDF(t *testing.T, provider pdf.Provider) (*gin.Engine, perioddomain.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ratescheduledomain.ContributionRate{},
		&ratescheduledomain.PeriodCeiling{},
		&perioddomain.EmployeeRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	holder := config.NewStaticPayrollConfigHolder(config.DefaultPayrollConfig())

	rateRepo := raterepository.NewRepository(raterepository.Param{In: fx.In{}, DB: db, GenID: node})
	schedules := rateservice.NewService(rateservice.Param{In: fx.In{}, Log: log, Repository: rateRepo})
	periods := periodrepository.NewRepository(periodrepository.Param{In: fx.In{}, DB: db, GenID: node})
	calculator := payrollservice.NewService(payrollservice.Param{In: fx.In{}, Log: log, Holder: holder})
	adjuster := crossborderservice.NewService(crossborderservice.Param{In: fx.In{}, Log: log})
	classifier := remarkservice.NewService(remarkservice.Param{In: fx.In{}, Log: log})
	reviewer := agentservice.NewService(agentservice.Param{
		In: fx.In{}, Log: log, Holder: holder, Store: periods, Classifier: classifier,
	})
	reports := reportservice.NewService(reportservice.Param{
		In: fx.In{}, Log: log, Clock: clock.NewFakeClock(time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)),
	})

	srv := NewServer(ServerParams{
		In:          fx.In{},
		Cfg:         config.Config{HTTPAddr: ":0"},
		Log:         log,
		Calculator:  calculator,
		Adjuster:    adjuster,
		Schedules:   schedules,
		Periods:     periods,
		Reviewer:    reviewer,
		Reports:     reports,
		PDFProvider: provider,
	})

	r := NewEngine(log)
	srv.RegisterRoutes(r)
	return r, periods
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPreviewPayslip(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/payslips/preview", gin.H{
		"year":  2024,
		"month": 3,
		"employee": gin.H{
			"matricule":         "M001",
			"base_salary_cents": 350_000,
			"base_hours":        169,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			GrossCents         int64            `json:"gross_cents"`
			NetCents           int64            `json:"net_cents"`
			TotalSalarialCents int64            `json:"total_salarial_cents"`
			SalarialByCode     map[string]int64 `json:"salarial_by_code"`
			IsValid            bool             `json:"is_valid"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(350_000), resp.Data.GrossCents)
	assert.Equal(t, int64(23_975), resp.Data.SalarialByCode["CAR"])
	assert.Equal(t, resp.Data.GrossCents-resp.Data.TotalSalarialCents, resp.Data.NetCents)
	assert.True(t, resp.Data.IsValid)
}

func TestPreviewPayslipUnknownYear(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/payslips/preview", gin.H{
		"year":  2019,
		"month": 3,
		"employee": gin.H{
			"matricule":         "M001",
			"base_salary_cents": 350_000,
			"base_hours":        169,
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewPayslipBadRequest(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/v1/payslips/preview", gin.H{"year": 2024})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveAndGetPeriod(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/3", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "base_salary_cents": 350_000, "base_hours": 169},
			{"matricule": "M002", "base_salary_cents": 150_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var saved struct {
		Data struct {
			Employees    []periodRecordResponse `json:"employees"`
			InvalidCount int                    `json:"invalid_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.Len(t, saved.Data.Employees, 2)
	// 1500.00 gross is below the SMIC floor
	assert.Equal(t, 1, saved.Data.InvalidCount)

	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Data []periodRecordResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data, 2)
	assert.Equal(t, "M001", got.Data[0].Matricule)
	assert.Equal(t, int64(350_000), got.Data[0].GrossCents)
	assert.False(t, got.Data[1].IsValid)
}

func TestSavePeriodInvalidMonth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/13", gin.H{
		"employees": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewPeriod(t *testing.T) {
	r, _ := newTestServer(t)

	// February baseline, March with a decimal-shift typo
	w := doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/2", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "base_salary_cents": 350_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/3", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "base_salary_cents": 3_500_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/companies/co_1/periods/2024/3/review", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Report struct {
				ProcessedCount int `json:"processed_count"`
				AutomaticCount int `json:"automatic_count"`
			} `json:"report"`
			Narrative string `json:"narrative"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Report.ProcessedCount)
	assert.Greater(t, resp.Data.Report.AutomaticCount, 0)
	assert.Contains(t, resp.Data.Narrative, "Applied automatically")

	// automatic corrections were written back
	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data []periodRecordResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data, 1)
	assert.Equal(t, int64(350_000), got.Data[0].GrossCents)
	assert.True(t, got.Data[0].EdgeCase)
}

func TestGetPayslipPDF(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/3", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "first_name": "Anna", "last_name": "Rossi", "base_salary_cents": 350_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3/payslips/M001/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")), "expected a PDF payload")
}

func TestGetReviewReportPDF(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/2", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "base_salary_cents": 350_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/3", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "base_salary_cents": 3_500_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3/review/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")), "expected a PDF payload")

	// rendering the report must not persist the review outcome
	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data []periodRecordResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data, 1)
	assert.Equal(t, int64(3_500_000), got.Data[0].GrossCents)
}

func TestGetReviewReportPDFEmptyPeriod(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3/review/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPDFEndpointsWithNoOpProvider(t *testing.T) {
	r, _ := newTestServerWithPDF(t, &pdf.NoOpProvider{})

	w := doJSON(t, r, http.MethodPut, "/v1/companies/co_1/periods/2024/3", gin.H{
		"employees": []gin.H{
			{"matricule": "M001", "base_salary_cents": 350_000, "base_hours": 169},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3/payslips/M001/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3/review/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestGetPayslipPDFUnknownMatricule(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/companies/co_1/periods/2024/3/payslips/NOPE/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRateSchedule(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/v1/rate-schedules/2024", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data rateScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.Data.Year)
	assert.Equal(t, int64(342_800), resp.Data.CeilingT1Cents)
	assert.Len(t, resp.Data.Lines, 10)

	w = doJSON(t, r, http.MethodGet, "/v1/rate-schedules/1999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`, w.Body.String())
}

func TestFrenchResidentPreviewCarriesWithholding(t *testing.T) {
	r, _ := newTestServer(t)

	rate := 0.062
	w := doJSON(t, r, http.MethodPost, "/v1/payslips/preview", gin.H{
		"year":  2024,
		"month": 3,
		"employee": gin.H{
			"matricule":         "M010",
			"residency_country": "FR",
			"base_salary_cents": 350_000,
			"base_hours":        169,
			"withholding_rate":  rate,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data payslipResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Data.WithholdingCents, int64(0))
	_, hasCSG := resp.Data.SalarialByCode["CSG_DEDUCTIBLE"]
	assert.True(t, hasCSG, fmt.Sprintf("expected CSG line, got %v", resp.Data.SalarialByCode))
}
