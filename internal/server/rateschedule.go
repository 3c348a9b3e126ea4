package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	ratescheduledomain "github.com/rivierasoft/monapaie/internal/rateschedule/domain"
)

type rateScheduleLineResponse struct {
	Code         string  `json:"code"`
	SalarialRate float64 `json:"salarial_rate"`
	PatronalRate float64 `json:"patronal_rate"`
	Tranche      string  `json:"tranche"`
}

type rateScheduleResponse struct {
	Year           int                        `json:"year"`
	CeilingT1Cents int64                      `json:"ceiling_t1_cents"`
	CeilingT2Cents int64                      `json:"ceiling_t2_cents"`
	Lines          []rateScheduleLineResponse `json:"lines"`
}

func (s *Server) GetRateSchedule(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		AbortWithError(c, ratescheduledomain.ErrInvalidYear)
		return
	}

	schedule, err := s.schedules.ScheduleForYear(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := rateScheduleResponse{
		Year:           schedule.Year,
		CeilingT1Cents: schedule.CeilingT1Cents,
		CeilingT2Cents: schedule.CeilingT2Cents,
	}
	for _, line := range schedule.Lines {
		resp.Lines = append(resp.Lines, rateScheduleLineResponse{
			Code:         line.Code,
			SalarialRate: line.SalarialRate,
			PatronalRate: line.PatronalRate,
			Tranche:      string(line.Tranche),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
