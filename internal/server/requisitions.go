package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
)

func (s *Server) getRequisitionsLatest(c *gin.Context) {
	respondCached(s, c, "reporting:requisitions:latest", func(ctx context.Context) (reportdomain.RequisitionsReport, error) {
		return s.query.RequisitionsLatest(ctx)
	})
}

func (s *Server) getRequisitionsTrend(c *gin.Context) {
	months, err := parseMonths(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCached(s, c, fmt.Sprintf("reporting:requisitions:trend:%d", months), func(ctx context.Context) (reportdomain.TrendReport, error) {
		return s.query.RequisitionsTrend(ctx, months)
	})
}
