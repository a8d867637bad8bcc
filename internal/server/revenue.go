package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
)

func (s *Server) getRevenueLatest(c *gin.Context) {
	respondCached(s, c, "reporting:revenue:latest", func(ctx context.Context) (reportdomain.LatestReport, error) {
		return s.query.RevenueLatest(ctx)
	})
}

func (s *Server) getRevenueTrend(c *gin.Context) {
	months, err := parseMonths(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCached(s, c, fmt.Sprintf("reporting:revenue:trend:%d", months), func(ctx context.Context) (reportdomain.TrendReport, error) {
		return s.query.RevenueTrend(ctx, months)
	})
}
