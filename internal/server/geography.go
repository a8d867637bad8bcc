package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
)

func (s *Server) getGeographyCountries(c *gin.Context) {
	respondCached(s, c, "reporting:geography:countries", func(ctx context.Context) (reportdomain.GeographyReport, error) {
		return s.query.GeographyCountries(ctx)
	})
}

func (s *Server) getGeographyTrend(c *gin.Context) {
	months, err := parseMonths(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCached(s, c, fmt.Sprintf("reporting:geography:trend:%d", months), func(ctx context.Context) (reportdomain.GeographyTrendReport, error) {
		return s.query.GeographyTrend(ctx, months)
	})
}
