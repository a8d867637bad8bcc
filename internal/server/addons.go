package server

import (
	"context"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
)

func (s *Server) getAddonsLatest(c *gin.Context) {
	respondCached(s, c, "reporting:addons:latest", func(ctx context.Context) (reportdomain.BreakdownReport, error) {
		return s.query.AddonsLatest(ctx)
	})
}

func (s *Server) getHealthInsuranceLatest(c *gin.Context) {
	respondCached(s, c, "reporting:health-insurance:latest", func(ctx context.Context) (reportdomain.BreakdownReport, error) {
		return s.query.HealthInsuranceLatest(ctx)
	})
}
