package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
)

func (s *Server) getCustomersLatest(c *gin.Context) {
	respondCached(s, c, "reporting:customers:latest", func(ctx context.Context) (reportdomain.LatestReport, error) {
		return s.query.CustomersLatest(ctx)
	})
}

func (s *Server) getTopCustomers(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCached(s, c, fmt.Sprintf("reporting:customers:top:%d", limit), func(ctx context.Context) (reportdomain.TopCustomersReport, error) {
		return s.query.TopCustomers(ctx, limit)
	})
}

func (s *Server) getCustomersTrend(c *gin.Context) {
	months, err := parseMonths(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCached(s, c, fmt.Sprintf("reporting:customers:trend:%d", months), func(ctx context.Context) (reportdomain.TrendReport, error) {
		return s.query.CustomersTrend(ctx, months)
	})
}
