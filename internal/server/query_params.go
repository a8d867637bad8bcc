package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultTrendMonths = 12
	maxTrendMonths     = 60
	defaultTopLimit    = 10
	maxTopLimit        = 50
)

func parseMonths(c *gin.Context) (int, error) {
	return parseBoundedInt(c, "months", defaultTrendMonths, 1, maxTrendMonths)
}

func parseLimit(c *gin.Context) (int, error) {
	return parseBoundedInt(c, "limit", defaultTopLimit, 1, maxTopLimit)
}

func parseBoundedInt(c *gin.Context, name string, def, min, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < min || parsed > max {
		return 0, newValidationError(name, "out_of_range", name+" must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return parsed, nil
}
