package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/cache"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	obslogger "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/logger"
	obstracing "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/tracing"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(RunHTTP),
)

// requestIDMiddleware assigns a snowflake request ID when the caller did not
// send one. The logging middleware downstream picks it up as correlation ID.
func requestIDMiddleware(genID *snowflake.Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("X-Request-Id")) == "" {
			c.Request.Header.Set("X-Request-Id", genID.Generate().String())
		}
		c.Next()
	}
}

func NewEngine(genID *snowflake.Node) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware(genID))
	r.Use(obslogger.GinMiddleware())
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	query  reportdomain.Query
	cache  *cache.Cache
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Log   *zap.Logger
	Query reportdomain.Query
	Cache *cache.Cache `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		log:    p.Log.Named("server"),
		query:  p.Query,
		cache:  p.Cache,
	}
}

// RegisterAPIRoutes mounts the read API. Without a configured API key the
// metric routes stay unmounted so the data is never exposed unauthenticated.
func (s *Server) RegisterAPIRoutes() {
	if s.cfg.APIKey == "" {
		s.log.Error("REPORTING_API_KEY not set, metric routes disabled")
		return
	}

	v1 := s.engine.Group("/api/v1", s.APIKeyRequired())

	revenue := v1.Group("/revenue")
	revenue.GET("/latest", s.getRevenueLatest)
	revenue.GET("/trend", s.getRevenueTrend)

	customers := v1.Group("/customers")
	customers.GET("/latest", s.getCustomersLatest)
	customers.GET("/top", s.getTopCustomers)
	customers.GET("/trend", s.getCustomersTrend)

	geography := v1.Group("/geography")
	geography.GET("/countries", s.getGeographyCountries)
	geography.GET("/trend", s.getGeographyTrend)

	requisitions := v1.Group("/requisitions")
	requisitions.GET("/latest", s.getRequisitionsLatest)
	requisitions.GET("/trend", s.getRequisitionsTrend)

	v1.GET("/addons/latest", s.getAddonsLatest)
	v1.GET("/health-insurance/latest", s.getHealthInsuranceLatest)
}

// respondCached serves the handler result through the response cache when
// one is configured. Cache errors degrade to a direct read.
func respondCached[T any](s *Server, c *gin.Context, key string, fetch func(ctx context.Context) (T, error)) {
	ctx := c.Request.Context()
	if s.cache.Enabled() {
		var cached T
		if s.cache.GetJSON(ctx, key, &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := fetch(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if s.cache.Enabled() {
		s.cache.SetJSON(ctx, key, result)
	}
	c.JSON(http.StatusOK, result)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
