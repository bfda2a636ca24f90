package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	analysisdomain "github.com/happytownlabs/happytown/internal/analysis/domain"
	"github.com/happytownlabs/happytown/internal/config"
	complexdomain "github.com/happytownlabs/happytown/internal/complex/domain"
	householddomain "github.com/happytownlabs/happytown/internal/household/domain"
	ingestdomain "github.com/happytownlabs/happytown/internal/ingest/domain"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	posterdomain "github.com/happytownlabs/happytown/internal/poster/domain"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	uploaddomain "github.com/happytownlabs/happytown/internal/upload/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(RunHTTP),
)

type Server struct {
	engine *gin.Engine
	log    *zap.Logger
	cfg    config.Config
	genID  *snowflake.Node

	ingestSvc     ingestdomain.Service
	analysisSvc   analysisdomain.Service
	complexRepo   complexdomain.Repository
	householdRepo householddomain.Repository
	paymentRepo   paymentdomain.Repository
	uploadRepo    uploaddomain.Repository
	rankRepo      rankdomain.Repository
	posterRepo    posterdomain.Repository
}

type ServerParam struct {
	fx.In

	Engine *gin.Engine
	Log    *zap.Logger
	Cfg    config.Config
	GenID  *snowflake.Node

	IngestSvc     ingestdomain.Service
	AnalysisSvc   analysisdomain.Service
	ComplexRepo   complexdomain.Repository
	HouseholdRepo householddomain.Repository
	PaymentRepo   paymentdomain.Repository
	UploadRepo    uploaddomain.Repository
	RankRepo      rankdomain.Repository
	PosterRepo    posterdomain.Repository
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine: p.Engine,
		log:    p.Log.Named("server"),
		cfg:    p.Cfg,
		genID:  p.GenID,

		ingestSvc:     p.IngestSvc,
		analysisSvc:   p.AnalysisSvc,
		complexRepo:   p.ComplexRepo,
		householdRepo: p.HouseholdRepo,
		paymentRepo:   p.PaymentRepo,
		uploadRepo:    p.UploadRepo,
		rankRepo:      p.RankRepo,
		posterRepo:    p.PosterRepo,
	}
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log.Named("http")))
	return engine
}

func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		api.POST("/uploads", s.UploadBalances)
		api.GET("/uploads", s.ListUploads)
		api.GET("/uploads/:id", s.GetUpload)
		api.GET("/uploads/:id/file", s.DownloadUploadFile)

		api.GET("/classification", s.GetClassification)
		api.GET("/statistics/buildings", s.GetBuildingStatistics)
		api.GET("/statistics/buildings/:number/entrances", s.GetEntranceStatistics)
		api.GET("/reports/above-threshold", s.GetHouseholdsAboveThreshold)
		api.GET("/households/:id/history", s.GetHouseholdHistory)

		api.GET("/buildings", s.ListBuildings)
		api.GET("/buildings/:id/entrances", s.ListEntrances)
		api.GET("/months/latest", s.GetLatestMonth)

		api.GET("/ranks", s.ListRanks)
		api.POST("/ranks", s.CreateRank)
		api.PATCH("/ranks/:id", s.UpdateRank)

		api.GET("/poster-contents", s.ListPosterContents)
		api.POST("/poster-contents", s.CreatePosterContent)
		api.PATCH("/poster-contents/:id", s.UpdatePosterContent)
	}
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// Healthz reports liveness and whether the complex has been provisioned.
func (s *Server) Healthz(c *gin.Context) {
	count, err := s.complexRepo.CountBuildings(c.Request.Context())
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidDB) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provisioned": count > 0})
}
