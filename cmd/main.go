package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"policy-log-analytics/config"
	_ "policy-log-analytics/docs" // Generated by swag
	"policy-log-analytics/internal/cache"
	"policy-log-analytics/internal/controller"
	"policy-log-analytics/internal/database"
	"policy-log-analytics/internal/elasticsearch"
	"policy-log-analytics/internal/filestate"
	"policy-log-analytics/internal/ingest"
	"policy-log-analytics/internal/kafka"
	"policy-log-analytics/internal/metrics"
	"policy-log-analytics/internal/scheduler"
	"policy-log-analytics/internal/service"
	"policy-log-analytics/internal/telemetry"
	"policy-log-analytics/internal/timescaledb"
)

// @title           Policy Log Analytics API
// @version         1.0
// @description     Ingests policy deployment log exports, indexes them for search, derives operational metrics and runs on-demand analysis over them: message pattern counts, failure correlation within a bounded window, deployment success summaries and recurring client IP detection.

// @contact.name   API Support Team
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         records
// @tag.description  Search over ingested log records

// @tag.name         metrics
// @tag.description  Operational metrics derived from ingested records

// @tag.name         analysis
// @tag.description  On-demand analysis runs and their reports

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			database.NewDB,
			database.NewRunRepository,
			NewGinEngine,
			elasticsearch.NewElasticsearchRecordRepository,
			timescaledb.NewTimescaleMetricRepository,
			service.NewRecordQueryService,
			service.NewMetricQueryService,
			service.NewAnalysisService,
			controller.NewRecordController,
			controller.NewMetricController,
			controller.NewAnalysisController,
			NewFileStateManager,
			ingest.NewCSVIngestor,
			ingest.NewQueryLogIngestor,
			kafka.NewKafkaRecordProducer,
			kafka.NewKafkaRecordConsumer,
			elasticsearch.NewElasticRecordStore,
			timescaledb.ProvideTimescaleDBPool,
			metrics.NewRecordExtractor,
			cache.NewRedisReportCache,
			telemetry.NewMetrics,
			service.NewIngestProducerService,
			service.NewRecordConsumerService,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
			func(lc fx.Lifecycle, consumerService service.RecordConsumerService) {
				startRecordConsumer(lc, &wg, consumerService)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	recordController *controller.RecordController,
	metricController *controller.MetricController,
	analysisController *controller.AnalysisController,
) {
	controller.RegisterRecordRoutes(router, recordController)
	controller.RegisterMetricRoutes(router, metricController)
	controller.RegisterAnalysisRoutes(router, analysisController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewFileStateManager(cfg *config.Config) filestate.Manager {
	return filestate.NewManager(cfg.FileState.FilePath)
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, ingestSvc service.IngestProducerService) {
	scheduler.NewScheduler(lc, cfg, ingestSvc)
}

// startRecordConsumer runs the consumer loop in a goroutine tied to the fx
// lifecycle.
func startRecordConsumer(lc fx.Lifecycle, wg *sync.WaitGroup, consumerService service.RecordConsumerService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting record consumer goroutine")
			go consumerService.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling record consumer goroutine to stop...")
			cancel()
			return nil
		},
	})
}
