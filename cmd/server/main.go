// @title HR Desk API
// @version 1.0
// @description Employee onboarding documents: upload slots, verification and HR administration.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "hrdesk/docs"
	"hrdesk/internal/config"
	"hrdesk/internal/email/noop"
	"hrdesk/internal/email/ses"
	natsbus "hrdesk/internal/events/nats"
	noopevents "hrdesk/internal/events/noop"
	"hrdesk/internal/handler"
	"hrdesk/internal/metrics"
	"hrdesk/internal/middleware"
	"hrdesk/internal/policy"
	"hrdesk/internal/port"
	"hrdesk/internal/repository/postgres"
	"hrdesk/internal/resilience"
	"hrdesk/internal/router"
	"hrdesk/internal/service"
	miniostorage "hrdesk/internal/storage/minio"
	s3storage "hrdesk/internal/storage/s3"
	"hrdesk/internal/upload"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	catalog, err := upload.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load slot catalog: %w", err)
	}

	accessPolicy, err := policy.New(cfg.Policy.Mode)
	if err != nil {
		return fmt.Errorf("failed to build access policy: %w", err)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	employeeRepo := postgres.NewEmployeeRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	docRepo := postgres.NewEmployeeDocumentRepo(db)
	auditRepo := postgres.NewDocumentAuditRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage
	storage, bucket, presignExpiry, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	exec := resilience.NewExecutor(resilience.FromAppConfig(cfg.Resilience))

	emailSender, err := newEmailSender(cfg.Email)
	if err != nil {
		return err
	}

	// Verification events: NATS when configured, log-only otherwise.
	var publisher port.EventPublisher = noopevents.NewNoopPublisher()
	var bus *natsbus.Bus
	if cfg.NATS.URL != "" {
		bus, err = natsbus.Connect(cfg.NATS.URL, natsbus.Options{
			DecisionSubject: cfg.NATS.DecisionSubject,
			InboundSubject:  cfg.NATS.InboundSubject,
			QueueGroup:      cfg.NATS.QueueGroup,
			Executor:        exec,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher = bus
	}

	m := metrics.New()

	// Initialize services
	authSvc := service.NewAuthService(userRepo, employeeRepo, cfg.JWT)
	employeeSvc := service.NewEmployeeService(userRepo, employeeRepo)
	fileSvc := service.NewFileService(fileRepo, storage, exec, service.FileStorageConfig{
		Bucket:        bucket,
		PresignExpiry: presignExpiry,
	})
	documentSvc := service.NewDocumentService(docRepo, employeeRepo, auditRepo, fileSvc, publisher, emailSender, catalog)
	documentSvc.OnDecision(m.DecisionApplied)
	uploadSvc := service.NewUploadService(catalog, fileSvc, documentSvc, employeeRepo, m, service.UploadServiceConfig{
		Transport:       cfg.Upload.Transport,
		TickInterval:    cfg.Upload.TickInterval,
		MinStep:         cfg.Upload.MinStep,
		MaxStep:         cfg.Upload.MaxStep,
		SettleDelay:     cfg.Upload.SettleDelay,
		PreviewMaxPixel: cfg.Upload.PreviewMaxPixel,
	})
	defer uploadSvc.Close()
	statsSvc := service.NewStatsService(statsRepo, catalog)
	exportSvc := service.NewExportService(employeeRepo, docRepo, catalog)

	janitor := service.NewSlotJanitor(uploadSvc, service.SlotJanitorConfig{IdleTTL: cfg.Upload.SlotIdleTTL})
	go janitor.Start(ctx)

	if bus != nil {
		listener := service.NewVerificationListener(bus, documentSvc)
		if err := listener.Start(); err != nil {
			_ = bus.Close()
			return fmt.Errorf("failed to subscribe to verification feed: %w", err)
		}
		defer func() {
			if err := listener.Stop(); err != nil {
				log.Printf("verification listener stop: %v", err)
			}
		}()
	}

	var readiness []handler.ReadinessCheck
	if bus != nil {
		readiness = append(readiness, handler.ReadinessCheck{Name: "events", Check: bus.Ping})
	}

	// Setup router
	r := router.Setup(router.Deps{
		AuthService:    authSvc,
		Policy:         accessPolicy,
		Metrics:        m,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, 0),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Auth:           handler.NewAuthHandler(authSvc),
		Employees:      handler.NewEmployeeHandler(employeeSvc),
		Uploads:        handler.NewUploadHandler(uploadSvc, cfg.Upload.MaxRequestMB),
		Documents:      handler.NewDocumentHandler(documentSvc, accessPolicy),
		Stats:          handler.NewStatsHandler(statsSvc),
		Export:         handler.NewExportHandler(exportSvc),
		Health:         handler.NewHealthHandler(db, readiness...),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (storage=%s, transport=%s, policy=%s)",
			cfg.Server.Port, cfg.Storage.Provider, cfg.Upload.Transport, cfg.Policy.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (port.ObjectStorage, string, int64, error) {
	switch cfg.Storage.Provider {
	case "minio":
		client, err := miniostorage.NewMinioClient(ctx, &cfg.Minio)
		if err != nil {
			return nil, "", 0, fmt.Errorf("failed to initialize MinIO client: %w", err)
		}
		return client, cfg.Minio.Bucket, cfg.Minio.PresignExpiry, nil
	default:
		client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, "", 0, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return client, cfg.S3.Bucket, cfg.S3.PresignExpiry, nil
	}
}

func newEmailSender(cfg config.EmailConfig) (port.EmailSender, error) {
	if cfg.Provider != "ses" {
		return noop.NewNoopSender(cfg.FrontendURL), nil
	}
	sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
	}
	return sender, nil
}
