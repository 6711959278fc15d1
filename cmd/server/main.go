package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/conversation"
	"invoiceinsight/internal/extractor"
	"invoiceinsight/internal/fields"
	"invoiceinsight/internal/handler"
	"invoiceinsight/internal/insight"
	"invoiceinsight/internal/llm"
	"invoiceinsight/internal/llm/claude"
	"invoiceinsight/internal/llm/openai"
	"invoiceinsight/internal/logger"
	"invoiceinsight/internal/port"
	"invoiceinsight/internal/repository"
	"invoiceinsight/internal/router"
	"invoiceinsight/internal/service"
	"invoiceinsight/internal/storage/noop"
	s3storage "invoiceinsight/internal/storage/s3"
	"invoiceinsight/internal/validator"
)

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

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	if err := repository.Migrate(ctx, &cfg.Session); err != nil {
		return fmt.Errorf("failed to migrate session store: %w", err)
	}
	sessions, err := repository.NewSessionRepo(&cfg.Session, zl)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	// Language model
	llm.RegisterProvider("openai", openai.NewProvider)
	llm.RegisterProvider("claude", claude.NewProvider)
	gen, err := llm.NewGenerator(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize %s generator: %w", cfg.LLM.Provider, err)
	}

	// Pipeline stages
	textExtractor := extractor.New(cfg.OCR, zl)
	fieldStage, err := fields.NewStage(gen, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize field extraction: %w", err)
	}
	checks := validator.NewEngine(validator.NewDefaultRegistry(), zl)
	insightStage := insight.NewStage(gen, zl)
	replier := conversation.NewStage(gen)

	// Upload archive
	var archive port.ObjectStorage
	if cfg.Archive.Enabled {
		archive, err = s3storage.NewS3Client(ctx, &cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		zl.Info("archiving uploads", zap.String("bucket", cfg.Archive.Bucket))
	} else {
		archive = noop.NewStorage()
	}

	// Services
	documentSvc := service.NewDocumentService(textExtractor, fieldStage, checks, insightStage, sessions, archive, cfg.Server.MaxUploadBytes(), zl)
	chatSvc := service.NewChatService(replier, sessions, zl)
	sessionSvc := service.NewSessionService(sessions)
	exportSvc := service.NewExportService(sessions, zl)

	r := router.Setup(cfg, zl, router.Handlers{
		Document: handler.NewDocumentHandler(documentSvc, zl),
		Chat:     handler.NewChatHandler(chatSvc, zl),
		Session:  handler.NewSessionHandler(sessionSvc, exportSvc, zl),
		Health:   handler.NewHealthHandler(sessions),
		Frontend: handler.NewFrontendHandler(cfg.Server.FrontendPath),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("session_driver", cfg.Session.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
