package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/normalize"
	"invoiceinsight/internal/port"
	"invoiceinsight/internal/validator"
)

// ProcessInput is the DTO for running one uploaded document through the pipeline.
type ProcessInput struct {
	SessionID string
	FileName  string
	Size      int64
	Content   io.Reader
}

// ProcessResult is the outcome of a successful pipeline run.
type ProcessResult struct {
	Data     *domain.InvoiceRecord `json:"data"`
	Insights string                `json:"insights"`
	Checks   []domain.Finding      `json:"checks"`
}

// DocumentService defines the document processing contract.
type DocumentService interface {
	Process(ctx context.Context, input *ProcessInput) (*ProcessResult, error)
}

type documentService struct {
	extractor port.TextExtractor
	fields    FieldExtractor
	checker   Checker
	insight   Summarizer
	sessions  port.SessionStore
	storage   port.ObjectStorage
	maxBytes  int64
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	extractor port.TextExtractor,
	fields FieldExtractor,
	checker Checker,
	insight Summarizer,
	sessions port.SessionStore,
	storage port.ObjectStorage,
	maxBytes int64,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		extractor: extractor,
		fields:    fields,
		checker:   checker,
		insight:   insight,
		sessions:  sessions,
		storage:   storage,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Process runs extraction, field extraction, normalization, checks and insight
// strictly in order, then stores the record on the session. Nothing is saved
// when a stage fails. Once accepted, the work is not cancelled by ctx.
func (s *documentService) Process(ctx context.Context, input *ProcessInput) (*ProcessResult, error) {
	kind, err := domain.KindForFilename(input.FileName)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	content, err := s.readContent(input.Content)
	if err != nil {
		return nil, err
	}

	sessionID := sessionIDOrDefault(input.SessionID)
	work := context.WithoutCancel(ctx)
	log := s.logger.With(zap.String("session_id", sessionID), zap.String("file", input.FileName))
	start := time.Now()

	s.archive(work, log, sessionID, input.FileName, content)

	stageStart := time.Now()
	text := s.extractor.Extract(work, domain.RawDocument{Name: input.FileName, Kind: kind, Bytes: content})
	log.Debug("service.Process: stage done", zap.String("stage", string(domain.StageTextExtraction)),
		zap.Int("chars", len(text)), zap.Duration("elapsed", time.Since(stageStart)))

	stageStart = time.Now()
	raw, err := s.fields.Extract(work, text)
	if err != nil {
		log.Error("service.Process: stage failed", zap.String("stage", string(domain.StageFieldExtraction)), zap.Error(err))
		return nil, domain.NewStageError(domain.StageFieldExtraction, err)
	}
	log.Debug("service.Process: stage done", zap.String("stage", string(domain.StageFieldExtraction)),
		zap.Duration("elapsed", time.Since(stageStart)))

	rec := normalize.Normalize(raw)
	checks := validator.Failed(s.checker.Run(work, rec))
	log.Debug("service.Process: stage done", zap.String("stage", string(domain.StageValidation)),
		zap.Int("line_items", len(rec.LineItems)), zap.Int("failed_checks", len(checks)))

	stageStart = time.Now()
	insights, err := s.insight.Summarize(work, rec)
	if err != nil {
		log.Error("service.Process: stage failed", zap.String("stage", string(domain.StageInsight)), zap.Error(err))
		return nil, domain.NewStageError(domain.StageInsight, err)
	}
	log.Debug("service.Process: stage done", zap.String("stage", string(domain.StageInsight)),
		zap.Duration("elapsed", time.Since(stageStart)))

	state, err := loadOrNew(work, s.sessions, sessionID)
	if err != nil {
		log.Error("service.Process: stage failed", zap.String("stage", string(domain.StageSessionLoad)), zap.Error(err))
		return nil, domain.NewStageError(domain.StageSessionLoad, err)
	}
	state.Extractions = rec
	if err := s.sessions.Save(work, sessionID, state); err != nil {
		log.Error("service.Process: stage failed", zap.String("stage", string(domain.StageSessionSave)), zap.Error(err))
		return nil, domain.NewStageError(domain.StageSessionSave, err)
	}

	log.Info("service.Process: document processed", zap.Duration("elapsed", time.Since(start)))
	return &ProcessResult{Data: rec, Insights: insights, Checks: checks}, nil
}

// readContent buffers the upload, enforcing the size limit when the declared
// size was missing or wrong.
func (s *documentService) readContent(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	if s.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading upload: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

// archive keeps a copy of the upload. Failures are logged and never fail the request.
func (s *documentService) archive(ctx context.Context, log *zap.Logger, sessionID, name string, content []byte) {
	if s.storage == nil {
		return
	}
	key := fmt.Sprintf("%s/%s-%s", sessionID, uuid.New().String(), filepath.Base(name))
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(content),
		ContentType: domain.ContentTypes[domain.Extension(name)],
		Size:        int64(len(content)),
	})
	if err != nil {
		log.Warn("service.Process: archiving upload failed", zap.Error(err))
		return
	}
	log.Debug("service.Process: upload archived", zap.String("key", key), zap.String("location", out.Location))
}
