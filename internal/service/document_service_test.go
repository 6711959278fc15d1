package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoiceinsight/internal/domain"
	"invoiceinsight/internal/fields"
	"invoiceinsight/internal/insight"
	"invoiceinsight/internal/port"
	"invoiceinsight/internal/service"
	"invoiceinsight/internal/validator"
	"invoiceinsight/mocks"
)

const modelAnswer = `{"vendor": "Acme Corp", "date": "2024-03-14", "invoice_number": "INV-1",
	"line_items": [{"description": "Widget", "qty": "1,200", "price": "$50.00"}, {"description": "bad", "qty": "12abc", "price": 1}],
	"subtotal": "60,000", "tax": "0", "total": "$60,000.00"}`

type documentDeps struct {
	gen       *mocks.MockJSONGenerator
	extractor *mocks.MockTextExtractor
	sessions  *mocks.MockSessionStore
	storage   *mocks.MockObjectStorage
}

func setupDocumentService(t *testing.T, maxBytes int64) (service.DocumentService, *documentDeps) {
	t.Helper()
	deps := &documentDeps{
		gen:       new(mocks.MockJSONGenerator),
		extractor: new(mocks.MockTextExtractor),
		sessions:  new(mocks.MockSessionStore),
		storage:   new(mocks.MockObjectStorage),
	}
	logger := zap.NewNop()
	fieldStage, err := fields.NewStage(deps.gen, logger)
	require.NoError(t, err)

	svc := service.NewDocumentService(
		deps.extractor,
		fieldStage,
		validator.NewEngine(validator.NewDefaultRegistry(), logger),
		insight.NewStage(deps.gen, logger),
		deps.sessions,
		deps.storage,
		maxBytes,
		logger,
	)
	return svc, deps
}

func isExtraction(opts port.GenerateOptions) bool { return opts.JSONObject }
func isInsight(opts port.GenerateOptions) bool    { return !opts.JSONObject }

func pdfInput(sessionID string) *service.ProcessInput {
	content := []byte("%PDF-1.4 fake")
	return &service.ProcessInput{
		SessionID: sessionID,
		FileName:  "invoice.PDF",
		Size:      int64(len(content)),
		Content:   bytes.NewReader(content),
	}
}

func TestProcess_Success(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	deps.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasPrefix(in.Key, "s1/") && strings.HasSuffix(in.Key, "-invoice.PDF") && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "s3://bucket/key"}, nil).Once()
	deps.extractor.On("Extract", mock.Anything, mock.MatchedBy(func(doc domain.RawDocument) bool {
		return doc.Kind == domain.DocumentKindPDF && string(doc.Bytes) == "%PDF-1.4 fake"
	})).Return("ACME CORP INVOICE INV-1").Once()
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isExtraction)).Return(modelAnswer, nil).Once()
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isInsight)).Return("- Hardware", nil).Once()

	history := []domain.Turn{{Role: domain.RoleUser, Content: "earlier"}}
	deps.sessions.On("Load", mock.Anything, "s1").Return(&domain.SessionState{History: history}, nil).Once()
	deps.sessions.On("Save", mock.Anything, "s1", mock.MatchedBy(func(st *domain.SessionState) bool {
		return st.Extractions != nil && *st.Extractions.Vendor == "Acme Corp" && len(st.History) == 1
	})).Return(nil).Once()

	result, err := svc.Process(context.Background(), pdfInput("s1"))

	require.NoError(t, err)
	assert.Equal(t, "- Hardware", result.Insights)
	assert.Equal(t, 60000.0, *result.Data.Total)
	require.Len(t, result.Data.LineItems, 1)
	assert.Equal(t, domain.LineItem{Description: result.Data.LineItems[0].Description, Qty: 1200, Price: 50}, result.Data.LineItems[0])
	assert.Empty(t, result.Checks)
	deps.gen.AssertNumberOfCalls(t, "Generate", 2)
	deps.sessions.AssertExpectations(t)
	deps.storage.AssertExpectations(t)
}

func TestProcess_UnsupportedFileTypeMakesNoCalls(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	_, err := svc.Process(context.Background(), &service.ProcessInput{
		SessionID: "s1",
		FileName:  "invoice.docx",
		Size:      4,
		Content:   strings.NewReader("docx"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	deps.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	deps.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	deps.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	deps.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_FileTooLarge(t *testing.T) {
	svc, deps := setupDocumentService(t, 4)

	_, err := svc.Process(context.Background(), pdfInput("s1"))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	// declared size lies; the body is still capped
	_, err = svc.Process(context.Background(), &service.ProcessInput{
		FileName: "scan.png",
		Size:     1,
		Content:  strings.NewReader("much more than four bytes"),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	deps.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_FieldExtractionFailureSavesNothing(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.extractor.On("Extract", mock.Anything, mock.Anything).Return("text")
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isExtraction)).Return("", errors.New("upstream 500")).Once()

	_, err := svc.Process(context.Background(), pdfInput("s1"))

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageFieldExtraction, stageErr.Stage)
	assert.Contains(t, err.Error(), "field extraction stage failed")
	deps.gen.AssertNumberOfCalls(t, "Generate", 1)
	deps.sessions.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	deps.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_InsightFailureSavesNothing(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.extractor.On("Extract", mock.Anything, mock.Anything).Return("text")
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isExtraction)).Return(modelAnswer, nil).Once()
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isInsight)).Return("", errors.New("rate limited")).Once()

	_, err := svc.Process(context.Background(), pdfInput("s1"))

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageInsight, stageErr.Stage)
	deps.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_UnparseableAnswerStillSucceeds(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.extractor.On("Extract", mock.Anything, mock.Anything).Return("Error extracting PDF text: malformed")
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isExtraction)).Return("I cannot read this", nil).Once()
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isInsight)).Return("No data.", nil).Once()
	deps.sessions.On("Load", mock.Anything, "default").Return(nil, domain.ErrSessionNotFound).Once()
	deps.sessions.On("Save", mock.Anything, "default", mock.Anything).Return(nil).Once()

	result, err := svc.Process(context.Background(), pdfInput(""))

	require.NoError(t, err)
	assert.Nil(t, result.Data.Total)
	assert.Empty(t, result.Data.LineItems)
	assert.Equal(t, "I cannot read this", result.Data.Extra[domain.RawKeyLLMOutput])
	assert.Equal(t, "Error extracting PDF text: malformed", result.Data.Extra[domain.RawKeyText])
	assert.NotEmpty(t, result.Checks)
}

func TestProcess_ArchiveFailureIsNotFatal(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("bucket missing")).Once()
	deps.extractor.On("Extract", mock.Anything, mock.Anything).Return("text")
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isExtraction)).Return(modelAnswer, nil).Once()
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isInsight)).Return("ok", nil).Once()
	deps.sessions.On("Load", mock.Anything, "s1").Return(nil, domain.ErrSessionNotFound).Once()
	deps.sessions.On("Save", mock.Anything, "s1", mock.Anything).Return(nil).Once()

	_, err := svc.Process(context.Background(), pdfInput("s1"))

	assert.NoError(t, err)
}

func TestProcess_SessionSaveFailure(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.extractor.On("Extract", mock.Anything, mock.Anything).Return("text")
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isExtraction)).Return(modelAnswer, nil).Once()
	deps.gen.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(isInsight)).Return("ok", nil).Once()
	deps.sessions.On("Load", mock.Anything, "s1").Return(nil, domain.ErrSessionNotFound).Once()
	deps.sessions.On("Save", mock.Anything, "s1", mock.Anything).Return(errors.New("disk full")).Once()

	_, err := svc.Process(context.Background(), pdfInput("s1"))

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageSessionSave, stageErr.Stage)
}

func TestProcess_CancelledContextStillCompletes(t *testing.T) {
	svc, deps := setupDocumentService(t, 1024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notCancelled := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	deps.storage.On("Upload", notCancelled, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.extractor.On("Extract", notCancelled, mock.Anything).Return("text")
	deps.gen.On("Generate", notCancelled, mock.Anything, mock.MatchedBy(isExtraction)).Return(modelAnswer, nil).Once()
	deps.gen.On("Generate", notCancelled, mock.Anything, mock.MatchedBy(isInsight)).Return("ok", nil).Once()
	deps.sessions.On("Load", notCancelled, "s1").Return(nil, domain.ErrSessionNotFound).Once()
	deps.sessions.On("Save", notCancelled, "s1", mock.Anything).Return(nil).Once()

	_, err := svc.Process(ctx, pdfInput("s1"))

	assert.NoError(t, err)
}
