package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/domain"
)

// Extractor turns PDF and image documents into plain text. It implements port.TextExtractor.
type Extractor struct {
	cfg    config.OCRConfig
	runner Runner
	logger *zap.Logger
}

// New creates an Extractor that shells out to tesseract for images.
func New(cfg config.OCRConfig, logger *zap.Logger) *Extractor {
	return NewWithRunner(cfg, execRunner{logger: logger}, logger)
}

// NewWithRunner creates an Extractor with a custom command runner (for testing).
func NewWithRunner(cfg config.OCRConfig, runner Runner, logger *zap.Logger) *Extractor {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract never fails. Extraction problems come back as a diagnostic string in place of text.
func (e *Extractor) Extract(ctx context.Context, doc domain.RawDocument) string {
	start := time.Now()
	var text string
	switch doc.Kind {
	case domain.DocumentKindPDF:
		text = e.extractPDF(doc.Bytes)
	case domain.DocumentKindImage:
		text = e.extractImage(ctx, doc.Bytes)
	default:
		text = fmt.Sprintf("Error extracting text: unsupported document kind %q", doc.Kind)
	}
	e.logger.Debug("extractor.Extract: done",
		zap.String("document", doc.Name),
		zap.String("kind", string(doc.Kind)),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text
}

// extractPDF concatenates the text layer of every page in order. A page without a
// text layer contributes an empty string.
func (e *Extractor) extractPDF(data []byte) (text string) {
	defer func() {
		// the pdf reader panics on some malformed inputs
		if r := recover(); r != nil {
			e.logger.Warn("extractor.extractPDF: reader panic", zap.Any("panic", r))
			text = fmt.Sprintf("Error extracting PDF text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("extractor.extractPDF: open failed", zap.Error(err))
		return fmt.Sprintf("Error extracting PDF text: %v", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		txt, err := pageText(r.Page(i))
		if err != nil {
			e.logger.Warn("extractor.extractPDF: page has no readable text layer",
				zap.Int("page", i), zap.Error(err))
		}
		pages = append(pages, txt)
	}
	return strings.Join(pages, "\n")
}

func pageText(p pdf.Page) (text string, err error) {
	if p.V.IsNull() || p.V.Key("Contents").IsNull() {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading page content: %v", r)
		}
	}()
	return p.GetPlainText(nil)
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) string {
	args := []string{"stdin", "stdout", "-l", e.cfg.Lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}

	out, errb, err := e.runner.Run(ctx, bytes.NewReader(data), e.cfg.Tesseract, args...)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			return fmt.Sprintf("Error running OCR: %v", err)
		}
		return fmt.Sprintf("Error running OCR: %v: %s", err, truncate(msg, 500))
	}
	return string(out)
}
