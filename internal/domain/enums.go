package domain

import (
	"path/filepath"
	"strings"
)

// DocumentKind discriminates how raw document bytes are turned into text.
type DocumentKind string

const (
	DocumentKindPDF   DocumentKind = "pdf"
	DocumentKindImage DocumentKind = "image"
)

// AllowedExtensions maps file extensions (without dot) to DocumentKind.
var AllowedExtensions = map[string]DocumentKind{
	"pdf":  DocumentKindPDF,
	"png":  DocumentKindImage,
	"jpg":  DocumentKindImage,
	"jpeg": DocumentKindImage,
	"tif":  DocumentKindImage,
	"tiff": DocumentKindImage,
}

// ContentTypes maps file extensions to the MIME type used when archiving uploads.
var ContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

// KindForFilename resolves the document kind from a file name's extension.
func KindForFilename(name string) (DocumentKind, error) {
	kind, ok := AllowedExtensions[Extension(name)]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	return kind, nil
}

// Extension returns the lower-cased extension of name without the leading dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Stage names a step of the processing pipeline or the conversation turn.
type Stage string

const (
	StageTextExtraction  Stage = "text extraction"
	StageFieldExtraction Stage = "field extraction"
	StageValidation      Stage = "validation"
	StageInsight         Stage = "insight"
	StageSessionLoad     Stage = "session load"
	StageSessionSave     Stage = "session save"
	StageConversation    Stage = "conversation"
)

// FindingSeverity grades a consistency check finding.
type FindingSeverity string

const (
	SeverityWarning FindingSeverity = "warning"
	SeverityError   FindingSeverity = "error"
)

// ExportFormat is a download format for a session's invoice.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)
