package types

import (
	"fmt"
	"net/http"
	"time"
)

// ====== ENUMS ======

type ErrorKind string

const (
	KindMissingIdentifier        ErrorKind = "MissingIdentifier"
	KindInvalidIdentifierFormat  ErrorKind = "InvalidIdentifierFormat"
	KindNotFound                 ErrorKind = "NotFound"
	KindUnauthorized             ErrorKind = "Unauthorized"
	KindUpstreamEmpty            ErrorKind = "UpstreamEmpty"
	KindUpstreamFailure          ErrorKind = "UpstreamFailure"
	KindMisconfiguredCredentials ErrorKind = "MisconfiguredCredentials"
)

// StatusCode maps an error kind onto the HTTP status the endpoint answers with.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindMissingIdentifier, KindInvalidIdentifierFormat:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ====== CORE TYPES ======

// ConversionError is the typed failure of a conversion request.
type ConversionError struct {
	Kind       ErrorKind
	Message    string
	DocumentID string
	Err        error
}

func NewConversionError(kind ErrorKind, documentID, message string) *ConversionError {
	return &ConversionError{Kind: kind, Message: message, DocumentID: documentID}
}

func (e *ConversionError) Error() string {
	if e.DocumentID == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (documentId=%s)", e.Kind, e.Message, e.DocumentID)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

type ConvertOptions struct {
	SplitByHeaders bool `json:"splitByHeaders,omitempty"`
	ChunkSize      int  `json:"chunkSize,omitempty"`
	ChunkOverlap   int  `json:"chunkOverlap,omitempty"`
}

// Sectioned reports whether the caller asked for sections in the result.
func (o *ConvertOptions) Sectioned() bool {
	return o != nil && (o.SplitByHeaders || o.ChunkSize > 0)
}

type Section struct {
	Index    int                    `json:"index"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ProcessingConfig controls how rendered markdown is cut into sections.
type ProcessingConfig struct {
	SplitByHeaders bool
	ChunkSize      int
	ChunkOverlap   int
}

func DefaultProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{
		SplitByHeaders: true,
		ChunkSize:      0,
		ChunkOverlap:   0,
	}
}

// ====== REQUEST / RESPONSE TYPES ======

// ConversionRequest is the inbound payload of POST /convert. The identifier
// fields are left untyped so a non-string value can be reported as a format
// error instead of a body error.
type ConversionRequest struct {
	DocumentID interface{}     `json:"documentId"`
	PageID     interface{}     `json:"pageId,omitempty"`
	Options    *ConvertOptions `json:"options,omitempty"`
}

// RawIdentifier returns documentId, falling back to the legacy pageId field.
func (r *ConversionRequest) RawIdentifier() interface{} {
	if r.DocumentID != nil {
		return r.DocumentID
	}
	return r.PageID
}

type ConversionResult struct {
	Markdown    string    `json:"markdown"`
	DocumentID  string    `json:"documentId"`
	BlocksCount int       `json:"blocksCount"`
	RequestID   string    `json:"requestId,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error      string    `json:"error"`
	Kind       ErrorKind `json:"kind,omitempty"`
	DocumentID string    `json:"documentId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

// ====== NOTIFICATIONS ======

type Notification struct {
	DeliveryID  string    `json:"deliveryId"`
	DocumentID  string    `json:"documentId"`
	Markdown    string    `json:"markdown"`
	BlocksCount int       `json:"blocksCount"`
	Timestamp   time.Time `json:"timestamp"`
}

// ====== HELPERS ======

func NewErrorResponse(err *ConversionError) ErrorResponse {
	return ErrorResponse{
		Error:      err.Message,
		Kind:       err.Kind,
		DocumentID: err.DocumentID,
		Timestamp:  time.Now().UTC(),
	}
}
