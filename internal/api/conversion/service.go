package conversion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Conversly/notion-converter/internal/notion"
	"github.com/Conversly/notion-converter/internal/processors"
	"github.com/Conversly/notion-converter/internal/types"
	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultUpstreamTimeout = 30 * time.Second

type Service struct {
	fetcher  BlockFetcher
	renderer MarkdownRenderer
	sections *processors.Factory
	notifier NotificationQueue
	token    string
	timeout  time.Duration
}

type ServiceConfig struct {
	// Token is the document API credential. Empty means misconfigured.
	Token           string
	UpstreamTimeout time.Duration
}

// NewService wires a conversion service. notifier may be nil when no webhook
// is configured.
func NewService(cfg ServiceConfig, fetcher BlockFetcher, renderer MarkdownRenderer, sections *processors.Factory, notifier NotificationQueue) *Service {
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}
	if sections == nil {
		sections = processors.NewFactory(nil)
	}
	return &Service{
		fetcher:  fetcher,
		renderer: renderer,
		sections: sections,
		notifier: notifier,
		token:    cfg.Token,
		timeout:  cfg.UpstreamTimeout,
	}
}

// CredentialPrefix is the loggable head of the configured token.
func (s *Service) CredentialPrefix() string {
	return utils.TokenPrefix(s.token, 8)
}

// Convert fetches the document's blocks and renders them as markdown. Every
// failure is a *types.ConversionError.
func (s *Service) Convert(ctx context.Context, documentID string, opts *types.ConvertOptions) (*types.ConversionResult, error) {
	if s.token == "" {
		return nil, types.NewConversionError(types.KindMisconfiguredCredentials, documentID,
			"Notion API token is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	blocks, err := s.fetcher.FetchBlocks(ctx, documentID)
	if err != nil {
		convErr := classifyUpstreamError(documentID, err)
		utils.Zlog.Error("Failed to fetch document blocks",
			zap.String("documentId", documentID),
			zap.String("kind", string(convErr.Kind)),
			zap.Error(err))
		return nil, convErr
	}
	if len(blocks) == 0 {
		return nil, types.NewConversionError(types.KindUpstreamEmpty, documentID, "Missing blocks")
	}

	markdown := s.renderer.Render(blocks)
	if strings.TrimSpace(markdown) == "" {
		return nil, types.NewConversionError(types.KindUpstreamEmpty, documentID,
			"Document has no renderable content")
	}

	result := &types.ConversionResult{
		Markdown:    markdown,
		DocumentID:  documentID,
		BlocksCount: len(blocks),
		Timestamp:   time.Now().UTC(),
	}

	if opts.Sectioned() {
		sections, err := s.sections.WithOptions(opts).Sections(ctx, documentID, markdown)
		if err != nil {
			return nil, &types.ConversionError{
				Kind:       types.KindUpstreamFailure,
				Message:    err.Error(),
				DocumentID: documentID,
				Err:        err,
			}
		}
		result.Sections = sections
	}

	utils.Zlog.Info("Document converted",
		zap.String("documentId", documentID),
		zap.Int("blocks", len(blocks)),
		zap.Int("markdownBytes", len(markdown)),
		zap.Int("sections", len(result.Sections)),
		zap.Duration("duration", time.Since(start)))

	s.notify(result)
	return result, nil
}

// notify hands the result to the webhook workers. It never blocks and never
// fails the conversion.
func (s *Service) notify(result *types.ConversionResult) {
	if s.notifier == nil {
		return
	}
	job := NotificationJob{
		Notification: types.Notification{
			DeliveryID:  uuid.New().String(),
			DocumentID:  result.DocumentID,
			Markdown:    result.Markdown,
			BlocksCount: result.BlocksCount,
			Timestamp:   result.Timestamp,
		},
	}
	if ok := s.notifier.Enqueue(job); !ok {
		utils.Zlog.Warn("Notification queue is full; dropping webhook notification",
			zap.String("deliveryId", job.Notification.DeliveryID),
			zap.String("documentId", result.DocumentID))
	}
}

func classifyUpstreamError(documentID string, err error) *types.ConversionError {
	convErr := &types.ConversionError{
		Kind:       types.KindUpstreamFailure,
		Message:    notion.Message(err),
		DocumentID: documentID,
		Err:        err,
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		convErr.Message = "upstream request timed out"
	case errors.Is(err, context.Canceled):
		convErr.Message = "upstream request cancelled"
	case errors.Is(err, notion.ErrNotFound):
		convErr.Kind = types.KindNotFound
	case errors.Is(err, notion.ErrUnauthorized):
		convErr.Kind = types.KindUnauthorized
	}
	return convErr
}
