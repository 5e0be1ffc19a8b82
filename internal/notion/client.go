// Package notion is a minimal client for the Notion block children API.
package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Conversly/notion-converter/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://api.notion.com"
	DefaultVersion  = "2022-06-28"
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 100
)

type Options struct {
	Token      string
	Version    string
	BaseURL    string
	Timeout    time.Duration
	MaxDepth   int
	MaxRetries int
	HTTPClient *http.Client
}

// Client fetches block trees for a document.
type Client struct {
	token      string
	version    string
	baseURL    string
	maxDepth   int
	maxRetries int
	client     *http.Client
}

func NewClient(opts Options) *Client {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		token:      opts.Token,
		version:    opts.Version,
		baseURL:    opts.BaseURL,
		maxDepth:   opts.MaxDepth,
		maxRetries: opts.MaxRetries,
		client:     httpClient,
	}
}

// FetchBlocks returns the top-level blocks of a document with their children
// attached up to the configured depth.
func (c *Client) FetchBlocks(ctx context.Context, documentID string) ([]Block, error) {
	return c.fetchTree(ctx, documentID, 0)
}

func (c *Client) fetchTree(ctx context.Context, blockID string, depth int) ([]Block, error) {
	blocks, err := c.ListChildren(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if depth >= c.maxDepth {
		return blocks, nil
	}

	for i := range blocks {
		if !blocks[i].Descendable() {
			continue
		}
		children, err := c.fetchTree(ctx, blocks[i].ID, depth+1)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
			// Only the document itself decides NotFound/Unauthorized. An
			// inaccessible descendant, such as a synced block whose original
			// was deleted, renders without children.
			utils.Zlog.Warn("Skipping inaccessible block children",
				zap.String("blockId", blocks[i].ID),
				zap.String("type", string(blocks[i].Type)),
				zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch children of block %s: %w", blocks[i].ID, err)
		}
		blocks[i].Children = children
	}
	return blocks, nil
}

// ListChildren returns every direct child of blockID, following pagination.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]Block, error) {
	var (
		blocks []Block
		cursor string
	)
	for page := 1; ; page++ {
		resp, err := c.listChildrenPage(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Results...)

		utils.Zlog.Debug("Fetched block children page",
			zap.String("blockId", blockID),
			zap.Int("page", page),
			zap.Int("results", len(resp.Results)),
			zap.Bool("hasMore", resp.HasMore))

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return blocks, nil
		}
		cursor = *resp.NextCursor
	}
}

func (c *Client) listChildrenPage(ctx context.Context, blockID, cursor string) (*childrenResponse, error) {
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(defaultPageSize))
	if cursor != "" {
		query.Set("start_cursor", cursor)
	}
	endpoint := fmt.Sprintf("%s/v1/blocks/%s/children?%s", c.baseURL, url.PathEscape(blockID), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")

	resp, err := doWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var out childrenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr = &APIError{Message: fmt.Sprintf("unexpected response: %s", string(body))}
	}
	if apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
	}
	return apiErr
}
