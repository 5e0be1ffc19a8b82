package notion

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Conversly/notion-converter/internal/utils"
	"go.uber.org/zap"
)

// RetryBaseDelay is the first backoff wait after a 429. Tests shrink it.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 3

// doWithRetry executes req and retries HTTP 429 responses with exponential
// backoff (base, 2*base, 4*base, ...). After maxRetries the last 429 response
// is returned for the caller to decode. A cancelled context during a wait
// returns ctx.Err().
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		utils.Zlog.Warn("Notion API rate limited, backing off",
			zap.String("url", req.URL.Path),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("maxRetries", maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
