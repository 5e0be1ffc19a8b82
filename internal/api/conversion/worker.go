package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Conversly/notion-converter/internal/types"
	"github.com/Conversly/notion-converter/internal/utils"
	"go.uber.org/zap"
)

type NotificationJob struct {
	Notification types.Notification
	RetryCount   int // Track retry attempts to prevent infinite loops
}

const maxNotificationRetries = 3

type WorkerPoolConfig struct {
	NumWorkers    int
	QueueCapacity int
	WebhookURL    string
	Timeout       time.Duration
	RetryDelay    time.Duration
	Client        *http.Client
}

// WorkerPool delivers conversion notifications to the internal webhook in the
// background. Delivery is best effort: failures are retried a few times and
// then logged, never reported to the conversion request.
type WorkerPool struct {
	jobs       chan NotificationJob
	quit       chan struct{}
	started    bool
	stopOnce   sync.Once
	wg         sync.WaitGroup
	numWorkers int
	webhookURL string
	timeout    time.Duration
	retryDelay time.Duration
	client     *http.Client
}

func NewWorkerPool(cfg WorkerPoolConfig) *WorkerPool {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 1
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &WorkerPool{
		jobs:       make(chan NotificationJob, cfg.QueueCapacity),
		quit:       make(chan struct{}),
		numWorkers: cfg.NumWorkers,
		webhookURL: cfg.WebhookURL,
		timeout:    cfg.Timeout,
		retryDelay: cfg.RetryDelay,
		client:     cfg.Client,
	}
}

func (wp *WorkerPool) Start() {
	if wp.started {
		return
	}
	wp.started = true
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func(workerID int) {
			defer wp.wg.Done()
			utils.Zlog.Info("Notification worker started", zap.Int("workerId", workerID))
			for {
				select {
				case <-wp.quit:
					utils.Zlog.Info("Notification worker stopping", zap.Int("workerId", workerID))
					return
				case job := <-wp.jobs:
					wp.processNotificationJob(workerID, job)
				}
			}
		}(i + 1)
	}
}

func (wp *WorkerPool) Stop(ctx context.Context) {
	if !wp.started {
		return
	}
	wp.stopOnce.Do(func() {
		close(wp.quit)
	})
	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		utils.Zlog.Warn("Timeout waiting for notification workers to stop")
	case <-done:
		utils.Zlog.Info("All notification workers stopped", zap.Int("dropped", len(wp.jobs)))
	}
}

// Enqueue never blocks. It reports false when the pool is stopped or the
// queue is full.
func (wp *WorkerPool) Enqueue(job NotificationJob) bool {
	select {
	case <-wp.quit:
		return false
	default:
	}
	select {
	case wp.jobs <- job:
		return true
	default:
		return false
	}
}

func (wp *WorkerPool) processNotificationJob(workerID int, job NotificationJob) {
	start := time.Now()
	n := job.Notification

	// Detached from the conversion request, which has already been answered.
	ctx, cancel := context.WithTimeout(context.Background(), wp.timeout)
	defer cancel()

	if err := wp.deliver(ctx, n); err != nil {
		utils.Zlog.Error("Failed to deliver webhook notification",
			zap.Int("workerId", workerID),
			zap.String("deliveryId", n.DeliveryID),
			zap.String("documentId", n.DocumentID),
			zap.Int("retryCount", job.RetryCount),
			zap.Error(err))
		wp.requeueFailedJob(workerID, job)
		return
	}

	utils.Zlog.Info("Webhook notification delivered",
		zap.Int("workerId", workerID),
		zap.String("deliveryId", n.DeliveryID),
		zap.String("documentId", n.DocumentID),
		zap.Int("retryCount", job.RetryCount),
		zap.Duration("duration", time.Since(start)))
}

func (wp *WorkerPool) deliver(ctx context.Context, n types.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wp.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", n.DeliveryID)

	resp, err := wp.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// requeueFailedJob schedules another attempt after retryDelay, or gives up
// once maxNotificationRetries is reached.
func (wp *WorkerPool) requeueFailedJob(workerID int, job NotificationJob) {
	if job.RetryCount >= maxNotificationRetries {
		utils.Zlog.Error("Max retries exceeded for webhook notification, dropping",
			zap.Int("workerId", workerID),
			zap.String("deliveryId", job.Notification.DeliveryID),
			zap.String("documentId", job.Notification.DocumentID),
			zap.Int("retryCount", job.RetryCount))
		return
	}

	retryJob := NotificationJob{
		Notification: job.Notification,
		RetryCount:   job.RetryCount + 1,
	}

	time.AfterFunc(wp.retryDelay, func() {
		if ok := wp.Enqueue(retryJob); !ok {
			utils.Zlog.Error("Failed to requeue webhook notification (queue full or stopped), dropping",
				zap.String("deliveryId", retryJob.Notification.DeliveryID),
				zap.String("documentId", retryJob.Notification.DocumentID))
			return
		}
		utils.Zlog.Info("Requeued webhook notification for retry",
			zap.String("deliveryId", retryJob.Notification.DeliveryID),
			zap.Int("retryCount", retryJob.RetryCount))
	})
}
