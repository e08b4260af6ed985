package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/posturelab/postura/internal/model"
)

// CompletionPayload is the document POSTed to a caller's callback URL
// when its job reaches a terminal state.
type CompletionPayload struct {
	JobID     string                `json:"job_id"`
	Status    model.JobStatus       `json:"status"`
	Message   string                `json:"message,omitempty"`
	Result    *model.AnalysisReport `json:"result,omitempty"`
	Timestamp string                `json:"timestamp"`
}

// Notifier delivers job completion callbacks with exponential-backoff
// retries. Delivery is strictly best-effort: a dead callback endpoint
// never changes a job's outcome.
type Notifier struct {
	httpClient *http.Client
	retry      *RetryStrategy
}

// NewNotifier creates a notifier. timeout bounds a single delivery
// attempt.
func NewNotifier(timeout time.Duration, retryConfig RetryConfig) *Notifier {
	return &Notifier{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: NewRetryStrategy(retryConfig),
	}
}

// NotifyCompletion posts the terminal job snapshot to callbackURL,
// retrying per the configured strategy.
func (n *Notifier) NotifyCompletion(ctx context.Context, callbackURL string, job model.Job) {
	payload := CompletionPayload{
		JobID:     job.JobID,
		Status:    job.Status,
		Message:   job.Message,
		Result:    job.Result,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal callback payload", "job_id", job.JobID, "error", err)
		return
	}

	for attempt := 1; attempt <= n.retry.GetMaxAttempts(); attempt++ {
		statusCode, err := n.deliver(ctx, callbackURL, body)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			slog.Info("Callback delivered",
				"job_id", job.JobID,
				"callback_url", callbackURL,
				"attempt", attempt,
				"status_code", statusCode,
			)
			return
		}

		if !n.retry.ShouldRetry(attempt, statusCode, err) {
			slog.Warn("Callback delivery failed, not retrying",
				"job_id", job.JobID,
				"callback_url", callbackURL,
				"attempt", attempt,
				"status_code", statusCode,
				"error", err,
			)
			return
		}

		delay := n.retry.CalculateDelay(attempt)
		slog.Warn("Callback delivery failed, retrying",
			"job_id", job.JobID,
			"callback_url", callbackURL,
			"attempt", attempt,
			"next_retry_ms", delay.Milliseconds(),
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}

	slog.Warn("Callback delivery failed after all retries",
		"job_id", job.JobID,
		"callback_url", callbackURL,
		"attempts", n.retry.GetMaxAttempts(),
	)
}

func (n *Notifier) deliver(ctx context.Context, callbackURL string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
