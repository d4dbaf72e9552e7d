// Package alerts delivers scheduler alerts to a chat webhook.
package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ordertracking/internal/core/ports"
	"ordertracking/internal/pkg/errs"
)

const (
	serviceName = "alert webhook"

	// embedColor is the red used for failure embeds.
	embedColor = 0xE74C3C

	displayLayout = "02/01/2006 15:04:05"
)

// WebhookSink posts alerts as a Discord-compatible embed.
type WebhookSink struct {
	url        string
	httpClient *http.Client
	location   *time.Location
	logger     *slog.Logger
}

// NewWebhookSink returns a sink posting to url. An empty url turns Send into a
// logged no-op.
func NewWebhookSink(url string, timeout time.Duration, logger *slog.Logger) *WebhookSink {
	location, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		location = time.FixedZone("ART", -3*60*60)
	}
	return &WebhookSink{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		location:   location,
		logger:     logger.With("component", "alert_webhook"),
	}
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func (s *WebhookSink) Send(ctx context.Context, alert ports.Alert) error {
	if s.url == "" {
		s.logger.Warn("alert webhook not configured, alert dropped",
			"title", alert.Title, "failures", alert.FailureCount)
		return nil
	}

	occurredAt := alert.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	body, err := json.Marshal(webhookPayload{
		Embeds: []embed{{
			Title:       alert.Title,
			Description: alert.Message,
			Color:       embedColor,
			Fields: []embedField{
				{Name: "Consecutive failures", Value: strconv.Itoa(alert.FailureCount), Inline: true},
				{Name: "Date", Value: occurredAt.In(s.location).Format(displayLayout), Inline: true},
			},
			Timestamp: occurredAt.UTC().Format(time.RFC3339),
		}},
	})
	if err != nil {
		return errs.NewExternalServiceError(serviceName, fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return errs.NewExternalServiceError(serviceName, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errs.NewTransientExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewExternalServiceError(serviceName, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}
