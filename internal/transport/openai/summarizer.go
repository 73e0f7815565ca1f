package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselookup/internal/domain"
	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/metrics"
)

const (
	endpointLabel    = "openai_summary"
	defaultMaxInput  = 12000
	defaultMaxTokens = 400
	systemPrompt     = "You summarize court judgments for legal researchers. " +
		"Write one plain paragraph stating the parties, the issue, and the holding. Do not speculate."
)

// CaseSource loads the detail record whose text is summarized.
type CaseSource interface {
	Load(ctx context.Context, id string) (caserecord.CaseRecord, error)
}

// Summarizer produces case summaries with an OpenAI-compatible chat model.
type Summarizer struct {
	client    *openai.Client
	source    CaseSource
	model     string
	maxInput  int
	maxTokens int
	logger    *zap.Logger
}

// Config holds the summary model settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxInput  int // characters of case text sent to the model
	MaxTokens int
	Logger    *zap.Logger
}

// NewSummarizer creates an OpenAI-compatible summary provider.
func NewSummarizer(cfg *Config, source CaseSource) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	s := &Summarizer{
		client:    openai.NewClientWithConfig(clientCfg),
		source:    source,
		model:     cfg.Model,
		maxInput:  cfg.MaxInput,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}
	if s.maxInput <= 0 {
		s.maxInput = defaultMaxInput
	}
	if s.maxTokens <= 0 {
		s.maxTokens = defaultMaxTokens
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Summary loads the case and asks the model for a summary of its text.
func (s *Summarizer) Summary(ctx context.Context, id string) (string, error) {
	rec, err := s.source.Load(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load case: %w", err)
	}
	text := caseText(rec, s.maxInput)
	if text == "" {
		return "", fmt.Errorf("%w: %s has no text to summarize", domain.ErrCaseNotFound, id)
	}

	req := openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpointLabel).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpointLabel, "error").Inc()
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpointLabel, "empty").Inc()
		return "", fmt.Errorf("%w: empty completion", domain.ErrMalformedResponse)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpointLabel, "success").Inc()
	s.logger.Debug("Case summary generated",
		zap.String("id", id),
		zap.String("model", s.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Summarizer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// caseText picks the richest available text and caps it at limit runes.
func caseText(rec caserecord.CaseRecord, limit int) string {
	var b strings.Builder
	b.WriteString(rec.Title)
	if rec.Citation != "" && rec.Citation != caserecord.DefaultCitation {
		b.WriteString(" " + rec.Citation)
	}
	b.WriteString("\n\n")

	switch {
	case rec.FullText != nil && strings.TrimSpace(*rec.FullText) != "":
		b.WriteString(*rec.FullText)
	case rec.Overview != "" && rec.Overview != caserecord.DefaultOverview:
		b.WriteString(rec.Overview)
	case rec.Summary != "" && rec.Summary != caserecord.DefaultSummary:
		b.WriteString(rec.Summary)
	default:
		return ""
	}

	runes := []rune(b.String())
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return strings.TrimSpace(string(runes))
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrUpstream.
func parseAPIError(err error) error {
	wrap := domain.ErrUpstream

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("summary API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("summary API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("summary API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("summary request failed: %w: %w", wrap, err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
