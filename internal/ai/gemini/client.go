// Package gemini implements the ai contracts on top of the Google GenAI
// client.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/fmohsen/cvbank/internal/ai"
	"github.com/fmohsen/cvbank/internal/logger"
	"github.com/fmohsen/cvbank/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel     = "gemini-2.5-pro"
	defaultFastModel = "gemini-2.5-flash"

	defaultRetries   = 4
	defaultBaseDelay = 2 * time.Second
	maxJitter        = time.Second

	defaultMaxLogLength = 200
)

// Test seams. waitFor is context-aware so a cancelled command does not hang
// in a backoff window.
var (
	waitFor = utils.WaitFor
	jitter  = func() time.Duration { return time.Duration(rand.Int63n(int64(maxJitter))) }
)

// contentCaller matches genai.Models.GenerateContent.
type contentCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey string
	// Model handles report generation; FastModel handles extraction and
	// scoring.
	Model     string
	FastModel string
	// Retries is the total attempt ceiling for transient failures.
	Retries      int
	BaseDelay    time.Duration
	MaxLogLength int
}

// Generator wraps the GenAI client with retry-on-transient-failure and the
// structured-extraction plumbing shared by the extractor, scorer, and
// reporter.
type Generator struct {
	models    contentCaller
	model     string
	fastModel string
	retries   int
	baseDelay time.Duration
	maxLogLen int
	logger    *zap.Logger
}

func NewGenerator(ctx context.Context, cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	fastModel := strings.TrimSpace(cfg.FastModel)
	if fastModel == "" {
		fastModel = defaultFastModel
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{
		models:    client.Models,
		model:     model,
		fastModel: fastModel,
		retries:   retries,
		baseDelay: baseDelay,
		maxLogLen: maxLogLen,
		logger:    log.With(zap.String("ai_provider", "gemini")),
	}, nil
}

// generate executes one call with bounded exponential backoff. Transient
// failures are retried up to the attempt ceiling with the delay doubled each
// attempt plus random jitter; non-retriable failures propagate immediately.
func (g *Generator) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	delay := g.baseDelay

	for attempt := 1; ; attempt++ {
		resp, err := g.models.GenerateContent(ctx, model, contents, config)
		if err == nil {
			output := collectText(resp)
			if output == "" {
				return "", errors.New("gemini api returned empty response")
			}
			return output, nil
		}

		if !ai.IsRetriable(err) || attempt >= g.retries {
			return "", err
		}

		wait := delay + jitter()
		g.logger.Warn("transient gemini error, retrying",
			zap.String("ai_model", model),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		if werr := waitFor(ctx, wait); werr != nil {
			return "", werr
		}
		delay *= 2
	}
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// extractJSON strips markdown code fences that models occasionally wrap
// around JSON payloads.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func (g *Generator) debugPayload(msg, payload string, fields ...zap.Field) {
	fields = append(fields,
		zap.Int("payload_length", len(payload)),
		zap.String("payload_preview", logger.TruncateForLog(payload, g.maxLogLen)),
	)
	g.logger.Debug(msg, fields...)
}
