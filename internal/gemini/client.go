// Package gemini wraps the Gemini API behind the two call shapes the core
// depends on: structured generation and speech generation.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/config"
	"github.com/anandvisw/pharmscribe-go/internal/models"
	"github.com/anandvisw/pharmscribe-go/internal/router"
)

// Client is the Gemini-backed transport. It holds no per-request state and
// is safe for repeated use.
type Client struct {
	genai       *genai.Client
	speechModel string
	logger      *slog.Logger
}

// NewClient creates the transport from configuration.
func NewClient(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		genai:       gc,
		speechModel: cfg.ModelSpeech,
		logger:      logger,
	}, nil
}

// GenerateStructured sends one request turn (prompt plus optional inline
// attachment) constrained to the fixed response schema, and returns the raw
// JSON payload text.
func (c *Client) GenerateStructured(ctx context.Context, sel router.Selection, prompt string, att *attachment.Attachment) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if att != nil {
		raw, err := att.Bytes()
		if err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		parts = append(parts, genai.NewPartFromBytes(raw, att.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, sel.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(sel.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    router.ResultSchema(),
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrTransport, err)
	}

	payload := resp.Text()
	c.logger.Debug("structured generation completed",
		"model", sel.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"payload_bytes", len(payload))

	if payload == "" {
		return "", fmt.Errorf("%w: service returned an empty payload", models.ErrSchema)
	}
	return payload, nil
}

// GenerateSpeech requests raw audio for the given text and voice preset and
// returns little-endian PCM16 bytes.
func (c *Client) GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.speechModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTransport, err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				c.logger.Debug("speech generation completed",
					"model", c.speechModel,
					"voice", voice,
					"duration_ms", time.Since(start).Milliseconds(),
					"audio_bytes", len(part.InlineData.Data))
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: service returned no audio data", models.ErrSchema)
}
