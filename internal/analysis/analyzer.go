// Package analysis orchestrates one-shot clinical narrative analysis against
// the generative service.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/metrics"
	"github.com/anandvisw/pharmscribe-go/internal/models"
	"github.com/anandvisw/pharmscribe-go/internal/router"
)

// fallbackPrompt is used when the request carries only an attachment.
const fallbackPrompt = "Analyze this clinical input."

// Transport is the structured-generation call the analyzer depends on.
// Satisfied by gemini.Client.
type Transport interface {
	GenerateStructured(ctx context.Context, sel router.Selection, prompt string, att *attachment.Attachment) (string, error)
}

// Request is one analysis submission. The attachment, if any, is owned by
// this request and discarded after the call completes.
type Request struct {
	Text        string
	TriageLevel string
	Attachment  *attachment.Attachment
}

// Analyzer is the analysis client. It is stateless; calls may be repeated
// without coordination.
type Analyzer struct {
	transport Transport
	router    *router.Router
	logger    *slog.Logger
}

// New creates an analyzer.
func New(transport Transport, r *router.Router, logger *slog.Logger) *Analyzer {
	return &Analyzer{transport: transport, router: r, logger: logger}
}

// Analyze runs one analysis call and returns the validated canonical result.
// Invalid input is rejected before any network call; a payload that fails the
// schema gate is rejected outright, never returned partially populated.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (result *models.AnalysisResult, err error) {
	start := time.Now()
	defer func() { metrics.Observe(metrics.OpAnalyze, start, err) }()

	sel, err := a.router.Route(req.Text, req.Attachment, req.TriageLevel)
	if err != nil {
		return nil, err
	}

	prompt := req.Text
	if strings.TrimSpace(prompt) == "" {
		prompt = fallbackPrompt
	}

	a.logger.Info("analysis requested",
		"model", sel.Model,
		"modality", string(req.Attachment.Modality()),
		"triage", req.TriageLevel)

	payload, err := a.transport.GenerateStructured(ctx, sel, prompt, req.Attachment)
	if err != nil {
		return nil, err
	}

	parsed, err := parseResult(payload)
	if err != nil {
		a.logger.Warn("analysis payload rejected", "error", err)
		return nil, err
	}

	metrics.ObserveEntities(len(parsed.Entities))
	a.logger.Info("analysis completed",
		"entities", len(parsed.Entities),
		"risk_score", parsed.OverallRiskScore,
		"classification", parsed.Classification)
	return parsed, nil
}

// requiredFields must be present and non-null in every payload. transcript
// is required by the wire schema but tolerated when absent or empty, since
// it carries nothing for pure-text input.
var requiredFields = []string{
	"entities", "summary", "patientAgeGroup", "overallRiskScore",
	"clinicalReasoning", "suggestedActions", "sentiment", "classification",
	"tamilAnalysis",
}

// parseResult decodes and validates a service payload. Every failure is a
// schema violation.
func parseResult(payload string) (*models.AnalysisResult, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, fmt.Errorf("%w: parse payload: %v", models.ErrSchema, err)
	}
	for _, field := range requiredFields {
		raw, ok := probe[field]
		if !ok || string(raw) == "null" {
			return nil, fmt.Errorf("%w: payload missing required field %q", models.ErrSchema, field)
		}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("%w: parse payload: %v", models.ErrSchema, err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSchema, err)
	}
	return &result, nil
}
