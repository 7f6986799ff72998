// Package models defines the canonical data types shared across PharmScribe.
package models

import "fmt"

// EntityType classifies an extracted clinical entity.
type EntityType string

const (
	EntityDrug       EntityType = "DRUG"
	EntityADE        EntityType = "ADE"
	EntityModifier   EntityType = "MODIFIER"
	EntityIndication EntityType = "INDICATION"
)

// Severity grades an adverse event entity.
type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
	SeverityUnknown  Severity = "UNKNOWN"
)

// Sentiment is the overall tone of the narrative.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Entity is one extracted span of clinical meaning. Text is the literal
// substring expected to occur in the source narrative (matched
// case-insensitively by the annotator). Entities may repeat or overlap;
// consumers must tolerate both.
type Entity struct {
	Text        string     `json:"text"`
	Type        EntityType `json:"type"`
	Severity    Severity   `json:"severity,omitempty"`
	Description string     `json:"description,omitempty"`
}

// BilingualAnalysis mirrors the three narrative fields in the secondary
// language (Tamil). Always present on a valid result, even for monolingual
// input.
type BilingualAnalysis struct {
	Summary           string   `json:"summary"`
	ClinicalReasoning string   `json:"clinicalReasoning"`
	SuggestedActions  []string `json:"suggestedActions"`
}

// AnalysisResult is the canonical output of one analysis call. It is created
// by the analysis client and immutable afterwards.
type AnalysisResult struct {
	// Transcript and DetectedLanguage are only meaningful when the
	// originating request carried an audio attachment. The service schema
	// marks transcript required, so it arrives as "" for text input.
	Transcript       string `json:"transcript,omitempty"`
	DetectedLanguage string `json:"detectedLanguage,omitempty"`

	Entities          []Entity  `json:"entities"`
	Summary           string    `json:"summary"`
	ClinicalReasoning string    `json:"clinicalReasoning"`
	SuggestedActions  []string  `json:"suggestedActions"`
	PatientAgeGroup   string    `json:"patientAgeGroup"`
	OverallRiskScore  int       `json:"overallRiskScore"`
	Sentiment         Sentiment `json:"sentiment"`
	Classification    string    `json:"classification"`

	TamilAnalysis *BilingualAnalysis `json:"tamilAnalysis"`
}

// Validate is the completeness gate applied to every parsed service payload.
// A result missing any required field is rejected outright; the caller never
// sees a partially populated report. Transcript and DetectedLanguage stay
// optional: the service schema requires transcript, but it is legitimately
// empty for pure-text input.
func (r *AnalysisResult) Validate() error {
	if r.Summary == "" {
		return fmt.Errorf("missing summary")
	}
	if r.Entities == nil {
		return fmt.Errorf("missing entities")
	}
	if r.ClinicalReasoning == "" {
		return fmt.Errorf("missing clinicalReasoning")
	}
	if r.SuggestedActions == nil {
		return fmt.Errorf("missing suggestedActions")
	}
	if r.PatientAgeGroup == "" {
		return fmt.Errorf("missing patientAgeGroup")
	}
	if r.OverallRiskScore < 0 || r.OverallRiskScore > 100 {
		return fmt.Errorf("overallRiskScore %d out of range [0,100]", r.OverallRiskScore)
	}
	switch r.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
	case "":
		return fmt.Errorf("missing sentiment")
	default:
		return fmt.Errorf("unknown sentiment %q", r.Sentiment)
	}
	if r.Classification == "" {
		return fmt.Errorf("missing classification")
	}
	if r.TamilAnalysis == nil {
		return fmt.Errorf("missing tamilAnalysis")
	}
	if r.TamilAnalysis.Summary == "" {
		return fmt.Errorf("missing tamilAnalysis.summary")
	}
	if r.TamilAnalysis.ClinicalReasoning == "" {
		return fmt.Errorf("missing tamilAnalysis.clinicalReasoning")
	}
	if r.TamilAnalysis.SuggestedActions == nil {
		return fmt.Errorf("missing tamilAnalysis.suggestedActions")
	}
	for i, e := range r.Entities {
		if e.Text == "" {
			return fmt.Errorf("entity %d has empty text", i)
		}
		switch e.Type {
		case EntityDrug, EntityADE, EntityModifier, EntityIndication:
		default:
			return fmt.Errorf("entity %d has unknown type %q", i, e.Type)
		}
	}
	return nil
}
