package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/anandvisw/pharmscribe-go/internal/annotate"
	"github.com/anandvisw/pharmscribe-go/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	riskLowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	riskMidStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	riskHighStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	entityStyles = map[string]lipgloss.Style{
		"drug":         lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true),
		"ade":          lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Underline(true),
		"ade-moderate": lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Underline(true),
		"ade-severe":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Underline(true),
		"modifier":     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		"indication":   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"entity":       lipgloss.NewStyle().Underline(true),
	}
)

// isTTY reports whether stdout is a terminal. Piped output gets plain text.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderNarrative prints the narrative with detected entities highlighted.
func renderNarrative(narrative string, entities []models.Entity) string {
	segments := annotate.Annotate(narrative, entities)
	if !isTTY() {
		var b strings.Builder
		for _, seg := range segments {
			if seg.Entity != nil {
				fmt.Fprintf(&b, "[%s]", seg.Text)
			} else {
				b.WriteString(seg.Text)
			}
		}
		return b.String()
	}

	var b strings.Builder
	for _, seg := range segments {
		if seg.Entity == nil {
			b.WriteString(seg.Text)
			continue
		}
		style, ok := entityStyles[annotate.ColorClass(seg.Entity)]
		if !ok {
			style = entityStyles["entity"]
		}
		b.WriteString(style.Render(seg.Text))
	}
	return b.String()
}

func renderRiskScore(score int) string {
	text := fmt.Sprintf("%d/100", score)
	if !isTTY() {
		return text
	}
	switch {
	case score >= 70:
		return riskHighStyle.Render(text)
	case score >= 40:
		return riskMidStyle.Render(text)
	default:
		return riskLowStyle.Render(text)
	}
}

func renderResult(narrative string, result *models.AnalysisResult) string {
	heading := func(s string) string {
		if isTTY() {
			return headingStyle.Render(s)
		}
		return s
	}
	label := func(s string) string {
		if isTTY() {
			return labelStyle.Render(s)
		}
		return s
	}

	var b strings.Builder

	if narrative == "" {
		narrative = result.Transcript
	}
	if narrative != "" {
		b.WriteString(heading("Narrative"))
		b.WriteString("\n")
		b.WriteString(renderNarrative(narrative, result.Entities))
		b.WriteString("\n\n")
	}

	b.WriteString(heading("Report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", label("Classification:"), result.Classification)
	fmt.Fprintf(&b, "%s %s\n", label("Risk score:"), renderRiskScore(result.OverallRiskScore))
	fmt.Fprintf(&b, "%s %s\n", label("Sentiment:"), string(result.Sentiment))
	fmt.Fprintf(&b, "%s %s\n", label("Age group:"), result.PatientAgeGroup)
	if result.DetectedLanguage != "" {
		fmt.Fprintf(&b, "%s %s\n", label("Language:"), result.DetectedLanguage)
	}

	if len(result.Entities) > 0 {
		b.WriteString("\n")
		b.WriteString(heading("Entities"))
		b.WriteString("\n")
		for _, e := range result.Entities {
			line := fmt.Sprintf("- %s [%s", e.Text, string(e.Type))
			if e.Severity != "" && e.Severity != models.SeverityUnknown {
				line += ", " + string(e.Severity)
			}
			line += "]"
			b.WriteString(line)
			if e.Description != "" {
				b.WriteString(" ")
				if isTTY() {
					b.WriteString(dimStyle.Render(e.Description))
				} else {
					b.WriteString(e.Description)
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(heading("Summary"))
	b.WriteString("\n")
	b.WriteString(result.Summary)
	b.WriteString("\n\n")

	b.WriteString(heading("Clinical reasoning"))
	b.WriteString("\n")
	b.WriteString(result.ClinicalReasoning)
	b.WriteString("\n")

	if len(result.SuggestedActions) > 0 {
		b.WriteString("\n")
		b.WriteString(heading("Suggested actions"))
		b.WriteString("\n")
		for _, action := range result.SuggestedActions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
	}

	if result.TamilAnalysis != nil {
		b.WriteString("\n")
		b.WriteString(heading("சுருக்கம் (Tamil summary)"))
		b.WriteString("\n")
		b.WriteString(result.TamilAnalysis.Summary)
		b.WriteString("\n")
	}

	return b.String()
}
