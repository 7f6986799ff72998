package annotate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/anandvisw/pharmscribe-go/internal/models"
)

func joinSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestAnnotate_NoEntityPassthrough(t *testing.T) {
	narrative := "Patient started lisinopril last week."

	segs := Annotate(narrative, nil)

	if len(segs) != 1 {
		t.Fatalf("Annotate() returned %d segments, want 1", len(segs))
	}
	if segs[0].Text != narrative || segs[0].Entity != nil {
		t.Errorf("Annotate() = %+v, want single plain segment with original text", segs[0])
	}
}

func TestAnnotate_EmptyNarrative(t *testing.T) {
	segs := Annotate("", []models.Entity{{Text: "cough", Type: models.EntityADE}})

	if len(segs) != 1 || segs[0].Entity != nil {
		t.Fatalf("Annotate(\"\") = %+v, want single plain segment", segs)
	}
}

func TestAnnotate_LongestMatchPrecedence(t *testing.T) {
	narrative := "dry hacking cough"
	entities := []models.Entity{
		{Text: "cough", Type: models.EntityADE},
		{Text: "dry hacking cough", Type: models.EntityADE, Severity: models.SeverityModerate},
	}

	segs := Annotate(narrative, entities)

	if len(segs) != 1 {
		t.Fatalf("got %d segments, want exactly 1: %+v", len(segs), segs)
	}
	got := segs[0]
	if got.Entity == nil {
		t.Fatal("full phrase was not matched")
	}
	if got.Text != "dry hacking cough" {
		t.Errorf("matched text = %q, want full phrase", got.Text)
	}
	if got.Entity.Text != "dry hacking cough" || got.Entity.Severity != models.SeverityModerate {
		t.Errorf("matched entity = %+v, want the longer entity", got.Entity)
	}
}

func TestAnnotate_CaseInsensitiveCasePreserving(t *testing.T) {
	narrative := "Lisinopril 10mg"
	entities := []models.Entity{{Text: "lisinopril", Type: models.EntityDrug}}

	segs := Annotate(narrative, entities)

	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segs), segs)
	}
	if segs[0].Entity == nil || segs[0].Entity.Type != models.EntityDrug {
		t.Errorf("segment 0 = %+v, want DRUG match", segs[0])
	}
	if segs[0].Text != "Lisinopril" {
		t.Errorf("matched text = %q, want original casing %q", segs[0].Text, "Lisinopril")
	}
	if segs[1].Text != " 10mg" || segs[1].Entity != nil {
		t.Errorf("segment 1 = %+v, want plain trailing text", segs[1])
	}
}

func TestAnnotate_DisjointEntitiesIdempotent(t *testing.T) {
	narrative := "Started metformin, then developed nausea and dizziness overnight."
	entities := []models.Entity{
		{Text: "metformin", Type: models.EntityDrug},
		{Text: "nausea", Type: models.EntityADE, Severity: models.SeverityMild},
		{Text: "dizziness", Type: models.EntityADE, Severity: models.SeverityMild},
	}

	first := Annotate(narrative, entities)
	second := Annotate(narrative, entities)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("annotating twice differs:\n%+v\n%+v", first, second)
	}
	if got := joinSegments(first); got != narrative {
		t.Errorf("concatenated segments = %q, want original narrative", got)
	}

	matched := 0
	for _, s := range first {
		if s.Entity != nil {
			matched++
		}
	}
	if matched != 3 {
		t.Errorf("got %d matched segments, want 3", matched)
	}
}

func TestAnnotate_DuplicateLiteralsClaimedOnce(t *testing.T) {
	// Two entities share a literal; the first-processed one claims every
	// occurrence, the duplicate drops out of rendering.
	narrative := "headache in the morning, headache at night"
	entities := []models.Entity{
		{Text: "headache", Type: models.EntityADE, Severity: models.SeverityMild},
		{Text: "headache", Type: models.EntityModifier},
	}

	segs := Annotate(narrative, entities)

	for _, s := range segs {
		if s.Entity != nil && s.Entity.Type != models.EntityADE {
			t.Errorf("span %q claimed by %v, want first-processed ADE entity", s.Text, s.Entity.Type)
		}
	}
	if got := joinSegments(segs); got != narrative {
		t.Errorf("concatenated segments = %q, want original narrative", got)
	}
}

func TestAnnotate_RepeatedOccurrences(t *testing.T) {
	narrative := "rash on arms, RASH on neck"
	entities := []models.Entity{{Text: "rash", Type: models.EntityADE}}

	segs := Annotate(narrative, entities)

	var matches []string
	for _, s := range segs {
		if s.Entity != nil {
			matches = append(matches, s.Text)
		}
	}
	want := []string{"rash", "RASH"}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("matched texts = %v, want %v", matches, want)
	}
	if got := joinSegments(segs); got != narrative {
		t.Errorf("concatenated segments = %q, want original narrative", got)
	}
}

func TestAnnotate_OverlapDoesNotSplitClaimedSpan(t *testing.T) {
	// "severe rash" claims its span first; the shorter "rash" still
	// matches elsewhere but must not re-split the claimed segment.
	narrative := "a severe rash and a mild rash"
	entities := []models.Entity{
		{Text: "rash", Type: models.EntityADE},
		{Text: "severe rash", Type: models.EntityADE, Severity: models.SeveritySevere},
	}

	segs := Annotate(narrative, entities)

	var got []struct {
		text     string
		severity models.Severity
	}
	for _, s := range segs {
		if s.Entity != nil {
			got = append(got, struct {
				text     string
				severity models.Severity
			}{s.Text, s.Entity.Severity})
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(got), segs)
	}
	if got[0].text != "severe rash" || got[0].severity != models.SeveritySevere {
		t.Errorf("first match = %+v, want severe rash", got[0])
	}
	if got[1].text != "rash" {
		t.Errorf("second match = %+v, want trailing plain rash", got[1])
	}
}

func TestAnnotate_SkipsEmptyEntityText(t *testing.T) {
	narrative := "no change expected"
	entities := []models.Entity{{Text: "", Type: models.EntityADE}}

	segs := Annotate(narrative, entities)

	if len(segs) != 1 || segs[0].Text != narrative || segs[0].Entity != nil {
		t.Errorf("Annotate() = %+v, want untouched narrative", segs)
	}
}

func TestColorClass(t *testing.T) {
	tests := []struct {
		name   string
		entity *models.Entity
		want   string
	}{
		{"nil entity", nil, ""},
		{"drug", &models.Entity{Type: models.EntityDrug}, "drug"},
		{"severe ade", &models.Entity{Type: models.EntityADE, Severity: models.SeveritySevere}, "ade-severe"},
		{"moderate ade", &models.Entity{Type: models.EntityADE, Severity: models.SeverityModerate}, "ade-moderate"},
		{"mild ade", &models.Entity{Type: models.EntityADE, Severity: models.SeverityMild}, "ade"},
		{"modifier", &models.Entity{Type: models.EntityModifier}, "modifier"},
		{"indication", &models.Entity{Type: models.EntityIndication}, "indication"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorClass(tt.entity); got != tt.want {
				t.Errorf("ColorClass() = %q, want %q", got, tt.want)
			}
		})
	}
}
