// Package annotate maps extracted entities back onto the source narrative as
// an ordered sequence of non-overlapping highlighted spans.
package annotate

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// Segment is a contiguous run of narrative text, either plain (Entity nil)
// or claimed by exactly one matched entity. Concatenating segment texts in
// order reproduces the narrative.
type Segment struct {
	Text   string         `json:"text"`
	Entity *models.Entity `json:"entity,omitempty"`
}

// Annotate splits the narrative into plain and entity-tagged segments.
//
// Entities are processed longest-first so that a short entity cannot claim a
// substring inside a longer overlapping one ("dry cough" wins over "cough").
// Matching is case-insensitive; a matched segment keeps the narrative's
// original casing, not the entity's. Spans claimed by an earlier entity are
// never re-scanned, so if the same literal matches two entities only the
// first-processed one claims it and later duplicates drop out of rendering.
func Annotate(narrative string, entities []models.Entity) []Segment {
	if narrative == "" || len(entities) == 0 {
		return []Segment{{Text: narrative}}
	}

	// Stable sort keeps encounter order as the tie-break between entities
	// of equal length.
	sorted := make([]models.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Text) > utf8.RuneCountInString(sorted[j].Text)
	})

	segments := []Segment{{Text: narrative}}
	for i := range sorted {
		entity := sorted[i]
		if entity.Text == "" {
			continue
		}
		needle := []rune(entity.Text)

		next := make([]Segment, 0, len(segments))
		for _, seg := range segments {
			if seg.Entity != nil {
				next = append(next, seg)
				continue
			}
			next = append(next, splitPlain(seg.Text, needle, entity)...)
		}
		segments = next
	}
	return segments
}

// splitPlain splices one plain segment into {plain, matched} sub-segments at
// every case-insensitive occurrence of needle. Span arithmetic over runes
// avoids both regex escaping and the byte-length drift of ToLower on the
// whole string.
func splitPlain(text string, needle []rune, entity models.Entity) []Segment {
	hay := []rune(text)
	out := make([]Segment, 0, 1)

	start := 0
	for i := 0; i+len(needle) <= len(hay); {
		if !foldEqual(hay[i:i+len(needle)], needle) {
			i++
			continue
		}
		if i > start {
			out = append(out, Segment{Text: string(hay[start:i])})
		}
		matched := entity
		out = append(out, Segment{Text: string(hay[i : i+len(needle)]), Entity: &matched})
		i += len(needle)
		start = i
	}
	if start < len(hay) || len(out) == 0 {
		out = append(out, Segment{Text: string(hay[start:])})
	}
	return out
}

func foldEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] && unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// ColorClass maps an entity to a presentation style class. The match
// computation above is the contract; this mapping is free to vary per
// rendering target.
func ColorClass(e *models.Entity) string {
	if e == nil {
		return ""
	}
	switch e.Type {
	case models.EntityDrug:
		return "drug"
	case models.EntityADE:
		switch e.Severity {
		case models.SeveritySevere:
			return "ade-severe"
		case models.SeverityModerate:
			return "ade-moderate"
		default:
			return "ade"
		}
	case models.EntityModifier:
		return "modifier"
	case models.EntityIndication:
		return "indication"
	default:
		return "entity"
	}
}
