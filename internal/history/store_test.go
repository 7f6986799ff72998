package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Entities:          []models.Entity{{Text: "metformin", Type: models.EntityDrug}},
		Summary:           "GI upset after metformin.",
		ClinicalReasoning: "Temporal association with dose increase.",
		SuggestedActions:  []string{"Take with food."},
		PatientAgeGroup:   "Adult",
		OverallRiskScore:  20,
		Sentiment:         models.SentimentNeutral,
		Classification:    "Adverse Drug Reaction",
		TamilAnalysis: &models.BilingualAnalysis{
			Summary:           "வயிற்று உபாதை.",
			ClinicalReasoning: "மருந்து அளவு அதிகரிப்பு.",
			SuggestedActions:  []string{"உணவுடன் எடுக்கவும்."},
		},
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "patient note", "Routine", attachment.ModalityText, sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "patient note", got.SourceText)
	assert.Equal(t, "Routine", got.TriageLevel)
	assert.Equal(t, attachment.ModalityText, got.Modality)
	assert.Equal(t, saved.CreatedAt, got.CreatedAt)
	assert.Equal(t, *sampleResult(), got.Result)
}

func TestStore_GetMissing(t *testing.T) {
	s := testStore(t)

	got, err := s.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, note := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, note, "Routine", attachment.ModalityText, sampleResult())
		require.NoError(t, err)
	}

	records, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, !all[0].CreatedAt.Before(all[len(all)-1].CreatedAt),
		"records must be ordered newest first")
}

func TestStore_Delete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "note", "Routine", attachment.ModalityAudio, sampleResult())
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_LazyInitOnFirstUse(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "lazy.db"))
	t.Cleanup(func() { _ = s.Close() })

	// No explicit Init: first operation opens the database.
	_, err := s.Save(context.Background(), "note", "Urgent", attachment.ModalityText, sampleResult())
	require.NoError(t, err)

	records, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
