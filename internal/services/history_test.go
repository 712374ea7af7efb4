package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestReconstruct_OldestFirstWithReplies(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	rows := []models.ChatInteraction{
		{ID: "3", Message: "C", Response: strPtr("rC"), Timestamp: t3},
		{ID: "2", Message: "B", Response: strPtr("rB"), Timestamp: t2},
		{ID: "1", Message: "A", Response: nil, Timestamp: t1},
	}

	got := Reconstruct(rows)
	require.Len(t, got, 5)

	want := []struct{ id, role, content string }{
		{"user_1", models.RoleUser, "A"},
		{"user_2", models.RoleUser, "B"},
		{"assistant_2", models.RoleAssistant, "rB"},
		{"user_3", models.RoleUser, "C"},
		{"assistant_3", models.RoleAssistant, "rC"},
	}
	for i, w := range want {
		assert.Equal(t, w.id, got[i].ID)
		assert.Equal(t, w.role, got[i].Role)
		assert.Equal(t, w.content, got[i].Content)
	}
	assert.Equal(t, t2, got[2].Timestamp)
}

func TestReconstruct_EmptyResponseSkipped(t *testing.T) {
	got := Reconstruct([]models.ChatInteraction{{ID: "1", Message: "hi", Response: strPtr("")}})
	require.Len(t, got, 1)
	assert.Equal(t, models.RoleUser, got[0].Role)
}

func TestReconstruct_IdempotentAndPure(t *testing.T) {
	rows := []models.ChatInteraction{
		{ID: "2", Message: "B", Response: strPtr("rB")},
		{ID: "1", Message: "A"},
	}
	first := Reconstruct(rows)
	second := Reconstruct(rows)
	assert.Equal(t, first, second)
	assert.Equal(t, "2", rows[0].ID, "input must not be reordered")
}

func TestReconstruct_Empty(t *testing.T) {
	got := Reconstruct(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
