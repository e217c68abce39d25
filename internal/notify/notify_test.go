package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessToastExpires(t *testing.T) {
	center := NewCenter(30 * time.Millisecond)

	center.Success("Fixed: rewrote import")
	require.Len(t, center.List(), 1)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, center.List())
}

func TestEscalationPersists(t *testing.T) {
	center := NewCenter(10 * time.Millisecond)

	n := center.Escalation("Automatic fix failed: generation failed", "TypeError: boom")
	assert.Equal(t, KindEscalation, n.Kind)
	assert.Equal(t, "TypeError: boom", n.Error)

	time.Sleep(30 * time.Millisecond)
	list := center.List()
	require.Len(t, list, 1)
	assert.Equal(t, KindEscalation, list[0].Kind)
}

func TestDismiss(t *testing.T) {
	center := NewCenter(time.Minute)
	n := center.Escalation("failed", "boom")

	assert.False(t, center.Dismiss("nope"))
	assert.True(t, center.Dismiss(n.ID))
	assert.Empty(t, center.List())
}

func TestDismissPromptsKeepsOthers(t *testing.T) {
	center := NewCenter(time.Minute)
	center.Prompt("TypeError: boom")
	kept := center.Escalation("failed", "other")

	center.DismissPrompts()

	list := center.List()
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestPromptCarriesErrorText(t *testing.T) {
	center := NewCenter(time.Minute)
	n := center.Prompt("ReferenceError: x is not defined")

	assert.Equal(t, KindPrompt, n.Kind)
	assert.Equal(t, "ReferenceError: x is not defined", n.Error)
	assert.NotEmpty(t, n.Message)
}
