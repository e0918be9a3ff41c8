package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSelection_SelectReplaces verifies at most one offer per category.
func TestSelection_SelectReplaces(t *testing.T) {
	sel := NewSelection()
	sel.Select(CategoryFlight, "FL-001")
	sel.Select(CategoryFlight, "FL-002")

	id, ok := sel.Get(CategoryFlight)
	assert.True(t, ok)
	assert.Equal(t, "FL-002", id)
	assert.Len(t, sel.Current(), 1)
}

// TestSelection_Clear removes a single category's choice.
func TestSelection_Clear(t *testing.T) {
	sel := NewSelection()
	sel.Select(CategoryFlight, "FL-001")
	sel.Select(CategoryHotel, "HT-001")

	sel.Clear(CategoryFlight)

	_, ok := sel.Get(CategoryFlight)
	assert.False(t, ok)
	_, ok = sel.Get(CategoryHotel)
	assert.True(t, ok)

	// Clearing an empty category is a no-op.
	sel.Clear(CategoryCar)
	assert.Len(t, sel.Current(), 1)
}

// TestSelection_Reset empties every category at once.
func TestSelection_Reset(t *testing.T) {
	sel := NewSelection()
	sel.Select(CategoryFlight, "FL-001")
	sel.Select(CategoryHotel, "HT-001")

	sel.Reset()

	assert.True(t, sel.IsEmpty())
	assert.Empty(t, sel.Current())
}

// TestSelection_CurrentSnapshot verifies mutating the snapshot does not
// affect the selection.
func TestSelection_CurrentSnapshot(t *testing.T) {
	sel := NewSelection()
	sel.Select(CategoryFlight, "FL-001")

	snapshot := sel.Current()
	snapshot[CategoryFlight] = "FL-999"
	snapshot[CategoryHotel] = "HT-001"

	id, _ := sel.Get(CategoryFlight)
	assert.Equal(t, "FL-001", id)
	_, ok := sel.Get(CategoryHotel)
	assert.False(t, ok)
}

// TestSelection_IsEmpty covers the empty state transitions.
func TestSelection_IsEmpty(t *testing.T) {
	sel := NewSelection()
	assert.True(t, sel.IsEmpty())

	sel.Select(CategoryCar, "CR-001")
	assert.False(t, sel.IsEmpty())

	sel.Clear(CategoryCar)
	assert.True(t, sel.IsEmpty())
}
