package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForwardOnly(t *testing.T) {
	cases := []struct {
		from RequestStatus
		to   RequestStatus
		ok   bool
	}{
		{StatusRequesting, StatusToReceive, true},
		{StatusProcessing, StatusToReceive, true},
		{StatusToReceive, StatusCompleted, true},
		{StatusProcessing, StatusCompleted, false},
		{StatusToReceive, StatusProcessing, false},
		{StatusCompleted, StatusToReceive, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusProcessing, "Lost", false},
		{"Lost", StatusToReceive, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanAdvanceTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAdvanceRejectsIllegalMove(t *testing.T) {
	r := DocumentRequest{ID: "r1", Status: StatusProcessing}
	require.False(t, r.Advance(StatusCompleted))
	assert.Equal(t, StatusProcessing, r.Status)

	require.True(t, r.Advance(StatusToReceive))
	require.True(t, r.Advance(StatusCompleted))
	assert.Equal(t, StatusCompleted, r.Status)
}

func TestEditableStates(t *testing.T) {
	assert.True(t, StatusRequesting.Editable())
	assert.True(t, StatusProcessing.Editable())
	assert.False(t, StatusToReceive.Editable())
	assert.False(t, StatusCompleted.Editable())
}

func TestProjectTabTotality(t *testing.T) {
	items := []DocumentRequest{
		{ID: "a", Status: StatusRequesting},
		{ID: "b", Status: StatusProcessing},
		{ID: "c", Status: StatusToReceive},
		{ID: "d", Status: StatusCompleted},
		{ID: "e", Status: StatusProcessing},
	}

	seen := map[string]int{}
	total := 0
	for _, tab := range Tabs {
		for _, item := range ProjectTab(items, tab) {
			seen[item.ID]++
			total++
		}
	}

	// Every entity appears in exactly one tab.
	require.Equal(t, len(items), total)
	for _, item := range items {
		assert.Equal(t, 1, seen[item.ID], "entity %s", item.ID)
	}
}

func TestProjectTabRequestingCountsAsProcessing(t *testing.T) {
	items := []DocumentRequest{{ID: "a", Status: StatusRequesting}}
	got := ProjectTab(items, TabProcessing)
	require.Len(t, got, 1)
	assert.Empty(t, ProjectTab(items, TabToReceive))
	assert.Empty(t, ProjectTab(items, TabCompleted))
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("To Receive")
	require.True(t, ok)
	assert.Equal(t, TabToReceive, tab)

	tab, ok = ParseTab("")
	require.True(t, ok)
	assert.Equal(t, TabProcessing, tab)

	_, ok = ParseTab("Archived")
	assert.False(t, ok)
}
