package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssue_IsDone(t *testing.T) {
	assert.True(t, Issue{StatusCategory: "Done"}.IsDone())
	assert.True(t, Issue{StatusCategory: "done"}.IsDone())
	assert.False(t, Issue{StatusCategory: "In Progress"}.IsDone())
	assert.False(t, Issue{}.IsDone())
}

func TestGroupedResult_OrderedEpics(t *testing.T) {
	r := NewGroupedResult()
	r.Epics["E2"] = &EpicGroup{EpicKey: "E2"}
	r.Epics["E1"] = &EpicGroup{EpicKey: "E1"}
	r.EpicOrder = []string{"E2", "E1", "E3"}

	groups := r.OrderedEpics()

	assert.Len(t, groups, 2)
	assert.Equal(t, "E2", groups[0].EpicKey)
	assert.Equal(t, "E1", groups[1].EpicKey)
}

func TestEpicGroup_DoneChildren(t *testing.T) {
	g := &EpicGroup{Children: []Issue{
		{Key: "T1", StatusCategory: "Done"},
		{Key: "T2"},
		{Key: "T3", StatusCategory: "DONE"},
	}}

	done := g.DoneChildren()

	assert.Len(t, done, 2)
	assert.Equal(t, "T3", done[1].Key)
}
