package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_Label(t *testing.T) {
	assert.Equal(t, "Is delayed", TaskStatusIsDelayed.Label())
	assert.Equal(t, "Done", TaskStatusDone.Label())
	assert.Equal(t, "ZZ", TaskStatus("ZZ").Label())
	assert.False(t, TaskStatus("ZZ").Valid())
}

func TestOverdueEligibleStatuses_ExcludeTerminal(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusDone, TaskStatusClosed, TaskStatusIsDelayed, TaskStatusPostponed} {
		assert.NotContains(t, OverdueEligibleStatuses, s)
	}
}

func TestRelationType_Valid(t *testing.T) {
	for _, r := range []RelationType{
		RelationIsBlockedBy, RelationBlocks, RelationIsClonedBy, RelationClones,
		RelationRelates, RelationHasTestCase, RelationCoversRequirement,
	} {
		assert.True(t, r.Valid(), r.Label())
	}
	assert.False(t, RelationType(5).Valid())
	assert.Equal(t, "unknown", RelationType(5).Label())
}

func TestTypeAndPriority_Labels(t *testing.T) {
	assert.Equal(t, "Known issue", TaskTypeKnownIssue.Label())
	assert.True(t, TaskTypeBug.Valid())
	assert.Equal(t, "High", TaskPriorityHigh.Label())
	assert.False(t, TaskPriority("XX").Valid())
}
