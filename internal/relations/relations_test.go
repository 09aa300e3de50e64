package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/issue-tracker-api/internal/models"
)

func task(id uint64, name string) models.Task {
	return models.Task{ID: id, Name: name}
}

func edge(from, to models.Task, t models.RelationType) models.TaskRelation {
	return models.TaskRelation{
		FromTaskID:   from.ID,
		ToTaskID:     to.ID,
		RelationType: t,
		FromTask:     from,
		ToTask:       to,
	}
}

func taskIDs(tasks []models.Task) []uint64 {
	ids := make([]uint64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestPair_IsSymmetric(t *testing.T) {
	tests := []struct {
		in   models.RelationType
		want models.RelationType
	}{
		{models.RelationIsBlockedBy, models.RelationBlocks},
		{models.RelationBlocks, models.RelationIsBlockedBy},
		{models.RelationIsClonedBy, models.RelationClones},
		{models.RelationClones, models.RelationIsClonedBy},
		{models.RelationHasTestCase, models.RelationCoversRequirement},
		{models.RelationCoversRequirement, models.RelationHasTestCase},
		{models.RelationRelates, models.RelationRelates},
	}

	for _, tt := range tests {
		t.Run(tt.in.Label(), func(t *testing.T) {
			got, ok := Pair(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)

			back, ok := Pair(got)
			require.True(t, ok)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestPair_Unknown(t *testing.T) {
	_, ok := Pair(models.RelationType(42))
	assert.False(t, ok)
}

func TestGroup_BlocksFromBothEnds(t *testing.T) {
	a, b := task(1, "A"), task(2, "B")
	e := edge(a, b, models.RelationBlocks)

	fromA := Group(a.ID, []models.TaskRelation{e}, nil)
	require.Len(t, fromA, 1)
	assert.Equal(t, models.RelationBlocks, fromA[0].RelationType)
	assert.Equal(t, []uint64{b.ID}, taskIDs(fromA[0].Tasks))

	fromB := Group(b.ID, nil, []models.TaskRelation{e})
	require.Len(t, fromB, 1)
	assert.Equal(t, models.RelationIsBlockedBy, fromB[0].RelationType)
	assert.Equal(t, []uint64{a.ID}, taskIDs(fromB[0].Tasks))
}

func TestGroup_IsBlockedByStoredReverse(t *testing.T) {
	a, b := task(1, "A"), task(2, "B")
	e := edge(b, a, models.RelationIsBlockedBy)

	fromA := Group(a.ID, nil, []models.TaskRelation{e})
	require.Len(t, fromA, 1)
	assert.Equal(t, models.RelationBlocks, fromA[0].RelationType)
	assert.Equal(t, []uint64{b.ID}, taskIDs(fromA[0].Tasks))

	fromB := Group(b.ID, []models.TaskRelation{e}, nil)
	require.Len(t, fromB, 1)
	assert.Equal(t, models.RelationIsBlockedBy, fromB[0].RelationType)
}

func TestGroup_RelatesIsSelfPaired(t *testing.T) {
	a, b := task(1, "A"), task(2, "B")
	e := edge(a, b, models.RelationRelates)

	fromA := Group(a.ID, []models.TaskRelation{e}, nil)
	fromB := Group(b.ID, nil, []models.TaskRelation{e})

	require.Len(t, fromA, 1)
	require.Len(t, fromB, 1)
	assert.Equal(t, models.RelationRelates, fromA[0].RelationType)
	assert.Equal(t, models.RelationRelates, fromB[0].RelationType)
	assert.Equal(t, []uint64{b.ID}, taskIDs(fromA[0].Tasks))
	assert.Equal(t, []uint64{a.ID}, taskIDs(fromB[0].Tasks))
}

func TestGroup_DiscoveryOrder(t *testing.T) {
	a, b, c, d := task(1, "A"), task(2, "B"), task(3, "C"), task(4, "D")

	outgoing := []models.TaskRelation{
		edge(a, b, models.RelationBlocks),
		edge(a, c, models.RelationHasTestCase),
	}
	incoming := []models.TaskRelation{
		edge(d, a, models.RelationIsBlockedBy), // a blocks d
		edge(c, a, models.RelationRelates),
	}

	got := Group(a.ID, outgoing, incoming)
	require.Len(t, got, 3)

	assert.Equal(t, models.RelationBlocks, got[0].RelationType)
	assert.Equal(t, []uint64{b.ID, d.ID}, taskIDs(got[0].Tasks))
	assert.Equal(t, models.RelationHasTestCase, got[1].RelationType)
	assert.Equal(t, []uint64{c.ID}, taskIDs(got[1].Tasks))
	assert.Equal(t, models.RelationRelates, got[2].RelationType)
	assert.Equal(t, []uint64{c.ID}, taskIDs(got[2].Tasks))
}

func TestGroup_DuplicateEdgesAreKept(t *testing.T) {
	a, b := task(1, "A"), task(2, "B")
	e := edge(a, b, models.RelationClones)

	got := Group(a.ID, []models.TaskRelation{e, e}, nil)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Tasks, 2)
}

func TestGroup_UnpairedIncomingIsSkipped(t *testing.T) {
	a, b := task(1, "A"), task(2, "B")
	unknown := edge(b, a, models.RelationType(42))

	assert.NotPanics(t, func() {
		got := Group(a.ID, nil, []models.TaskRelation{unknown})
		assert.Empty(t, got)
	})
}

func TestGroup_NoEdges(t *testing.T) {
	assert.Empty(t, Group(1, nil, nil))
}
