// Package relations folds directed task relation edges into categories seen
// from one task's point of view.
//
// Every relation type has a partner: "blocks" pairs with "is blocked by",
// "clones" with "is cloned by", "has test case" with "covers requirement", and
// "relates to" with itself. An edge stored as (A, B, t) is reported under t
// when querying A, and under the partner of t when querying B.
package relations

import (
	"github.com/yukikurage/issue-tracker-api/internal/models"
)

var pairs = buildPairs(map[models.RelationType]models.RelationType{
	models.RelationIsBlockedBy: models.RelationBlocks,
	models.RelationIsClonedBy:  models.RelationClones,
	models.RelationHasTestCase: models.RelationCoversRequirement,
	models.RelationRelates:     models.RelationRelates,
})

func buildPairs(base map[models.RelationType]models.RelationType) map[models.RelationType]models.RelationType {
	table := make(map[models.RelationType]models.RelationType, len(base)*2)
	for a, b := range base {
		table[a] = b
		table[b] = a
	}
	return table
}

// Pair returns the relation type that describes an edge of type t from the
// target task's side. ok is false for types without a partner.
func Pair(t models.RelationType) (models.RelationType, bool) {
	p, ok := pairs[t]
	return p, ok
}

// Category is one bucket of related tasks sharing a relation type.
type Category struct {
	RelationType models.RelationType
	Tasks        []models.Task
}

// Group buckets the edges incident to taskID. Outgoing edges contribute their
// target under their own type; incoming edges contribute their source under
// the paired type and are skipped when the type has no partner.
//
// Categories appear in the order their first task was discovered, outgoing
// edges before incoming ones; tasks keep discovery order within a category.
// Outgoing edges need ToTask loaded, incoming edges FromTask.
func Group(taskID uint64, outgoing, incoming []models.TaskRelation) []Category {
	var categories []Category
	index := make(map[models.RelationType]int)

	add := func(t models.RelationType, task models.Task) {
		i, ok := index[t]
		if !ok {
			i = len(categories)
			index[t] = i
			categories = append(categories, Category{RelationType: t})
		}
		categories[i].Tasks = append(categories[i].Tasks, task)
	}

	for _, edge := range outgoing {
		if edge.FromTaskID != taskID {
			continue
		}
		add(edge.RelationType, edge.ToTask)
	}

	for _, edge := range incoming {
		if edge.ToTaskID != taskID {
			continue
		}
		paired, ok := Pair(edge.RelationType)
		if !ok {
			continue
		}
		add(paired, edge.FromTask)
	}

	return categories
}
