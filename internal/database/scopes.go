package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/issue-tracker-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// InProjects restricts a task query to the given projects. An empty list
// matches nothing.
func InProjects(projectIDs []uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(projectIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("tasks.project_id IN ?", projectIDs)
	}
}
