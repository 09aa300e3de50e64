package models

// TaskStatus is the stored two-letter status code of a task.
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "BL"
	TaskStatusInProgress TaskStatus = "IP"
	TaskStatusPostponed  TaskStatus = "PP"
	TaskStatusDone       TaskStatus = "DN"
	TaskStatusIsDelayed  TaskStatus = "ID"
	TaskStatusBeingLate  TaskStatus = "LT"
	TaskStatusReview     TaskStatus = "RV"
	TaskStatusClosed     TaskStatus = "CL"
)

var taskStatusLabels = map[TaskStatus]string{
	TaskStatusBacklog:    "Backlog",
	TaskStatusInProgress: "In progress",
	TaskStatusPostponed:  "Postponed",
	TaskStatusDone:       "Done",
	TaskStatusIsDelayed:  "Is delayed",
	TaskStatusBeingLate:  "Being late",
	TaskStatusReview:     "Review",
	TaskStatusClosed:     "Closed",
}

// OverdueEligibleStatuses are the statuses a task still counts as active in;
// once its deadline passes the sweep moves it to TaskStatusIsDelayed.
var OverdueEligibleStatuses = []TaskStatus{
	TaskStatusBacklog,
	TaskStatusInProgress,
	TaskStatusReview,
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

func (s TaskStatus) Label() string {
	if label, ok := taskStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// TaskType classifies the work a task represents.
type TaskType string

const (
	TaskTypeWorkItem    TaskType = "WI"
	TaskTypeBug         TaskType = "BUG"
	TaskTypeRequirement TaskType = "REQ"
	TaskTypeTest        TaskType = "TT"
	TaskTypeKnownIssue  TaskType = "KI"
)

var taskTypeLabels = map[TaskType]string{
	TaskTypeWorkItem:    "Work item",
	TaskTypeBug:         "Bug",
	TaskTypeRequirement: "Requirement",
	TaskTypeTest:        "Test",
	TaskTypeKnownIssue:  "Known issue",
}

func (t TaskType) Valid() bool {
	_, ok := taskTypeLabels[t]
	return ok
}

func (t TaskType) Label() string {
	if label, ok := taskTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "HG"
	TaskPriorityMedium TaskPriority = "MD"
	TaskPriorityLow    TaskPriority = "LW"
)

var taskPriorityLabels = map[TaskPriority]string{
	TaskPriorityHigh:   "High",
	TaskPriorityMedium: "Medium",
	TaskPriorityLow:    "Low",
}

func (p TaskPriority) Valid() bool {
	_, ok := taskPriorityLabels[p]
	return ok
}

func (p TaskPriority) Label() string {
	if label, ok := taskPriorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// RelationType is the stored integer code of a directed task relation.
type RelationType int

const (
	RelationIsBlockedBy       RelationType = 0
	RelationBlocks            RelationType = 1
	RelationIsClonedBy        RelationType = 2
	RelationClones            RelationType = 3
	RelationRelates           RelationType = 4
	RelationHasTestCase       RelationType = 90
	RelationCoversRequirement RelationType = 91
)

var relationTypeLabels = map[RelationType]string{
	RelationIsBlockedBy:       "is blocked by",
	RelationBlocks:            "blocks",
	RelationIsClonedBy:        "is cloned by",
	RelationClones:            "clones",
	RelationRelates:           "relates to",
	RelationHasTestCase:       "has test case",
	RelationCoversRequirement: "covers requirement",
}

func (r RelationType) Valid() bool {
	_, ok := relationTypeLabels[r]
	return ok
}

func (r RelationType) Label() string {
	if label, ok := relationTypeLabels[r]; ok {
		return label
	}
	return "unknown"
}
