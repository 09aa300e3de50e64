package constants

// Session and context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	ContextKeyProject   = "project"
	ContextKeyMember    = "project_member"
	ContextKeyTask      = "task"

	SessionCookieName = "tracker_session"
	RequestIDHeader   = "X-Request-ID"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds page so the row offset stays far from int overflow.
	MaxPage         = 1_000_000
)

// Validation limits
const (
	MinPasswordLength   = 8
	MaxShortCodeLength  = 4
	MaxAIGeneratedTasks = 20
)

// ProjectManagerRoleName is the seeded role granted to the creator of a project.
const ProjectManagerRoleName = "Project manager"
