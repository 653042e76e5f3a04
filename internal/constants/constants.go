package constants

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated user ID
	ContextKeyUserID = "user_id"

	// SessionCookieName is the name of the session cookie
	SessionCookieName = "planner_session"

	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HeatmapDays is the number of days shown on the dashboard heatmap
	HeatmapDays = 30

	// ScoreAuditBatchSize is the number of plans loaded per audit batch
	ScoreAuditBatchSize = 200
)
