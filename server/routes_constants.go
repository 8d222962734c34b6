package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Repository picker
	RouteRepositoryList    = "/repositories/list"
	RouteRepositoryRefresh = "/repositories/refresh"

	// Auth Routes
	RouteAuthLogin    = "/auth/login"
	RouteAuthCallback = "/auth/callback"
	RouteAuthSuccess  = "/auth/success"
	RouteAuthLogout   = "/auth/logout"

	RouteDashboard = "/dashboard"

	// Documentation workflow
	RouteGenerate           = "/generate"
	RouteGenerateStart      = "/generate/{id}"
	RouteGenerateStatus     = "/generate/status"
	RouteGenerateRegenerate = "/generate/regenerate"
	RouteGenerateCopy       = "/generate/copy"
	RouteGenerateDownload   = "/generate/download"
	RouteGenerateBack       = "/generate/back"

	// API Routes
	RouteAPISession = "/api/session"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)

// Error codes carried on "/?error=" after a failed login.
const (
	ErrorCodeOAuth      = "oauth_error"
	ErrorCodeAuthFailed = "auth_failed"
)
