package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyRepID         = "rep_id"
	KeyRepName       = "rep_name"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
)
