package common

// SessionCookieName is the cookie that carries the collaborator's access
// token between the browser and the web server.
const SessionCookieName = "recipebox_session"

// Page paths shared by the session guard and the web renderer.
const (
	LoginPath     = "/login"
	LogoutPath    = "/logout"
	ListPath      = "/"
	AddRecipePath = "/recipes/new"
)

// RecipesTable is the collaborator table holding recipe rows.
const RecipesTable = "recipes"
