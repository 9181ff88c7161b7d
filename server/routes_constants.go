package server

const (
	RouteRegister    = "/api/v1/auth/register"
	RouteLogin       = "/api/v1/auth/login"
	RouteRefresh     = "/api/v1/auth/refresh"
	RouteLogout      = "/api/v1/auth/logout"
	RouteMe          = "/api/v1/auth/me"
	RoutePreferences = "/api/v1/auth/me/preferences"
	RoutePassword    = "/api/v1/auth/me/password"
)
