package server

import (
	"net/http"

	"github.com/novawrites/auth-service/auth"
	"github.com/novawrites/auth-service/internal/config"
	"github.com/novawrites/auth-service/users"
)

// Server is the JSON/HTTP transport in front of the auth service.
type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.Service
	users  *users.Store
}

func New(cfg config.Config, authService *auth.Service, userStore *users.Store) *Server {
	s := &Server{
		env:    cfg.Env,
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authService,
		users:  userStore,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initRoutes() {
	api := s.APIMiddleware()

	s.RegisterRouteFunc("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), api...))

	s.RegisterRouteFunc("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.authMiddleware(api)...))
	s.RegisterRouteFunc("PUT "+RouteMe, ChainMiddleware(s.UpdateProfileHandler(), s.authMiddleware(api)...))
	s.RegisterRouteFunc("PUT "+RoutePreferences, ChainMiddleware(s.UpdatePreferencesHandler(), s.authMiddleware(api)...))
	s.RegisterRouteFunc("PUT "+RoutePassword, ChainMiddleware(s.ChangePasswordHandler(), s.authMiddleware(api)...))
}

func (s *Server) authMiddleware(base []func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	return append(append([]func(http.HandlerFunc) http.HandlerFunc{}, base...), s.RequireBearerAuth())
}
