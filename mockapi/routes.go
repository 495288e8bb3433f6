package mockapi

const (
	RouteToken          = "/api/Auth/Token"
	RouteAdminLogin     = "/api/Login/AdminLogin"
	RouteLocationList   = "/api/Location/LocationList"
	RouteInsertLocation = "/api/Location/InsertLocation"
	RouteDashboard      = "/api/Dashboard/GetDashboardData"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAdminLogin, ChainMiddleware(s.AdminLoginHandler(), s.APIMiddleware(s.RequireAuth())...))

	s.RegisterRouteFunc("GET "+RouteLocationList, ChainMiddleware(s.LocationListHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("POST "+RouteInsertLocation, ChainMiddleware(s.InsertLocationHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Browsers send preflight requests to every path.
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
