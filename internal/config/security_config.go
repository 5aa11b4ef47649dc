package config

import "fieldops-backend/internal/domain"

// EndpointAccess describes who may call an endpoint. A nil Roles slice marks
// a public endpoint.
type EndpointAccess struct {
	Roles []domain.Role
}

func (a EndpointAccess) Public() bool {
	return a.Roles == nil
}

var (
	public         = EndpointAccess{}
	technicianOnly = EndpointAccess{Roles: []domain.Role{domain.RoleTechnician}}
	adminOrCEO     = EndpointAccess{Roles: []domain.Role{domain.RoleAdmin, domain.RoleCEO}}
	adminOnly      = EndpointAccess{Roles: []domain.Role{domain.RoleAdmin}}
)

// EndpointSecurityConfig maps "METHOD route-template" to its access rule.
var EndpointSecurityConfig = map[string]EndpointAccess{
	// Auth - Public
	"POST /api/auth/login":           public,
	"POST /api/auth/register":        public,
	"POST /api/auth/forgot-password": public,
	"POST /api/auth/reset-password":  public,
	"POST /api/tech/check-block":     public,
	"GET /healthz":                   public,

	// Email verification - Public
	"GET /api/auth/verify-email":         public,
	"POST /api/auth/resend-verification": public,
	"GET /api/auth/check-verified":       public,

	// Technician operations
	"POST /api/work-sessions/start":   technicianOnly,
	"POST /api/work-sessions/end":     technicianOnly,
	"GET /api/work-sessions/current":  technicianOnly,
	"POST /api/location/update":       technicianOnly,
	"GET /api/projects/assigned":      technicianOnly,
	"PATCH /api/projects/{id}/status": technicianOnly,

	// Back office - Admin and CEO
	"GET /api/technicians/live-locations": adminOrCEO,
	"GET /api/dashboard/metrics":          adminOrCEO,
	"GET /api/users":                      adminOrCEO,
	"GET /api/users/{id}":                 adminOrCEO,
	"GET /api/projects":                   adminOrCEO,
	"POST /api/projects":                  adminOrCEO,
	"GET /api/projects/{id}":              adminOrCEO,
	"PATCH /api/projects/{id}":            adminOrCEO,
	"DELETE /api/projects/{id}":           adminOrCEO,

	// User administration - Admin only
	"POST /api/users":        adminOnly,
	"PATCH /api/users/{id}":  adminOnly,
	"DELETE /api/users/{id}": adminOnly,
}

// GetEndpointAccess returns the access rule for a route. Unknown routes
// admit no role at all.
func GetEndpointAccess(method, pathTemplate string) EndpointAccess {
	if access, exists := EndpointSecurityConfig[method+" "+pathTemplate]; exists {
		return access
	}
	return EndpointAccess{Roles: []domain.Role{}}
}

// RPCSecurityConfig maps full gRPC method names to their access rule.
var RPCSecurityConfig = map[string]EndpointAccess{
	"/grpc.health.v1.Health/Check":      public,
	"/grpc.health.v1.Health/Watch":      public,
	"/fieldops.v1.Dashboard/GetMetrics": adminOrCEO,
}

// GetRPCAccess returns the access rule for a gRPC method. Unknown methods
// admit no role at all.
func GetRPCAccess(fullMethod string) EndpointAccess {
	if access, exists := RPCSecurityConfig[fullMethod]; exists {
		return access
	}
	return EndpointAccess{Roles: []domain.Role{}}
}
