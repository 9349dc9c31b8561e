package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys set by Middleware for downstream handlers.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	UserRoleKey = "user_role"
)

// Role codes carried in session tokens. They mirror identity.Role.
const (
	RoleSystemAdmin        = "system-admin"
	RoleHospitalAdmin      = "hospital-admin"
	RoleDoctor             = "doctor"
	RoleNurse              = "nurse"
	RoleInsuranceAdmin     = "insurance-admin"
	RoleClaimsProcessor    = "claims-processor"
	RoleUnderwriter        = "underwriter"
	RolePharmacyAdmin      = "pharmacy-admin"
	RolePharmacist         = "pharmacist"
	RolePharmacyTechnician = "pharmacy-technician"
	RoleSupplierAdmin      = "supplier-admin"
	RoleSupplierManager    = "supplier-manager"
	RolePatient            = "patient"
)

// Middleware validates the Bearer token on every request and stashes the
// caller's identity in the echo context. Paths matched by skipper pass
// through unauthenticated.
func Middleware(issuer *Issuer, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must be a bearer token")
			}

			claims, err := issuer.Parse(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session token")
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(UsernameKey, claims.Username)
			c.Set(UserRoleKey, claims.Role)
			return next(c)
		}
	}
}

// DefaultSkipper exempts the health check, login and registration endpoints.
func DefaultSkipper(c echo.Context) bool {
	path := c.Path()
	return path == "/health" || path == "/api/v1/auth/login" || path == "/api/v1/auth/register"
}

// RequireRole guards a route group, allowing only callers whose session role
// is one of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(UserRoleKey).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated session")
			}
			if !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller's user id, if any.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

// Role returns the authenticated caller's role code, if any.
func Role(c echo.Context) string {
	role, _ := c.Get(UserRoleKey).(string)
	return role
}
