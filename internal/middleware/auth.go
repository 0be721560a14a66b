package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/policy"
	"hrdesk/internal/service"
)

const (
	ContextKeyUserID  = "user_id"
	ContextKeyEmail   = "email"
	ContextKeyRole    = "role"
	ContextKeyClaims  = "claims"
	ContextKeySession = "session"
)

// AuthMiddleware returns Gin middleware that validates JWT tokens and injects
// the caller's session.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeySession, claims.Session())
		c.Next()
	}
}

// ResourceFunc resolves the resource a request targets.
type ResourceFunc func(c *gin.Context) (policy.Resource, error)

// Collection returns a ResourceFunc for a collection-level resource.
func Collection(kind string) ResourceFunc {
	return func(*gin.Context) (policy.Resource, error) { return policy.Any(kind), nil }
}

// EmployeeParam returns a ResourceFunc for the employee named by the path parameter.
func EmployeeParam(name string) ResourceFunc {
	return func(c *gin.Context) (policy.Resource, error) {
		id, err := uuid.Parse(c.Param(name))
		if err != nil {
			return policy.Resource{}, err
		}
		return policy.Employee(id), nil
	}
}

// Authorize consults p before letting the request through.
func Authorize(p policy.Policy, action policy.Action, resource ResourceFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := resource(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_ID", "message": "invalid resource id"},
			})
			return
		}
		if !p.Can(GetSession(c), action, res) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "insufficient permissions"},
			})
			return
		}
		c.Next()
	}
}

// GetSession returns the caller's session, or the anonymous session when unauthenticated.
func GetSession(c *gin.Context) domain.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return domain.Anonymous()
	}
	return val.(domain.Session)
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return val.(uuid.UUID), nil
}

// GetRole extracts the user role string from the Gin context.
func GetRole(c *gin.Context) string {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	return val.(string)
}
