package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hrdesk/internal/domain"
	"hrdesk/internal/middleware"
	"hrdesk/internal/policy"
	"hrdesk/internal/service"
	"hrdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	userID := uuid.New()
	employeeID := uuid.New()
	claims := &service.Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Email:      "user@test.com",
		Role:       domain.RoleEmployee,
	}
	mockAuth.On("ValidateToken", "valid-token").Return(claims, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		uid, _ := middleware.GetUserID(c)
		s := middleware.GetSession(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":     uid,
			"employee_id": s.EmployeeID,
			"role":        middleware.GetRole(c),
			"auth":        s.IsAuthenticated,
		})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, employeeID.String(), resp["employee_id"])
	assert.Equal(t, "employee", resp["role"])
	assert.Equal(t, true, resp["auth"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedBearer(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Basic some-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "expired-token").Return(nil, domain.ErrUnauthorized)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer expired-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuth.AssertExpectations(t)
}

func withSession(s domain.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeySession, s)
		c.Next()
	}
}

func TestAuthorize(t *testing.T) {
	me := uuid.New()
	employee := domain.Session{IsAuthenticated: true, Role: domain.RoleEmployee, EmployeeID: me}
	hr := domain.Session{IsAuthenticated: true, Role: domain.RoleHR}

	tests := []struct {
		name    string
		session domain.Session
		path    string
		want    int
	}{
		{"own record", employee, "/employees/" + me.String(), http.StatusOK},
		{"someone else", employee, "/employees/" + uuid.New().String(), http.StatusForbidden},
		{"staff", hr, "/employees/" + uuid.New().String(), http.StatusOK},
		{"bad id", hr, "/employees/not-a-uuid", http.StatusBadRequest},
		{"anonymous", domain.Anonymous(), "/employees/" + me.String(), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withSession(tt.session))
			r.GET("/employees/:id",
				middleware.Authorize(policy.RBAC(), policy.DocumentUpload, middleware.EmployeeParam("id")),
				func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, http.NoBody)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthorize_Collection(t *testing.T) {
	r := gin.New()
	r.Use(withSession(domain.Session{IsAuthenticated: true, Role: domain.RoleEmployee, EmployeeID: uuid.New()}))
	r.GET("/dashboard",
		middleware.Authorize(policy.RBAC(), policy.DashboardRead, middleware.Collection("dashboard")),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/dashboard", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetSession_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, middleware.GetSession(c).IsAuthenticated)

	_, err := middleware.GetUserID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
