package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
	"hrdesk/internal/handler"
	"hrdesk/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func hrSession() domain.Session {
	return domain.Session{IsAuthenticated: true, UserID: uuid.New(), Email: "hr@test.com", Role: domain.RoleHR}
}

func employeeSession(employeeID uuid.UUID) domain.Session {
	return domain.Session{IsAuthenticated: true, UserID: uuid.New(), EmployeeID: employeeID, Email: "emp@test.com", Role: domain.RoleEmployee}
}

// newContext builds a test context with an optional JSON body and session.
func newContext(method, target string, body interface{}, s *domain.Session) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, &buf)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		c.Set(middleware.ContextKeySession, *s)
		c.Set(middleware.ContextKeyUserID, s.UserID)
		c.Set(middleware.ContextKeyRole, string(s.Role))
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
