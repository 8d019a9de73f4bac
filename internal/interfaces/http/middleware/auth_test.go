package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"textbook-assistant-api/pkg/utils"
)

func newAuthRouter(t *testing.T, jwt *utils.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Auth(jwt))
	engine.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})
	return engine
}

func doRequest(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "test")
	engine := newAuthRouter(t, jwt)

	token, err := jwt.GenerateToken("u1", "student", "access", time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := doRequest(engine, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "u1" {
		t.Errorf("user id = %q, want u1", w.Body.String())
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	engine := newAuthRouter(t, utils.NewJWTManager("secret", "test"))

	if w := doRequest(engine, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	engine := newAuthRouter(t, utils.NewJWTManager("secret", "test"))

	if w := doRequest(engine, "Token abc"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "test")
	engine := newAuthRouter(t, jwt)

	token, err := jwt.GenerateToken("u1", "student", "access", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := doRequest(engine, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsRefreshToken(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "test")
	engine := newAuthRouter(t, jwt)

	token, err := jwt.GenerateToken("u1", "student", "refresh", time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := doRequest(engine, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "test")
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Auth(jwt))
	admin := engine.Group("/admin", RequireRole("admin"))
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	studentToken, _ := jwt.GenerateToken("u1", "student", "access", time.Minute)
	adminToken, _ := jwt.GenerateToken("u2", "admin", "access", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("student status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}
