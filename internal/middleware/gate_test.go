package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
)

type stubDecider struct {
	decision  service.Decision
	principal *models.Principal
	pathUID   string
}

func (s *stubDecider) Decide(ctx context.Context, principal *models.Principal, area service.Area, pathUID string) service.Decision {
	s.principal = principal
	s.pathUID = pathUID
	return s.decision
}

type stubValidator struct {
	claims *models.SessionClaims
}

func (s *stubValidator) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	if s.claims != nil && tokenString == "valid" {
		return s.claims, nil
	}
	return nil, assert.AnError
}

func TestGateRedirectsOnDeny(t *testing.T) {
	gin.SetMode(gin.TestMode)
	decider := &stubDecider{decision: service.Decision{RedirectTo: service.PathLogin, Rule: "no_session"}}

	r := gin.New()
	r.GET("/student/:id", Gate(decider, service.AreaStudent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/student/stu-1", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, service.PathLogin, w.Header().Get("Location"))
	assert.Equal(t, "stu-1", decider.pathUID)
}

func TestGatePassesPrincipalAndUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	decider := &stubDecider{decision: service.Decision{Allow: true, Rule: "allow"}}
	validator := &stubValidator{claims: &models.SessionClaims{UID: "par-1", Role: models.RoleParent}}

	r := gin.New()
	r.Use(Session(validator))
	r.GET("/parent/:uid", Gate(decider, service.AreaParent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/parent/par-1", nil)
	req.Header.Set("Authorization", "Bearer valid")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, decider.principal)
	assert.Equal(t, "par-1", decider.principal.UID)
	assert.Equal(t, "par-1", decider.pathUID)
}

func TestSessionIgnoresInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Session(&stubValidator{}))
	r.GET("/open", func(c *gin.Context) {
		assert.Nil(t, PrincipalFrom(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	// An invalid token never blocks by itself.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionCookieFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := &stubValidator{claims: &models.SessionClaims{UID: "stu-1", Role: models.RoleStudent}}

	r := gin.New()
	r.Use(Session(validator))
	r.GET("/whoami", func(c *gin.Context) {
		p := PrincipalFrom(c)
		require.NotNil(t, p)
		c.String(http.StatusOK, p.UID)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "valid"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", w.Body.String())
}
