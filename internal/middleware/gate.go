package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

type accessDecider interface {
	Decide(ctx context.Context, principal *models.Principal, area service.Area, pathUID string) service.Decision
}

// Gate evaluates the authorization policy for one protected area. Denied
// requests are answered with a 302 to the decision's surface; the handler
// chain is aborted.
func Gate(access accessDecider, area service.Area) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		pathUID := c.Param("uid")
		if pathUID == "" {
			pathUID = c.Param("id")
		}

		decision := access.Decide(c.Request.Context(), principal, area, pathUID)
		if !decision.Allow {
			response.Redirect(c, decision.RedirectTo)
			return
		}
		c.Next()
	}
}
