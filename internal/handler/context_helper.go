package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
)

// principalFrom returns the authenticated principal or a zero value. Gate
// middleware has already rejected unauthenticated requests on protected
// routes, so handlers treat a missing principal as an empty one.
func principalFrom(c *gin.Context) models.Principal {
	if p := middleware.PrincipalFrom(c); p != nil {
		return *p
	}
	return models.Principal{}
}
