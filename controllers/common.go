package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecovilla/exchange-api/services"
	"github.com/ecovilla/exchange-api/utils"
	"github.com/gin-gonic/gin"
)

// actorFrom builds the service-layer identity from the auth middleware's
// claims.
func actorFrom(c *gin.Context) services.Actor {
	user := utils.GetUser(c)
	if user == nil {
		return services.Actor{}
	}
	return services.Actor{
		ID:            user.UserID,
		TenantID:      user.TenantID,
		IsTenantAdmin: user.IsTenantAdmin,
	}
}

// respondError maps the service error taxonomy onto HTTP statuses. Only
// unexpected errors get logged with full detail; the rest carry user-facing
// messages.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		slog.Error("unhandled error", slog.Any("error", err), slog.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch svcErr.Kind {
	case services.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": svcErr.Message})
	case services.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": svcErr.Message})
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": svcErr.Message})
	case services.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": svcErr.Message, "code": svcErr.Code})
	default:
		slog.Error("service error", slog.Any("error", svcErr.Err), slog.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
