package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/config"
	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/services"
)

const actorContextKey = "actor"

// NewAuthClient builds the identity-provider client used to verify bearer
// tokens. Authentication lives entirely in the provider; this service only
// validates tokens and mirrors the profile locally.
func NewAuthClient(cfg *config.Config) *casdoorsdk.Client {
	return casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
}

// Authenticate verifies the bearer token, syncs the user's local mirror and
// stores the resulting Actor in the request context.
func Authenticate(authClient *casdoorsdk.Client, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
			})
			return
		}

		claims, err := authClient.ParseJwtToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
			})
			return
		}

		now := time.Now()
		role := models.RoleStudent
		if claims.User.IsAdmin {
			role = models.RoleAdmin
		}
		synced, err := users.SyncFromToken(c.Request.Context(), &models.User{
			ID:          claims.User.Id,
			FullName:    claims.User.DisplayName,
			Email:       claims.User.Email,
			Role:        role,
			IsActive:    true,
			LastLoginAt: &now,
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Failed to resolve user",
			})
			return
		}

		c.Set("user_id", synced.ID)
		c.Set(actorContextKey, models.Actor{
			UserID:  synced.ID,
			IsAdmin: synced.IsAdmin() || claims.User.IsAdmin,
		})
		c.Next()
	}
}

// RequireAdmin guards the editor and admin surfaces.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := currentActor(c)
		if !actor.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Admin access required",
			})
			return
		}
		c.Next()
	}
}

func currentActor(c *gin.Context) models.Actor {
	if v, exists := c.Get(actorContextKey); exists {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}

func currentUserID(c *gin.Context) string {
	return currentActor(c).UserID
}
