package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentormatch/internal/app/controllers"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	MatchRequest *controllers.MatchRequestController
}

// SetupRouter configures all application routes. limiters may be nil, which
// disables rate limiting.
func SetupRouter(
	router *gin.Engine,
	ctrls Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiters *middleware.RateLimiters,
) {
	if limiters == nil {
		limiters = &middleware.RateLimiters{}
	}

	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiters.General))

	// --- Public routes ---
	api.POST("/signup", middleware.RateLimit(limiters.Auth), ctrls.Auth.Signup)
	api.POST("/login", middleware.RateLimit(limiters.Auth), ctrls.Auth.Login)

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/me", ctrls.User.GetCurrentUser)
		authenticated.PUT("/profile", middleware.RateLimit(limiters.Profile), ctrls.User.UpdateProfile)
		authenticated.GET("/images/:role/:id", ctrls.User.GetProfileImage)

		mentorsOnly := authenticated.Group("")
		mentorsOnly.Use(authMiddleware.RoleRequired(models.RoleMentor))
		{
			mentorsOnly.GET("/match-requests/incoming", ctrls.MatchRequest.ListIncoming)
			mentorsOnly.PUT("/match-requests/:id/accept", ctrls.MatchRequest.Accept)
			mentorsOnly.PUT("/match-requests/:id/reject", ctrls.MatchRequest.Reject)
		}

		menteesOnly := authenticated.Group("")
		menteesOnly.Use(authMiddleware.RoleRequired(models.RoleMentee))
		{
			menteesOnly.GET("/mentors", ctrls.User.ListMentors)
			menteesOnly.POST("/match-requests", ctrls.MatchRequest.Create)
			menteesOnly.GET("/match-requests/outgoing", ctrls.MatchRequest.ListOutgoing)
			menteesOnly.DELETE("/match-requests/:id", ctrls.MatchRequest.Cancel)
		}
	}
}
