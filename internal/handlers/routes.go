package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth          *AuthHandler
	Plans         *PlanHandler
	Tasks         *TaskHandler
	Leaderboard   *LeaderboardHandler
	Friends       *FriendHandler
	Notifications *NotificationHandler
	Dashboard     *DashboardHandler
}

// New wires the services over store and builds every handler.
func New(store repository.Store, clock calendar.Clock, extendedBadges bool) *Handlers {
	scores := services.NewScoreService(store)
	progress := services.NewProgressService(store)
	friends := services.NewFriendService(store)

	return &Handlers{
		Auth:          NewAuthHandler(services.NewAuthService(store)),
		Plans:         NewPlanHandler(services.NewPlanService(store), clock),
		Tasks:         NewTaskHandler(services.NewTaskService(store, scores), clock),
		Leaderboard:   NewLeaderboardHandler(services.NewLeaderboardService(store, extendedBadges), clock),
		Friends:       NewFriendHandler(friends, clock),
		Notifications: NewNotificationHandler(services.NewNotificationService(store)),
		Dashboard: NewDashboardHandler(
			services.NewDashboardService(store, friends),
			progress,
			services.NewExportService(store),
			clock,
		),
	}
}

// Register mounts the API routes on r. authLimit guards signup and login;
// nil disables it.
func (h *Handlers) Register(r gin.IRouter, authLimit gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Daily Planner API is running",
		})
	})

	if authLimit == nil {
		authLimit = func(c *gin.Context) { c.Next() }
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authLimit, h.Auth.Signup)
			auth.POST("/login", authLimit, h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())

		protected.PUT("/settings/global-visibility", h.Auth.UpdateGlobalVisibility)

		plans := protected.Group("/plans")
		{
			plans.POST("", h.Plans.CreatePlan)
			plans.GET("/today", h.Plans.GetToday)
			plans.GET("/tomorrow", h.Plans.GetTomorrow)
			plans.GET("/history", h.Plans.GetHistory)
			plans.GET("/scores", h.Plans.ListScores)
		}

		tasks := protected.Group("/tasks/:id")
		tasks.Use(middleware.RequireIDParam("task"))
		{
			tasks.GET("", h.Tasks.GetTask)
			tasks.DELETE("", h.Tasks.DeleteTask)
			tasks.POST("/start", h.Tasks.StartTask)
			tasks.POST("/complete", h.Tasks.CompleteTask)
			tasks.POST("/cancel", h.Tasks.CancelTask)
			tasks.POST("/incomplete", h.Tasks.MarkIncomplete)
		}

		protected.GET("/leaderboard", h.Leaderboard.GetLeaderboard)

		friends := protected.Group("/friends")
		{
			friends.GET("", h.Friends.ListFriends)
			friends.GET("/requests", h.Friends.ListRequests)
			friends.POST("/requests", h.Friends.SendRequest)
			friends.POST("/:id/accept", middleware.RequireIDParam("friend"), h.Friends.Accept)
			friends.POST("/:id/decline", middleware.RequireIDParam("friend"), h.Friends.Decline)
			friends.DELETE("/:id", middleware.RequireIDParam("friend"), h.Friends.Remove)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", h.Notifications.ListUnread)
			notifications.POST("/:id/read", middleware.RequireIDParam("notification"), h.Notifications.MarkRead)
		}

		protected.GET("/dashboard", h.Dashboard.GetDashboard)
		protected.GET("/analytics", h.Dashboard.GetAnalytics)
		protected.GET("/progress", h.Dashboard.GetProgress)
		protected.GET("/export", h.Dashboard.Export)
	}
}
