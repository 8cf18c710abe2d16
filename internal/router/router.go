package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"studyhub/backend/internal/handler"
	"studyhub/backend/internal/metrics"
	"studyhub/backend/internal/middleware"
	"studyhub/backend/internal/service"
)

type Deps struct {
	AuthService      *service.AuthService
	AuthHandler      *handler.AuthHandler
	TimerHandler     *handler.TimerHandler
	QueueHandler     *handler.QueueHandler
	FocusHandler     *handler.FocusHandler
	WidgetHandler    *handler.WidgetHandler
	AnalyticsHandler *handler.AnalyticsHandler
	SearchHandler    *handler.SearchHandler
	RateLimiter      *middleware.RateLimiter
	Gatherer         prometheus.Gatherer
	CORSOrigins      []string
}

func New(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(deps.CORSOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", deps.AuthHandler.Register)
	auth.POST("/login", deps.AuthHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.AuthService))
	if deps.RateLimiter != nil {
		authed.Use(deps.RateLimiter.Handler())
	}

	timer := authed.Group("/timer")
	timer.GET("", deps.TimerHandler.GetState)
	timer.POST("/start", deps.TimerHandler.Start)
	timer.POST("/pause", deps.TimerHandler.Pause)
	timer.POST("/skip", deps.TimerHandler.Skip)
	timer.POST("/mode", deps.TimerHandler.SwitchMode)
	timer.PUT("/settings", deps.TimerHandler.UpdateSettings)

	queue := authed.Group("/queue")
	queue.GET("", deps.QueueHandler.GetState)
	queue.POST("/items", deps.QueueHandler.AddItems)
	queue.DELETE("/items/:id", deps.QueueHandler.RemoveItem)
	queue.PUT("/order", deps.QueueHandler.Reorder)
	queue.DELETE("", deps.QueueHandler.Clear)
	queue.POST("/repeat", deps.QueueHandler.ToggleRepeat)
	queue.POST("/shuffle", deps.QueueHandler.ToggleShuffle)
	queue.POST("/play", deps.QueueHandler.Play)
	queue.POST("/next", deps.QueueHandler.PlayNext)
	queue.POST("/ended", deps.QueueHandler.ItemEnded)

	library := authed.Group("/library")
	library.GET("", deps.QueueHandler.GetLibrary)
	library.POST("", deps.QueueHandler.AddToLibrary)
	library.DELETE("/:id", deps.QueueHandler.RemoveFromLibrary)

	focus := authed.Group("/focus")
	focus.GET("", deps.FocusHandler.GetState)
	focus.POST("/enter", deps.FocusHandler.Enter)
	focus.POST("/exit", deps.FocusHandler.Exit)

	tasks := authed.Group("/tasks")
	tasks.GET("", deps.WidgetHandler.ListTasks)
	tasks.POST("", deps.WidgetHandler.CreateTask)
	tasks.PUT("/:id", deps.WidgetHandler.UpdateTask)
	tasks.DELETE("/:id", deps.WidgetHandler.DeleteTask)

	notes := authed.Group("/notes")
	notes.GET("", deps.WidgetHandler.ListNotes)
	notes.POST("", deps.WidgetHandler.CreateNote)
	notes.PUT("/:id", deps.WidgetHandler.UpdateNote)
	notes.DELETE("/:id", deps.WidgetHandler.DeleteNote)

	playlists := authed.Group("/playlists")
	playlists.GET("", deps.WidgetHandler.ListPlaylists)
	playlists.POST("", deps.WidgetHandler.CreatePlaylist)
	playlists.DELETE("/:id", deps.WidgetHandler.DeletePlaylist)
	playlists.POST("/:id/tracks", deps.WidgetHandler.AddPlaylistTrack)
	playlists.DELETE("/:id/tracks/:trackId", deps.WidgetHandler.RemovePlaylistTrack)

	analytics := authed.Group("/analytics")
	analytics.GET("/stats", deps.AnalyticsHandler.GetStats)
	analytics.GET("/sessions", deps.AnalyticsHandler.GetSessions)

	authed.GET("/search", deps.SearchHandler.Search)

	return engine
}
