package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"journeymap/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	profileH *ProfileHandler,
	personaH *PersonaHandler,
	journeyH *JourneyHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/logout", authH.Logout)

	protected := r.Group("/")
	protected.Use(AuthRequired(jwtSvc))

	protected.PUT("/profile", profileH.UpdateProfile)

	personas := protected.Group("/personas")
	personas.GET("", personaH.ListPersonas)
	personas.DELETE("/:id", personaH.DeletePersona)
	personas.POST("/draft", personaH.StartDraft)
	personas.GET("/draft", personaH.GetDraft)
	personas.PUT("/draft/fields", personaH.SetDraftField)
	personas.POST("/draft/lists/:field", personaH.EditDraftList)
	personas.POST("/draft/sections", personaH.AddDraftSection)
	personas.DELETE("/draft/sections/:index", personaH.RemoveDraftSection)
	personas.PUT("/draft/sections/:index/title", personaH.EditDraftSectionTitle)
	personas.POST("/draft/sections/:index/items", personaH.EditDraftSectionItems)
	personas.PUT("/draft/avatar", personaH.SetDraftAvatar)
	personas.POST("/draft/commit", personaH.CommitDraft)
	personas.DELETE("/draft", personaH.DiscardDraft)

	journeys := protected.Group("/journeys")
	journeys.GET("", journeyH.ListJourneys)
	journeys.GET("/:id/personas", journeyH.AssociatedPersonas)
	journeys.DELETE("/:id", journeyH.DeleteJourney)
	journeys.POST("/draft", journeyH.StartDraft)
	journeys.GET("/draft", journeyH.GetDraft)
	journeys.PUT("/draft/fields", journeyH.SetDraftField)
	journeys.POST("/draft/personas/:personaID/toggle", journeyH.TogglePersona)
	journeys.POST("/draft/stages", journeyH.AddStage)
	journeys.PUT("/draft/stages/:index", journeyH.RenameStage)
	journeys.DELETE("/draft/stages/:index", journeyH.RemoveStage)
	journeys.POST("/draft/stages/:index/touchpoints", journeyH.AddTouchpoint)
	journeys.PATCH("/draft/stages/:index/touchpoints/:tp", journeyH.UpdateTouchpoint)
	journeys.DELETE("/draft/stages/:index/touchpoints/:tp", journeyH.RemoveTouchpoint)
	journeys.PUT("/draft/stages/:index/touchpoints/:tp/image", journeyH.SetTouchpointImage)
	journeys.POST("/draft/commit", journeyH.CommitDraft)
	journeys.DELETE("/draft", journeyH.DiscardDraft)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
