package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bakeevd/vdoh-strapi/internal/config"
	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/in"
	"github.com/Bakeevd/vdoh-strapi/internal/utils"
)

type ScheduleController struct {
	useCase in.ScheduleUseCase
	cfg     *config.Config
}

func NewScheduleController(useCase in.ScheduleUseCase, cfg *config.Config) *ScheduleController {
	return &ScheduleController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *ScheduleController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/profile/sections", c.profileSections)
		api.GET("/specialists/by-user/:userId", c.specialistByUser)

		schedule := api.Group("/schedule")
		{
			schedule.POST("/sessions", c.createSession)
			schedule.DELETE("/sessions/:sessionId", c.closeSession)
			schedule.POST("/sessions/:sessionId/load", c.loadWeek)
			schedule.POST("/sessions/:sessionId/slots/toggle", c.toggleSlot)
			schedule.POST("/sessions/:sessionId/days", c.setDayAvailability)
			schedule.POST("/sessions/:sessionId/save", c.saveWeek)
		}
	}
}

type CreateSessionRequest struct {
	SpecialistID int `json:"specialistId" binding:"required"`
}

type LoadWeekRequest struct {
	WeekStart string `json:"weekStart" binding:"required"`
}

type ToggleSlotRequest struct {
	Day  int `json:"day" binding:"min=0"`
	Slot int `json:"slot" binding:"min=0"`
}

type SetDayAvailabilityRequest struct {
	Day       int   `json:"day" binding:"min=0"`
	Available *bool `json:"available" binding:"required"`
}

func (c *ScheduleController) profileSections(ctx *gin.Context) {
	role := domain.Role(ctx.DefaultQuery("role", string(domain.RoleAuthenticated)))

	ctx.JSON(http.StatusOK, gin.H{
		"role":     role,
		"sections": domain.SectionsForRole(role),
	})
}

func (c *ScheduleController) specialistByUser(ctx *gin.Context) {
	var params struct {
		UserID int `uri:"userId" binding:"required"`
	}
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	specialist, err := c.useCase.ResolveSpecialist(ctx.Request.Context(), params.UserID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"specialist": specialist})
}

func (c *ScheduleController) createSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := c.useCase.CreateSession(req.SpecialistID)

	ctx.JSON(http.StatusCreated, gin.H{"sessionId": sessionID})
}

func (c *ScheduleController) closeSession(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	c.useCase.CloseSession(sessionID)

	ctx.Status(http.StatusNoContent)
}

func (c *ScheduleController) loadWeek(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	var req LoadWeekRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week start format"})
		return
	}
	// Любая дата недели приводится к ее понедельнику
	weekStart := utils.StartOfWeek(parsed)

	week, err := c.useCase.LoadWeek(ctx.Request.Context(), sessionID, weekStart)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"weekStart": weekStart.Format("2006-01-02"),
		"schedule":  week,
	})
}

func (c *ScheduleController) toggleSlot(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	var req ToggleSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	week, err := c.useCase.ToggleSlot(sessionID, req.Day, req.Slot)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"schedule": week})
}

func (c *ScheduleController) setDayAvailability(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	var req SetDayAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	week, err := c.useCase.SetDayAvailability(sessionID, req.Day, *req.Available)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"schedule": week})
}

func (c *ScheduleController) saveWeek(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("sessionId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	if err := c.useCase.SaveWeek(ctx.Request.Context(), sessionID); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"saved": true})
}

// respondError отображает доменные ошибки в статусы HTTP. Ошибки хранилища
// не фатальны для сеанса: клиент может повторить запрос.
func (c *ScheduleController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSpecialistNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrWeekStartNotMonday),
		errors.Is(err, domain.ErrSlotIndex),
		errors.Is(err, domain.ErrWeekNotLoaded):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSlotLocked),
		errors.Is(err, domain.ErrStaleLoad),
		errors.Is(err, domain.ErrSaveInProgress):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func (c *ScheduleController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
