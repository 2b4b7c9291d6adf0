package api

import (
	"net/http"
	"strconv"

	"pp_quest/internal/model"
	"pp_quest/internal/service"
	"pp_quest/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type profileRoutes struct {
	qs service.QuestServiceI
}

func NewProfileRoutes(handler *gin.RouterGroup, qs service.QuestServiceI) {
	r := &profileRoutes{qs: qs}
	h := handler.Group("/profile")
	{
		h.GET("", r.GetProfile)
		h.PUT("/language", r.ChangeLanguage)
		h.PUT("/premium", r.SetPremium)
		h.GET("/history", r.GetHistory)
		h.GET("/share", r.ShareStats)
	}
}

type ChangeLanguageRequest struct {
	Language model.Language `json:"language" binding:"required"`
}

type SetPremiumRequest struct {
	Premium *bool `json:"premium" binding:"required"`
}

func (r *profileRoutes) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, r.qs.Snapshot().Profile)
}

func (r *profileRoutes) ChangeLanguage(c *gin.Context) {
	log := logger.Logger()

	var req ChangeLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	quests, err := r.qs.ChangeLanguage(c.Request.Context(), req.Language)
	if err != nil {
		respondError(c, req.Language, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language": req.Language,
		"quests":   quests,
	})
}

func (r *profileRoutes) SetPremium(c *gin.Context) {
	log := logger.Logger()

	var req SetPremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := r.qs.SetPremium(c.Request.Context(), *req.Premium)
	if err != nil {
		respondError(c, r.qs.Snapshot().Profile.Language, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (r *profileRoutes) GetHistory(c *gin.Context) {
	savedOnly := false
	if raw := c.Query("saved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid saved filter"})
			return
		}
		savedOnly = v
	}

	c.JSON(http.StatusOK, gin.H{"history": r.qs.History(savedOnly)})
}

func (r *profileRoutes) ShareStats(c *gin.Context) {
	c.JSON(http.StatusOK, r.qs.ShareStats())
}
