package api

import (
	"errors"
	"net/http"

	"pp_quest/internal/gemini"
	"pp_quest/internal/i18n"
	"pp_quest/internal/model"
	"pp_quest/internal/service"
	"pp_quest/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps engine and Gemini errors onto a status and a message in the user's language.
func respondError(c *gin.Context, lang model.Language, err error) {
	log := logger.Logger()

	var apiErr *gemini.APIError
	switch {
	case errors.Is(err, service.ErrPremiumRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, i18n.DenyPremiumOnly)})
	case errors.Is(err, service.ErrNoResetsLeft):
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, i18n.DenyResetLimit)})
	case errors.Is(err, service.ErrNoSkipsLeft):
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, i18n.DenyNoSkips)})
	case errors.Is(err, service.ErrInvalidTarget):
		c.JSON(http.StatusConflict, gin.H{"error": i18n.T(lang, i18n.DenyInvalidTarget)})
	case errors.Is(err, service.ErrStaleRefresh):
		c.JSON(http.StatusConflict, gin.H{"error": "a newer refresh is in progress"})
	case errors.Is(err, service.ErrQuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
	case errors.Is(err, service.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
	case errors.Is(err, gemini.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "image evidence is not valid base64"})
	case errors.Is(err, service.ErrNoReplacement),
		errors.Is(err, service.ErrInvalidResult),
		errors.Is(err, gemini.ErrMalformedResponse),
		errors.Is(err, gemini.ErrUnavailable),
		errors.As(err, &apiErr):
		log.Error("upstream model call failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusBadGateway, gin.H{"error": i18n.T(lang, i18n.DenyVerifyFailed)})
	default:
		log.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
