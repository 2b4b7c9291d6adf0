package api

import (
	"net/http"

	"pp_quest/internal/i18n"
	"pp_quest/internal/model"

	"github.com/gin-gonic/gin"
)

func NewI18nRoutes(handler *gin.RouterGroup) {
	h := handler.Group("/i18n")
	{
		h.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"languages": i18n.Languages()})
		})
		h.GET("/:lang", func(c *gin.Context) {
			lang := model.Language(c.Param("lang"))
			if !i18n.Supported(lang) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unsupported language"})
				return
			}
			c.JSON(http.StatusOK, i18n.Table(lang))
		})
	}
}
