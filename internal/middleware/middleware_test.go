package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(), Metrics())
	router.GET("/quests/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/quests/:id", "200"))
	unknownBefore := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "unknown", "404"))

	for _, path := range []string{"/quests/a", "/quests/b", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/quests/:id", "200")))
	assert.Equal(t, unknownBefore+1, testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "unknown", "404")))
}
