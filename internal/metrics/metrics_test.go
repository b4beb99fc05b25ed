package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/api/health", "204"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/api/health", "204")))
	assert.Equal(t, 0.0, testutil.ToFloat64(requestsInFlight))
}

func TestRenderAndQRCounters(t *testing.T) {
	Register()

	ok := testutil.ToFloat64(renderTotal.WithLabelValues(OutcomeOK))
	ObserveRender(OutcomeOK, 20*time.Millisecond)
	assert.Equal(t, ok+1, testutil.ToFloat64(renderTotal.WithLabelValues(OutcomeOK)))

	failed := testutil.ToFloat64(imageLoadFailures.WithLabelValues("logoImage"))
	ImageLoadFailed("logoImage", errors.New("404"))
	assert.Equal(t, failed+1, testutil.ToFloat64(imageLoadFailures.WithLabelValues("logoImage")))

	qrErr := testutil.ToFloat64(qrEncodeTotal.WithLabelValues("modern1", OutcomeError))
	ObserveQR("modern1", errors.New("too long"))
	assert.Equal(t, qrErr+1, testutil.ToFloat64(qrEncodeTotal.WithLabelValues("modern1", OutcomeError)))
}
