package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TimotejZavski/room-booking-system/internal/handler/httperr"
	"github.com/TimotejZavski/room-booking-system/internal/handler/middleware"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/config"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("renders a public error pushed without a response", func(t *testing.T) {
		engine := gin.New()
		engine.Use(middleware.ErrorHandler())
		engine.GET("/deferred", func(c *gin.Context) {
			resp := httperr.Response{Status: http.StatusConflict}
			resp.Error.Message = "slot taken"
			_ = c.Error(gin.Error{
				Err:  errs.New("overlap"),
				Type: gin.ErrorTypePublic,
				Meta: resp,
			})
			c.Abort()
		})

		rec := serve(engine, "/deferred")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"slot taken"}}`, rec.Body.String())
	})

	t.Run("leaves an already written response alone", func(t *testing.T) {
		engine := gin.New()
		engine.Use(middleware.ErrorHandler())
		engine.GET("/written", func(c *gin.Context) {
			httperr.AbortWithError(c, http.StatusNotFound, errs.New("missing"), "Booking not found", nil)
		})

		rec := serve(engine, "/written")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Booking not found"}}`, rec.Body.String())
	})

	t.Run("unhandled request falls back to a generic envelope", func(t *testing.T) {
		engine := gin.New()
		engine.Use(middleware.ErrorHandler())
		engine.GET("/silent", func(c *gin.Context) {
			_ = c.Error(errs.New("db down"))
		})

		rec := serve(engine, "/silent")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, rec.Body.String())
	})
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(middleware.CustomRecovery())
	engine.GET("/panic", func(_ *gin.Context) {
		panic("boom")
	})

	rec := serve(engine, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, rec.Body.String())
}

func TestRequestIDPropagation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(middleware.LoggingMiddleware(config.NewTestConfig().Log))

	var requestID string
	engine.GET("/ping", func(c *gin.Context) {
		requestID = middleware.GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	rec := serve(engine, "/ping")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, requestID)
}
