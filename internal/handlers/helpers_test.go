package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := map[service.Kind]int{
		service.KindNotFound:           http.StatusNotFound,
		service.KindConflict:           http.StatusBadRequest,
		service.KindValidation:         http.StatusBadRequest,
		service.KindMissingIngredients: http.StatusBadRequest,
		service.KindInternal:           http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusFor(kind); got != want {
			t.Errorf("statusFor(%v) = %d, want %d", kind, got, want)
		}
	}
}

func TestParseUUIDParam_Invalid(t *testing.T) {
	r := gin.New()
	r.GET("/things/:thing_id", func(c *gin.Context) {
		if _, ok := parseUUIDParam(c, "thing_id"); ok {
			c.Status(http.StatusOK)
		}
	})

	for path, want := range map[string]int{
		"/things/not-a-uuid":                           http.StatusBadRequest,
		"/things/12345":                                http.StatusBadRequest,
		"/things/0190a0a0-0000-7000-8000-000000000001": http.StatusOK,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != want {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, want)
		}
	}
}

func TestRespondError_HidesInternalCause(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		respondError(c, "failed to do the thing", errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if body := w.Body.String(); body != `{"error":"failed to do the thing"}` {
		t.Errorf("body = %s", body)
	}
}
