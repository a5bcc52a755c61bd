package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/diary"
	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/settingsstore"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err       error
		status    int
		code      string
		retryable bool
	}{
		{diary.ErrEmptyContent, http.StatusUnprocessableEntity, "empty_content", false},
		{diary.ErrMixedContent, http.StatusUnprocessableEntity, "mixed_content", false},
		{diary.ErrTooManyPhotos, http.StatusUnprocessableEntity, "too_many_photos", false},
		{fmt.Errorf("save: %w", settingsstore.ErrInvalidColor), http.StatusBadRequest, "invalid_color", false},
		{media.ErrMediaUnsupported, http.StatusUnsupportedMediaType, "media_unsupported", false},
		{diary.ErrEntryNotFound, http.StatusNotFound, "entry_not_found", false},
		{fmt.Errorf("%w: %w", diary.ErrEntryPersistFailed, database.ErrWriteFailed), http.StatusServiceUnavailable, "store_unavailable", true},
		{fmt.Errorf("%w: %w", diary.ErrEntryPersistFailed, database.ErrQuotaExceeded), http.StatusInsufficientStorage, "quota_exceeded", false},
		{errors.New("boom"), http.StatusInternalServerError, "internal", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, retryable := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.retryable, retryable)
		})
	}
}

func TestRespondError_HidesPersistDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, discardLogger(), fmt.Errorf("%w: disk I/O error", diary.ErrEntryPersistFailed), "submit")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "disk I/O")
	assert.Contains(t, w.Body.String(), `"retryable":true`)
}

func TestParseEntryID(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := parseEntryID(c)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1700000000000"}}
	id, ok := parseEntryID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000000), id)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware(), RecoveryMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id"`)
}
