package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/diary"
	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/settingsstore"
)

// ErrorResponse is the error body of every API failure.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "invalid_request"})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondInternalError logs err and hides it from the client.
func respondInternalError(c *gin.Context, logger *slog.Logger, err error, context string) {
	logger.Error("internal error", "context", context, "error", err, "request_id", c.GetString(requestIDKey))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "internal server error",
		Code:      "internal",
		RequestID: c.GetString(requestIDKey),
	})
}

// errorStatus maps domain errors to a status, code and retry hint.
func errorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, diary.ErrEmptyContent):
		return http.StatusUnprocessableEntity, "empty_content", false
	case errors.Is(err, diary.ErrMixedContent):
		return http.StatusUnprocessableEntity, "mixed_content", false
	case errors.Is(err, diary.ErrTooManyPhotos):
		return http.StatusUnprocessableEntity, "too_many_photos", false
	case errors.Is(err, settingsstore.ErrInvalidColor):
		return http.StatusBadRequest, "invalid_color", false
	case errors.Is(err, media.ErrInvalidDataURL):
		return http.StatusBadRequest, "invalid_data_url", false
	case errors.Is(err, media.ErrMediaUnsupported):
		return http.StatusUnsupportedMediaType, "media_unsupported", false
	case errors.Is(err, media.ErrMediaAccessDenied):
		return http.StatusForbidden, "media_access_denied", false
	case errors.Is(err, media.ErrNotRecording):
		return http.StatusConflict, "not_recording", false
	case errors.Is(err, diary.ErrEntryNotFound):
		return http.StatusNotFound, "entry_not_found", false
	case errors.Is(err, diary.ErrPhotoNotFound):
		return http.StatusNotFound, "photo_not_found", false
	case errors.Is(err, diary.ErrNoAudio):
		return http.StatusNotFound, "no_audio", false
	case errors.Is(err, database.ErrQuotaExceeded):
		return http.StatusInsufficientStorage, "quota_exceeded", false
	case errors.Is(err, diary.ErrEntryPersistFailed),
		errors.Is(err, database.ErrWriteFailed),
		errors.Is(err, database.ErrStoreUnavailable),
		errors.Is(err, database.ErrTableMissing):
		return http.StatusServiceUnavailable, "store_unavailable", true
	default:
		return http.StatusInternalServerError, "internal", false
	}
}

// respondError writes err as an ErrorResponse. Unknown errors are logged
// and masked.
func respondError(c *gin.Context, logger *slog.Logger, err error, context string) {
	status, code, retryable := errorStatus(err)
	if status == http.StatusInternalServerError {
		respondInternalError(c, logger, err, context)
		return
	}
	if status >= http.StatusInternalServerError {
		logger.Warn("request failed", "context", context, "error", err, "request_id", c.GetString(requestIDKey))
	}

	msg := err.Error()
	switch code {
	case "quota_exceeded":
		msg = "Attachments are too large to save."
	case "store_unavailable":
		msg = "Failed to save entry. Please try again."
	}
	c.JSON(status, ErrorResponse{Error: msg, Code: code, Retryable: retryable})
}

// parseEntryID reads the :id path parameter.
func parseEntryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func parseIndexParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
