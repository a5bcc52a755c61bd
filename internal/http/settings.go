package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/settingsstore"
)

type SettingsController struct {
	store  *settingsstore.SettingsStore
	logger *slog.Logger
}

func NewSettingsController(store *settingsstore.SettingsStore, logger *slog.Logger) *SettingsController {
	return &SettingsController{store: store, logger: logger}
}

// Get returns the effective settings, defaults filled in.
func (sc *SettingsController) Get(c *gin.Context) {
	prefs, err := sc.store.Effective(c.Request.Context())
	if err != nil {
		respondError(c, sc.logger, err, "load settings")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Update applies the fields present in the JSON body.
func (sc *SettingsController) Update(c *gin.Context) {
	var patch settingsstore.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid settings")
		return
	}

	prefs, err := sc.store.Update(c.Request.Context(), patch)
	if err != nil {
		respondError(c, sc.logger, err, "update settings")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (sc *SettingsController) ToggleTitle(c *gin.Context) {
	prefs, err := sc.store.ToggleTitle(c.Request.Context())
	if err != nil {
		respondError(c, sc.logger, err, "toggle title")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

type backgroundRequest struct {
	DataURL string `json:"data_url"`
}

// SetBackground accepts either an "image" multipart file or a JSON body
// with a data URL.
func (sc *SettingsController) SetBackground(c *gin.Context) {
	var dataURL string

	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			respondBadRequest(c, "could not open image")
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, defaultMaxUpload))
		if err != nil {
			respondBadRequest(c, "could not read image")
			return
		}
		mimeType, err := media.DetectImage(data)
		if err != nil {
			respondError(c, sc.logger, err, "background image")
			return
		}
		dataURL = media.DataURL(mimeType, data)
	} else if !errors.Is(err, http.ErrMissingFile) && c.ContentType() != "application/json" {
		respondBadRequest(c, "expected an image upload or a data_url")
		return
	} else {
		var req backgroundRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.DataURL == "" {
			respondBadRequest(c, "data_url is required")
			return
		}
		dataURL = req.DataURL
	}

	prefs, err := sc.store.SetBackgroundImage(c.Request.Context(), dataURL)
	if err != nil {
		respondError(c, sc.logger, err, "background image")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (sc *SettingsController) RemoveBackground(c *gin.Context) {
	prefs, err := sc.store.RemoveBackgroundImage(c.Request.Context())
	if err != nil {
		respondError(c, sc.logger, err, "remove background image")
		return
	}
	c.JSON(http.StatusOK, prefs)
}
