package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/diary"
	"github.com/mrlokans/diary/internal/media"
)

// StoreController exposes the destructive store operations.
type StoreController struct {
	manager  *diary.Manager
	playback *media.PlaybackSlot
	logger   *slog.Logger
}

func NewStoreController(manager *diary.Manager, playback *media.PlaybackSlot, logger *slog.Logger) *StoreController {
	return &StoreController{manager: manager, playback: playback, logger: logger}
}

// Reset wipes every table. Requires ?confirm=true.
func (sc *StoreController) Reset(c *gin.Context) {
	if c.Query("confirm") != "true" {
		respondBadRequest(c, "add ?confirm=true to delete every entry")
		return
	}

	sc.playback.Stop()
	if err := sc.manager.Reset(c.Request.Context()); err != nil {
		respondError(c, sc.logger, err, "reset store")
		return
	}

	sc.logger.Warn("store cleared", "request_id", c.GetString(requestIDKey))
	c.JSON(http.StatusOK, SuccessResponse{Message: "All entries deleted"})
}
