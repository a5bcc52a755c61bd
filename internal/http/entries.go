package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/auth"
	"github.com/mrlokans/diary/internal/diary"
	"github.com/mrlokans/diary/internal/entities"
	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/utils"
)

type EntryView struct {
	entities.Entry
	PhotoLayout string `json:"photo_layout,omitempty"`
}

type EntriesResponse struct {
	Entries  []EntryView `json:"entries"`
	Warnings []string    `json:"warnings,omitempty"`
}

type submitRequest struct {
	Text string `json:"text" form:"text"`
}

type EntriesController struct {
	manager  *diary.Manager
	playback *media.PlaybackSlot
	sessions *auth.SessionManager
	logger   *slog.Logger
}

func NewEntriesController(manager *diary.Manager, playback *media.PlaybackSlot, sessions *auth.SessionManager, logger *slog.Logger) *EntriesController {
	return &EntriesController{
		manager:  manager,
		playback: playback,
		sessions: sessions,
		logger:   logger,
	}
}

func newEntryView(e entities.Entry) EntryView {
	return EntryView{Entry: e, PhotoLayout: diary.PhotoLayout(len(e.Photos))}
}

// List returns every entry, newest first, plus any warnings left by the
// previous submission.
func (ec *EntriesController) List(c *gin.Context) {
	entries, err := ec.manager.ListEntries(c.Request.Context())
	if err != nil {
		respondError(c, ec.logger, err, "list entries")
		return
	}

	resp := EntriesResponse{Entries: make([]EntryView, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, newEntryView(e))
	}
	if ec.sessions != nil {
		resp.Warnings = ec.sessions.PopWarnings(c.Request.Context())
	}

	c.JSON(http.StatusOK, resp)
}

// Submit commits the text with whatever photos and recording are pending.
func (ec *EntriesController) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	res, err := ec.manager.Submit(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, ec.logger, err, "submit entry")
		return
	}

	if res.Warning != "" && ec.sessions != nil {
		ec.sessions.AddWarning(c.Request.Context(), res.Warning)
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":               newEntryView(res.Entry),
		"attachments_dropped": res.AttachmentsDropped,
		"warning":             res.Warning,
	})
}

// Photo returns one photo of an entry with carousel navigation.
func (ec *EntriesController) Photo(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}

	view, err := ec.manager.Photo(c.Request.Context(), id, index)
	if err != nil {
		respondError(c, ec.logger, err, "photo")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Audio streams an entry's recording. Starting another stream stops this one.
func (ec *EntriesController) Audio(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	entry, audio, err := ec.manager.Audio(c.Request.Context(), id)
	if err != nil {
		respondError(c, ec.logger, err, "audio")
		return
	}

	ctx, release := ec.playback.Acquire(c.Request.Context(), id)
	defer release()

	name := utils.AudioFilename(entry.Date, audio.MimeType)
	c.Header("Content-Type", audio.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, strings.ReplaceAll(name, `"`, "")))
	c.Header("X-Audio-Duration", fmt.Sprint(audio.Duration))

	http.ServeContent(c.Writer, c.Request.WithContext(ctx), name, entry.CreatedAt, &cancelableReader{
		ctx: ctx,
		r:   bytes.NewReader(audio.AudioBlob),
	})
}

// cancelableReader stops a stream once its context is done.
type cancelableReader struct {
	ctx context.Context
	r   *bytes.Reader
}

func (r *cancelableReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

func (r *cancelableReader) Seek(offset int64, whence int) (int64, error) {
	return r.r.Seek(offset, whence)
}
