package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/diary"
	"github.com/mrlokans/diary/internal/media"
)

// defaultMaxUpload bounds a single uploaded file when no payload limit is
// configured.
const defaultMaxUpload = 32 << 20

// PendingController stages photos and a recording for the next submission.
type PendingController struct {
	manager   *diary.Manager
	maxUpload int64
	logger    *slog.Logger
}

func NewPendingController(manager *diary.Manager, maxUpload int64, logger *slog.Logger) *PendingController {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &PendingController{manager: manager, maxUpload: maxUpload, logger: logger}
}

func (pc *PendingController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, pc.manager.Pending())
}

// AttachPhotos accepts image files in the "photos" multipart field.
func (pc *PendingController) AttachPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "expected multipart form with photos")
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		respondBadRequest(c, "no photos uploaded")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		data, err := pc.readFile(fh)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		mimeType, err := media.DetectImage(data)
		if err != nil {
			respondError(c, pc.logger, fmt.Errorf("%s: %w", fh.Filename, err), "attach photos")
			return
		}
		urls = append(urls, media.DataURL(mimeType, data))
	}

	res, err := pc.manager.AttachPhotos(urls)
	if err != nil {
		status, code, _ := errorStatus(err)
		c.JSON(status, gin.H{"error": err.Error(), "code": code, "result": res})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (pc *PendingController) ClearPhotos(c *gin.Context) {
	pc.manager.ClearPendingPhotos()
	c.Status(http.StatusNoContent)
}

// UploadRecording stages a finished recording sent in the "audio" field,
// with its length in whole seconds in "duration".
func (pc *PendingController) UploadRecording(c *gin.Context) {
	fh, err := c.FormFile("audio")
	if err != nil {
		respondBadRequest(c, "no audio uploaded")
		return
	}
	duration, err := strconv.Atoi(c.DefaultPostForm("duration", "0"))
	if err != nil || duration < 0 {
		respondBadRequest(c, "invalid duration")
		return
	}

	data, err := pc.readFile(fh)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	rec := media.Recording{Data: data, Duration: duration, MimeType: fh.Header.Get("Content-Type")}
	if err := pc.manager.StageRecording(rec); err != nil {
		respondError(c, pc.logger, err, "upload recording")
		return
	}
	c.JSON(http.StatusOK, pc.manager.Pending())
}

func (pc *PendingController) DiscardRecording(c *gin.Context) {
	pc.manager.DiscardRecording()
	c.Status(http.StatusNoContent)
}

func (pc *PendingController) StartRecording(c *gin.Context) {
	if err := pc.manager.StartRecording(c.Request.Context()); err != nil {
		respondError(c, pc.logger, err, "start recording")
		return
	}
	c.JSON(http.StatusOK, pc.manager.Pending())
}

// AppendRecording takes a raw chunk of the recording as the request body.
func (pc *PendingController) AppendRecording(c *gin.Context) {
	chunk, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, pc.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "chunk too large", Code: "too_large"})
			return
		}
		respondBadRequest(c, "could not read chunk")
		return
	}

	if err := pc.manager.AppendRecording(chunk); err != nil {
		respondError(c, pc.logger, err, "append recording")
		return
	}
	c.Status(http.StatusNoContent)
}

func (pc *PendingController) StopRecording(c *gin.Context) {
	rec, err := pc.manager.StopRecording()
	if err != nil {
		respondError(c, pc.logger, err, "stop recording")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"duration":  rec.Duration,
		"mime_type": rec.MimeType,
		"bytes":     len(rec.Data),
	})
}

func (pc *PendingController) readFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > pc.maxUpload {
		return nil, fmt.Errorf("%s is larger than %d bytes", fh.Filename, pc.maxUpload)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, pc.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("could not read %s", fh.Filename)
	}
	return data, nil
}
