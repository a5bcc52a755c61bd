package diary

import (
	"errors"
	"fmt"

	"github.com/mrlokans/diary/internal/entities"
)

var (
	ErrEmptyContent       = errors.New("write something or record a voice message")
	ErrMixedContent       = errors.New("an entry is either text or a voice message, not both")
	ErrTooManyPhotos      = fmt.Errorf("maximum %d photos allowed", entities.MaxPhotosPerEntry)
	ErrEntryPersistFailed = errors.New("entry could not be saved")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrNoAudio            = errors.New("entry has no voice message")
)
