// Package attachments joins photos and voice recordings back onto their
// entries at read time.
package attachments

import (
	"context"
	"fmt"
	"sort"

	"github.com/mrlokans/diary/internal/entities"
	"github.com/mrlokans/diary/internal/media"
)

type PhotoFinder interface {
	ForEntry(ctx context.Context, entryID int64) ([]entities.Photo, error)
}

type AudioFinder interface {
	ForEntry(ctx context.Context, entryID int64) ([]entities.Audio, error)
}

type Assembler struct {
	photos PhotoFinder
	audios AudioFinder
}

func NewAssembler(photos PhotoFinder, audios AudioFinder) *Assembler {
	return &Assembler{photos: photos, audios: audios}
}

// Hydrate fills entry.Photos and entry.Audio from the child tables. Fields
// that are already populated are left alone, so hydrating twice is a no-op.
func (a *Assembler) Hydrate(ctx context.Context, entry *entities.Entry) error {
	if len(entry.Photos) == 0 {
		photos, err := a.photos.ForEntry(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("load photos for entry %d: %w", entry.ID, err)
		}
		if len(photos) > 0 {
			sort.Slice(photos, func(i, j int) bool { return photos[i].Index < photos[j].Index })
			urls := make([]string, len(photos))
			for i, p := range photos {
				urls[i] = p.DataURL
			}
			entry.Photos = urls
		}
	}

	if entry.Audio == nil {
		audios, err := a.audios.ForEntry(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("load audio for entry %d: %w", entry.ID, err)
		}
		if len(audios) > 0 {
			audio := audios[0]
			audio.PlaybackURL = media.DataURL(audio.MimeType, audio.AudioBlob)
			entry.Audio = &audio
		}
	}

	return nil
}

// HydrateAll hydrates every entry of a render pass, stopping at the first error.
func (a *Assembler) HydrateAll(ctx context.Context, entries []entities.Entry) error {
	for i := range entries {
		if err := a.Hydrate(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}
