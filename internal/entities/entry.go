package entities

import "time"

// MaxPhotosPerEntry caps the photos attached to one entry.
const MaxPhotosPerEntry = 5

// Entry is one diary submission. Photos and Audio live in their own tables
// and are joined back by the attachments assembler.
type Entry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Date      string    `gorm:"column:date;index" json:"date"`
	Text      string    `gorm:"column:text;type:text" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Photos []string `gorm:"-" json:"photos"`
	Audio  *Audio   `gorm:"-" json:"audio,omitempty"`
}

func (Entry) TableName() string {
	return "entries"
}

// HasAudio reports whether a voice recording is attached.
func (e *Entry) HasAudio() bool {
	return e.Audio != nil
}

type Photo struct {
	ID      string `gorm:"primaryKey" json:"id"`
	EntryID int64  `gorm:"column:entry_id;index" json:"entry_id"`
	DataURL string `gorm:"column:data_url;type:text" json:"data_url"`
	Index   int    `gorm:"column:ordinal" json:"index"`
}

func (Photo) TableName() string {
	return "photos"
}

// PayloadSize is the number of bytes the photo occupies in the store.
func (p Photo) PayloadSize() int {
	return len(p.DataURL)
}

type Audio struct {
	ID        string `gorm:"primaryKey" json:"id"`
	EntryID   int64  `gorm:"column:entry_id;index" json:"entry_id"`
	AudioBlob []byte `gorm:"column:audio_blob" json:"-"`
	Duration  int    `gorm:"column:duration" json:"duration"` // whole seconds
	MimeType  string `gorm:"column:mime_type" json:"mime_type"`

	// PlaybackURL is built from AudioBlob at read time and never stored.
	PlaybackURL string `gorm:"-" json:"playback_url,omitempty"`
}

func (Audio) TableName() string {
	return "audios"
}

func (a Audio) PayloadSize() int {
	return len(a.AudioBlob)
}
