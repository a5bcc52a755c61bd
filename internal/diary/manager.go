package diary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
	"github.com/mrlokans/diary/internal/media"
)

// DateLayout renders entry dates as "14 Nov, 2023".
const DateLayout = "2 Jan, 2006"

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StatePersisting State = "persisting"
	StateCommitted  State = "committed"
	StateRejected   State = "rejected"
)

type EntryRepository interface {
	Save(ctx context.Context, entry *entities.Entry) error
	List(ctx context.Context) ([]entities.Entry, error)
}

type PhotoRepository interface {
	Save(ctx context.Context, photo *entities.Photo) error
}

type AudioRepository interface {
	Save(ctx context.Context, audio *entities.Audio) error
}

type Store interface {
	ClearAll(ctx context.Context) error
	DeleteOrphanAttachments(ctx context.Context) (int64, error)
}

type Hydrator interface {
	Hydrate(ctx context.Context, entry *entities.Entry) error
	HydrateAll(ctx context.Context, entries []entities.Entry) error
}

type Config struct {
	Entries   EntryRepository
	Photos    PhotoRepository
	Audios    AudioRepository
	Store     Store
	Assembler Hydrator

	// Recorder captures voice messages. Nil means capture is unsupported.
	Recorder *media.Recorder
	Clock    func() time.Time
	Logger   *slog.Logger
}

// Draft is a submission before validation.
type Draft struct {
	Text      string
	Photos    []string // image data URLs in display order
	Recording *media.Recording
}

type Result struct {
	Entry entities.Entry `json:"entry"`

	// AttachmentsDropped is set when the attachments did not fit in the
	// store and only the text was saved.
	AttachmentsDropped bool   `json:"attachments_dropped"`
	Warning            string `json:"warning,omitempty"`
}

type AttachResult struct {
	Added    int    `json:"added"`
	Rejected int    `json:"rejected"`
	Total    int    `json:"total"`
	Warning  string `json:"warning,omitempty"`
}

type Pending struct {
	Photos         int                 `json:"photos"`
	PhotoSlotsLeft int                 `json:"photo_slots_left"`
	Recording      *PendingRecording   `json:"recording,omitempty"`
	RecorderState  media.RecorderState `json:"recorder_state"`
}

type PendingRecording struct {
	Duration int    `json:"duration"`
	MimeType string `json:"mime_type"`
	Bytes    int    `json:"bytes"`
}

// Manager is the single writer of diary entries. All methods are safe for
// concurrent use; they run one at a time.
type Manager struct {
	entries   EntryRepository
	photos    PhotoRepository
	audios    AudioRepository
	store     Store
	assembler Hydrator
	recorder  *media.Recorder
	clock     func() time.Time
	ids       *IDGenerator
	logger    *slog.Logger

	mu               sync.Mutex
	cache            []entities.Entry // newest first
	pendingPhotos    []string
	pendingRecording *media.Recording
	state            State
}

func NewManager(cfg Config) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = media.NewRecorder(nil, clock)
	}

	return &Manager{
		entries:   cfg.Entries,
		photos:    cfg.Photos,
		audios:    cfg.Audios,
		store:     cfg.Store,
		assembler: cfg.Assembler,
		recorder:  recorder,
		clock:     clock,
		ids:       NewIDGenerator(clock),
		logger:    logger.With("component", "diary"),
		state:     StateIdle,
	}
}

// Load replaces the cache with every stored entry, newest first, hydrated.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

func (m *Manager) loadLocked(ctx context.Context) error {
	entries, err := m.entries.List(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })

	if err := m.assembler.HydrateAll(ctx, entries); err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	if len(entries) > 0 {
		m.ids.Observe(entries[0].ID)
	}

	m.cache = entries
	m.logger.Info("entries loaded", "count", len(entries))
	return nil
}

// ListEntries returns the hydrated entries, newest first.
func (m *Manager) ListEntries(ctx context.Context) ([]entities.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.assembler.HydrateAll(ctx, m.cache); err != nil {
		return nil, err
	}

	out := make([]entities.Entry, len(m.cache))
	copy(out, m.cache)
	return out, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Validate checks a draft without touching the store.
func Validate(d Draft) error {
	hasText := strings.TrimSpace(d.Text) != ""
	hasVoice := d.Recording != nil

	switch {
	case !hasText && !hasVoice:
		return ErrEmptyContent
	case hasText && hasVoice:
		return ErrMixedContent
	case len(d.Photos) > entities.MaxPhotosPerEntry:
		return ErrTooManyPhotos
	}
	return nil
}

// Submit commits the given text together with the pending photos and
// recording.
func (m *Manager) Submit(ctx context.Context, text string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft := Draft{
		Text:      text,
		Photos:    append([]string(nil), m.pendingPhotos...),
		Recording: m.pendingRecording,
	}
	return m.commitLocked(ctx, draft)
}

// Commit validates and persists draft. Writes go audio, photos, entry; the
// pending buffers are cleared only when every write succeeded.
func (m *Manager) Commit(ctx context.Context, draft Draft) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitLocked(ctx, draft)
}

func (m *Manager) commitLocked(ctx context.Context, draft Draft) (*Result, error) {
	m.state = StateValidating
	if err := Validate(draft); err != nil {
		m.state = StateRejected
		return nil, err
	}

	m.state = StatePersisting
	now := m.clock()
	entry := entities.Entry{
		ID:        m.ids.Next(),
		Date:      now.Format(DateLayout),
		Text:      strings.TrimSpace(draft.Text),
		CreatedAt: now,
	}
	result := &Result{}

	audio, photos, err := m.writeAttachments(ctx, entry.ID, draft)
	if err != nil {
		if !errors.Is(err, database.ErrQuotaExceeded) || entry.Text == "" {
			m.state = StateRejected
			m.logger.Error("failed to save attachments", "entry_id", entry.ID, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrEntryPersistFailed, err)
		}

		// Rows already written under the old id become orphans for the sweep.
		m.logger.Warn("attachments too large, saving text only", "entry_id", entry.ID, "error", err)
		entry.ID = m.ids.Next()
		audio, photos = nil, nil
		result.AttachmentsDropped = true
		result.Warning = "Photos were too large to save. Only text has been saved."
	}

	if err := m.entries.Save(ctx, &entry); err != nil {
		m.state = StateRejected
		m.logger.Error("failed to save entry", "entry_id", entry.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEntryPersistFailed, err)
	}

	entry.Photos = photos
	entry.Audio = audio
	m.insert(entry)

	m.pendingPhotos = nil
	m.pendingRecording = nil
	m.recorder.Cancel()
	m.state = StateCommitted

	m.logger.Info("entry committed",
		"entry_id", entry.ID,
		"photos", len(entry.Photos),
		"voice", entry.Audio != nil,
		"attachments_dropped", result.AttachmentsDropped)

	result.Entry = entry
	return result, nil
}

func (m *Manager) writeAttachments(ctx context.Context, entryID int64, draft Draft) (*entities.Audio, []string, error) {
	var audio *entities.Audio
	if rec := draft.Recording; rec != nil {
		audio = &entities.Audio{
			ID:        fmt.Sprintf("%d-audio-%s", entryID, uuid.NewString()),
			EntryID:   entryID,
			AudioBlob: rec.Data,
			Duration:  rec.Duration,
			MimeType:  rec.MimeType,
		}
		if err := m.audios.Save(ctx, audio); err != nil {
			return nil, nil, fmt.Errorf("save audio: %w", err)
		}
		audio.PlaybackURL = media.DataURL(audio.MimeType, audio.AudioBlob)
	}

	var photos []string
	for i, dataURL := range draft.Photos {
		photo := &entities.Photo{
			ID:      fmt.Sprintf("%d-%d-%s", entryID, i, uuid.NewString()),
			EntryID: entryID,
			DataURL: dataURL,
			Index:   i,
		}
		if err := m.photos.Save(ctx, photo); err != nil {
			return nil, nil, fmt.Errorf("save photo %d: %w", i, err)
		}
		photos = append(photos, dataURL)
	}

	return audio, photos, nil
}

// insert keeps the cache sorted by id descending.
func (m *Manager) insert(entry entities.Entry) {
	i := sort.Search(len(m.cache), func(i int) bool { return m.cache[i].ID < entry.ID })
	m.cache = append(m.cache, entities.Entry{})
	copy(m.cache[i+1:], m.cache[i:])
	m.cache[i] = entry
}

// AttachPhotos stages image data URLs for the next submission, keeping only
// as many as there are free slots.
func (m *Manager) AttachPhotos(dataURLs []string) (AttachResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range dataURLs {
		if !strings.HasPrefix(u, "data:image/") {
			return AttachResult{Total: len(m.pendingPhotos)}, fmt.Errorf("%w: photos must be image data urls", media.ErrMediaUnsupported)
		}
	}

	remaining := entities.MaxPhotosPerEntry - len(m.pendingPhotos)
	if remaining <= 0 {
		return AttachResult{Rejected: len(dataURLs), Total: len(m.pendingPhotos)}, ErrTooManyPhotos
	}

	add := dataURLs
	if len(add) > remaining {
		add = add[:remaining]
	}
	m.pendingPhotos = append(m.pendingPhotos, add...)

	res := AttachResult{
		Added:    len(add),
		Rejected: len(dataURLs) - len(add),
		Total:    len(m.pendingPhotos),
	}
	if res.Rejected > 0 {
		res.Warning = fmt.Sprintf("Added %d files. Maximum %d", res.Added, entities.MaxPhotosPerEntry)
	}
	return res, nil
}

func (m *Manager) ClearPendingPhotos() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingPhotos = nil
}

func (m *Manager) Pending() Pending {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := Pending{
		Photos:         len(m.pendingPhotos),
		PhotoSlotsLeft: entities.MaxPhotosPerEntry - len(m.pendingPhotos),
		RecorderState:  m.recorder.State(),
	}
	if rec := m.pendingRecording; rec != nil {
		p.Recording = &PendingRecording{Duration: rec.Duration, MimeType: rec.MimeType, Bytes: len(rec.Data)}
	}
	return p
}

// StartRecording begins a voice capture. A previously staged recording is
// discarded.
func (m *Manager) StartRecording(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.recorder.Start(ctx); err != nil {
		m.logger.Warn("voice capture unavailable", "error", err)
		return err
	}
	m.pendingRecording = nil
	return nil
}

// AppendRecording feeds a chunk to a streamed capture.
func (m *Manager) AppendRecording(chunk []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.recorder.Write(chunk)
	return err
}

// StopRecording finishes the capture and stages it for the next submission.
func (m *Manager) StopRecording() (*media.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.recorder.Stop()
	if err != nil {
		return nil, err
	}
	m.pendingRecording = rec
	return rec, nil
}

// StageRecording stages a recording that was captured elsewhere.
func (m *Manager) StageRecording(rec media.Recording) error {
	if len(rec.Data) == 0 {
		return fmt.Errorf("%w: empty recording", media.ErrMediaUnsupported)
	}
	mimeType, err := media.ValidateAudioMIME(rec.MimeType, rec.Data)
	if err != nil {
		return err
	}
	rec.MimeType = mimeType
	if rec.Duration < 0 {
		rec.Duration = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorder.Cancel()
	m.pendingRecording = &rec
	return nil
}

func (m *Manager) DiscardRecording() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorder.Cancel()
	m.pendingRecording = nil
}

// Audio returns the recording of an entry.
func (m *Manager) Audio(ctx context.Context, entryID int64) (entities.Entry, *entities.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.findLocked(ctx, entryID)
	if err != nil {
		return entities.Entry{}, nil, err
	}
	if entry.Audio == nil {
		return entities.Entry{}, nil, ErrNoAudio
	}
	return *entry, entry.Audio, nil
}

func (m *Manager) findLocked(ctx context.Context, entryID int64) (*entities.Entry, error) {
	for i := range m.cache {
		if m.cache[i].ID == entryID {
			if err := m.assembler.Hydrate(ctx, &m.cache[i]); err != nil {
				return nil, err
			}
			return &m.cache[i], nil
		}
	}
	return nil, ErrEntryNotFound
}

// Reset wipes the store, the cache and the pending buffers. If the store
// could not clear every table the cache is reloaded from what is left.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.ClearAll(ctx)

	m.cache = nil
	m.pendingPhotos = nil
	m.pendingRecording = nil
	m.recorder.Cancel()
	m.state = StateIdle

	if err != nil {
		m.logger.Error("clear all failed", "error", err)
		if loadErr := m.loadLocked(ctx); loadErr != nil {
			return errors.Join(err, loadErr)
		}
		return err
	}

	m.logger.Info("diary reset")
	return nil
}

// SweepOrphans deletes attachment rows left behind by failed submissions.
// It holds the manager lock so no submission is mid-write.
func (m *Manager) SweepOrphans(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.DeleteOrphanAttachments(ctx)
}
