package settingsstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mrlokans/diary/internal/entities"
	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/utils"
)

// ErrInvalidColor is returned by Save and Update for malformed colors.
var ErrInvalidColor = utils.ErrInvalidColor

// Field sources reported by Effective.
const (
	SourceSaved   = "saved"
	SourceDefault = "default"
)

type Repository interface {
	Get(ctx context.Context) (*entities.Settings, error)
	Save(ctx context.Context, s *entities.Settings) error
}

// Defaults are used for every field the user never set.
type Defaults struct {
	TextColor            string
	BgColor              string
	ButtonGradientColor1 string
	ButtonGradientColor2 string
}

func BuiltinDefaults() Defaults {
	return Defaults{
		TextColor:            "#333333",
		BgColor:              "#FFFFFF",
		ButtonGradientColor1: "#FF6B6B",
		ButtonGradientColor2: "#4ECDC4",
	}
}

// Preferences is the settings record with defaults applied.
type Preferences struct {
	IsRealTitle          bool              `json:"is_real_title"`
	TextColor            string            `json:"text_color"`
	BgColor              string            `json:"bg_color"`
	BgImage              string            `json:"bg_image,omitempty"`
	ButtonGradientColor1 string            `json:"button_gradient_color_1"`
	ButtonGradientColor2 string            `json:"button_gradient_color_2"`
	Sources              map[string]string `json:"sources"`
}

// Patch changes only the non-nil fields.
type Patch struct {
	IsRealTitle          *bool   `json:"is_real_title"`
	TextColor            *string `json:"text_color"`
	BgColor              *string `json:"bg_color"`
	ButtonGradientColor1 *string `json:"button_gradient_color_1"`
	ButtonGradientColor2 *string `json:"button_gradient_color_2"`
}

// Priority: saved record > configured default
type SettingsStore struct {
	repo     Repository
	defaults Defaults

	// serializes read-modify-write updates
	mu sync.Mutex
}

func New(repo Repository, defaults Defaults) *SettingsStore {
	return &SettingsStore{repo: repo, defaults: defaults}
}

// Load returns the saved settings, or nil when nothing was ever saved.
func (s *SettingsStore) Load(ctx context.Context) (*entities.Settings, error) {
	return s.repo.Get(ctx)
}

// Save normalizes the colors and upserts the singleton record.
func (s *SettingsStore) Save(ctx context.Context, settings *entities.Settings) error {
	for _, field := range []*string{
		&settings.TextColor,
		&settings.BgColor,
		&settings.ButtonGradientColor1,
		&settings.ButtonGradientColor2,
	} {
		if *field == "" {
			continue
		}
		normalized, err := utils.NormalizeHexColor(*field)
		if err != nil {
			return err
		}
		*field = normalized
	}

	if settings.BgImage != nil && *settings.BgImage == "" {
		settings.BgImage = nil
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) Effective(ctx context.Context) (Preferences, error) {
	saved, err := s.repo.Get(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("load settings: %w", err)
	}
	return s.apply(saved), nil
}

func (s *SettingsStore) apply(saved *entities.Settings) Preferences {
	if saved == nil {
		saved = &entities.Settings{}
	}

	prefs := Preferences{
		IsRealTitle: saved.IsRealTitle,
		Sources:     make(map[string]string),
	}

	pick := func(name, value, fallback string) string {
		if value != "" {
			prefs.Sources[name] = SourceSaved
			return value
		}
		prefs.Sources[name] = SourceDefault
		return fallback
	}

	prefs.TextColor = pick("text_color", saved.TextColor, s.defaults.TextColor)
	prefs.BgColor = pick("bg_color", saved.BgColor, s.defaults.BgColor)
	prefs.ButtonGradientColor1 = pick("button_gradient_color_1", saved.ButtonGradientColor1, s.defaults.ButtonGradientColor1)
	prefs.ButtonGradientColor2 = pick("button_gradient_color_2", saved.ButtonGradientColor2, s.defaults.ButtonGradientColor2)
	if saved.BgImage != nil {
		prefs.BgImage = pick("bg_image", *saved.BgImage, "")
	} else {
		prefs.Sources["bg_image"] = SourceDefault
	}

	return prefs
}

// Update applies patch on top of the saved record and saves the result.
func (s *SettingsStore) Update(ctx context.Context, patch Patch) (Preferences, error) {
	return s.modify(ctx, func(cur *entities.Settings) error {
		if patch.IsRealTitle != nil {
			cur.IsRealTitle = *patch.IsRealTitle
		}
		for _, f := range []struct {
			dst *string
			src *string
		}{
			{&cur.TextColor, patch.TextColor},
			{&cur.BgColor, patch.BgColor},
			{&cur.ButtonGradientColor1, patch.ButtonGradientColor1},
			{&cur.ButtonGradientColor2, patch.ButtonGradientColor2},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		return nil
	})
}

// ToggleTitle flips between the plain and the real diary title.
func (s *SettingsStore) ToggleTitle(ctx context.Context) (Preferences, error) {
	return s.modify(ctx, func(cur *entities.Settings) error {
		cur.IsRealTitle = !cur.IsRealTitle
		return nil
	})
}

// SetBackgroundImage stores an image data URL as the page background.
func (s *SettingsStore) SetBackgroundImage(ctx context.Context, dataURL string) (Preferences, error) {
	mimeType, data, err := media.ParseDataURL(dataURL)
	if err != nil {
		return Preferences{}, err
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Preferences{}, fmt.Errorf("%w: background must be an image, got %s", media.ErrMediaUnsupported, mimeType)
	}
	if _, err := media.DetectImage(data); err != nil {
		return Preferences{}, err
	}

	return s.modify(ctx, func(cur *entities.Settings) error {
		cur.BgImage = &dataURL
		return nil
	})
}

func (s *SettingsStore) RemoveBackgroundImage(ctx context.Context) (Preferences, error) {
	return s.modify(ctx, func(cur *entities.Settings) error {
		cur.BgImage = nil
		return nil
	})
}

func (s *SettingsStore) modify(ctx context.Context, change func(cur *entities.Settings) error) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.repo.Get(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("load settings: %w", err)
	}
	if cur == nil {
		cur = &entities.Settings{ID: entities.SettingsID}
	}

	if err := change(cur); err != nil {
		return Preferences{}, err
	}
	if err := s.Save(ctx, cur); err != nil {
		return Preferences{}, err
	}
	return s.apply(cur), nil
}
