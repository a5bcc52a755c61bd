package entities

// SettingsID is the primary key of the singleton preferences row.
const SettingsID = "userSettings"

// Settings holds the user's display preferences. Empty color fields mean
// "never set" and are filled with defaults by the settings store.
type Settings struct {
	ID                   string  `gorm:"primaryKey" json:"id"`
	IsRealTitle          bool    `gorm:"column:is_real_title" json:"is_real_title"`
	TextColor            string  `gorm:"column:text_color" json:"text_color,omitempty"`
	BgColor              string  `gorm:"column:bg_color" json:"bg_color,omitempty"`
	BgImage              *string `gorm:"column:bg_image;type:text" json:"bg_image,omitempty"`
	ButtonGradientColor1 string  `gorm:"column:button_gradient_color_1" json:"button_gradient_color_1,omitempty"`
	ButtonGradientColor2 string  `gorm:"column:button_gradient_color_2" json:"button_gradient_color_2,omitempty"`
}

func (Settings) TableName() string {
	return "settings"
}

func (s Settings) PayloadSize() int {
	if s.BgImage == nil {
		return 0
	}
	return len(*s.BgImage)
}
