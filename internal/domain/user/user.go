package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

var ThemeColors = []string{"blue", "green", "purple", "orange", "red"}

const DefaultThemeColor = "blue"

// Profile holds per-user display data and preferences. A user without a row
// gets DefaultProfile.
type Profile struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	AvatarURL    *string         `gorm:"column:avatar_url" json:"avatar_url"`
	BirthDate    *datatypes.Date `gorm:"column:birth_date" json:"birth_date"`
	WeekStartDay string          `gorm:"column:week_start_day;not null;default:'monday'" json:"week_start_day"`
	ThemeColor   string          `gorm:"column:theme_color;not null;default:'blue'" json:"theme_color"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.WeekStartDay == "" {
		p.WeekStartDay = WeekStartMonday
	}
	if p.ThemeColor == "" {
		p.ThemeColor = DefaultThemeColor
	}
	return nil
}

func DefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:       userID,
		WeekStartDay: WeekStartMonday,
		ThemeColor:   DefaultThemeColor,
	}
}

func ValidWeekStartDay(s string) bool {
	return s == WeekStartMonday || s == WeekStartSunday
}

func ValidThemeColor(s string) bool {
	for _, c := range ThemeColors {
		if c == s {
			return true
		}
	}
	return false
}
