package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/week"
)

type UpdateProfileInput struct {
	Name      string  `json:"name" binding:"required"`
	AvatarURL *string `json:"avatar_url"`
	BirthDate *string `json:"birth_date"`
}

type Settings struct {
	WeekStartDay string `json:"week_start_day"`
	ThemeColor   string `json:"theme_color"`
}

type UpdateSettingsInput struct {
	WeekStartDay *string `json:"week_start_day" binding:"omitempty,oneof=monday sunday"`
	ThemeColor   *string `json:"theme_color"`
}

type ProfileService interface {
	Get(dbc dbctx.Context) (*types.Profile, error)
	UpdateProfile(dbc dbctx.Context, in UpdateProfileInput) (*types.Profile, error)
	GetSettings(dbc dbctx.Context) (*Settings, error)
	UpdateSettings(dbc dbctx.Context, in UpdateSettingsInput) (*Settings, error)
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	profiles repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profiles repos.ProfileRepo) ProfileService {
	return &profileService{db: db, log: log.With("service", "ProfileService"), profiles: profiles}
}

// Get never fails for a missing row; a new user sees the defaults.
func (s *profileService) Get(dbc dbctx.Context) (*types.Profile, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByUserID(dbc, owner)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return types.DefaultProfile(owner), nil
	}
	return p, nil
}

func (s *profileService) UpdateProfile(dbc dbctx.Context, in UpdateProfileInput) (*types.Profile, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	name, err := requiredText("name", in.Name)
	if err != nil {
		return nil, err
	}
	birth, err := week.ParseOptional(in.BirthDate)
	if err != nil {
		return nil, apierr.Invalid(err.Error())
	}
	p := types.DefaultProfile(owner)
	p.Name = name
	p.AvatarURL = optionalText(in.AvatarURL)
	p.BirthDate = birth
	if err := s.profiles.Upsert(dbc, p, []string{"name", "avatar_url", "birth_date"}); err != nil {
		return nil, apierr.FromDB(err)
	}
	return p, nil
}

func (s *profileService) GetSettings(dbc dbctx.Context) (*Settings, error) {
	p, err := s.Get(dbc)
	if err != nil {
		return nil, err
	}
	return settingsOf(p), nil
}

func settingsOf(p *types.Profile) *Settings {
	out := &Settings{WeekStartDay: p.WeekStartDay, ThemeColor: p.ThemeColor}
	if !types.ValidWeekStartDay(out.WeekStartDay) {
		out.WeekStartDay = types.WeekStartMonday
	}
	if !types.ValidThemeColor(out.ThemeColor) {
		out.ThemeColor = types.DefaultThemeColor
	}
	return out
}

func (s *profileService) UpdateSettings(dbc dbctx.Context, in UpdateSettingsInput) (*Settings, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	var cols []string
	p := types.DefaultProfile(owner)
	if in.WeekStartDay != nil {
		day := strings.ToLower(strings.TrimSpace(*in.WeekStartDay))
		if !types.ValidWeekStartDay(day) {
			return nil, apierr.Invalid(fmt.Sprintf("week_start_day must be monday or sunday, got %q", day))
		}
		p.WeekStartDay = day
		cols = append(cols, "week_start_day")
	}
	if in.ThemeColor != nil {
		color := strings.ToLower(strings.TrimSpace(*in.ThemeColor))
		if !types.ValidThemeColor(color) {
			return nil, apierr.Invalid(fmt.Sprintf("unknown theme color %q", color))
		}
		p.ThemeColor = color
		cols = append(cols, "theme_color")
	}
	if err := s.profiles.Upsert(dbc, p, cols); err != nil {
		return nil, apierr.FromDB(err)
	}
	return settingsOf(p), nil
}
