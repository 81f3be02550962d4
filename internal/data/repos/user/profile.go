package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type ProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Profile, error)
	Upsert(dbc dbctx.Context, profile *types.Profile, columns []string) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Profile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.Profile
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert inserts profile or, when the user already has one, overwrites only
// columns. The stored row is read back into profile.
func (r *profileRepo) Upsert(dbc dbctx.Context, profile *types.Profile, columns []string) error {
	if profile == nil {
		return nil
	}
	cols := append([]string{"updated_at"}, columns...)
	err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(profile).Error
	if err != nil {
		return err
	}
	// Reload into a fresh row: on conflict the stored id differs from the one
	// BeforeCreate generated.
	var stored types.Profile
	if err := dbc.DB(r.db).Where("user_id = ?", profile.UserID).First(&stored).Error; err != nil {
		return err
	}
	*profile = stored
	return nil
}
