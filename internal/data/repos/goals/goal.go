package goals

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type GoalRepo interface {
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Goal, error)
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Goal, error)
	GetByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*types.Goal, error)
	FindRootByTitle(dbc dbctx.Context, ownerID uuid.UUID, title string) (*types.Goal, error)
	MaxOrder(dbc dbctx.Context, ownerID uuid.UUID, parentID *uuid.UUID) (float64, bool, error)
	Create(dbc dbctx.Context, goal *types.Goal) error
	UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error
	UpdatePlacement(dbc dbctx.Context, ownerID, id uuid.UUID, parentID *uuid.UUID, order float64) error
	SetOrders(dbc dbctx.Context, ownerID uuid.UUID, orders map[uuid.UUID]float64) error
	SubtreeIDs(dbc dbctx.Context, ownerID, rootID uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) error
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Goal, error) {
	var out []*types.Goal
	if ownerID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("user_id = ?", ownerID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *goalRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Goal, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.Goal
	err := dbc.DB(r.db).Where("user_id = ? AND id = ?", ownerID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *goalRepo) GetByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*types.Goal, error) {
	var out []*types.Goal
	if ownerID == uuid.Nil || len(ids) == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, ids).Find(&out).Error
	return out, err
}

func (r *goalRepo) FindRootByTitle(dbc dbctx.Context, ownerID uuid.UUID, title string) (*types.Goal, error) {
	var row types.Goal
	err := dbc.DB(r.db).
		Where("user_id = ? AND parent_id IS NULL AND title = ?", ownerID, title).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// MaxOrder returns the largest display_order under parentID (nil for roots)
// and whether any sibling exists.
func (r *goalRepo) MaxOrder(dbc dbctx.Context, ownerID uuid.UUID, parentID *uuid.UUID) (float64, bool, error) {
	q := dbc.DB(r.db).Model(&types.Goal{}).Where("user_id = ?", ownerID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var max sql.NullFloat64
	if err := q.Select("MAX(display_order)").Row().Scan(&max); err != nil {
		return 0, false, err
	}
	return max.Float64, max.Valid, nil
}

func (r *goalRepo) Create(dbc dbctx.Context, goal *types.Goal) error {
	if goal == nil {
		return nil
	}
	return dbc.DB(r.db).Create(goal).Error
}

func (r *goalRepo) UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.Goal{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("goal")
	}
	return nil
}

func (r *goalRepo) UpdatePlacement(dbc dbctx.Context, ownerID, id uuid.UUID, parentID *uuid.UUID, order float64) error {
	return r.UpdateFields(dbc, ownerID, id, map[string]any{
		"parent_id":     parentID,
		"display_order": order,
	})
}

func (r *goalRepo) SetOrders(dbc dbctx.Context, ownerID uuid.UUID, orders map[uuid.UUID]float64) error {
	for id, order := range orders {
		if err := dbc.DB(r.db).Model(&types.Goal{}).
			Where("user_id = ? AND id = ?", ownerID, id).
			Update("display_order", order).Error; err != nil {
			return err
		}
	}
	return nil
}

// SubtreeIDs returns rootID followed by every goal below it, breadth first.
// A parent loop in stored data is walked once and then ignored.
func (r *goalRepo) SubtreeIDs(dbc dbctx.Context, ownerID, rootID uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{rootID}
	seen := map[uuid.UUID]bool{rootID: true}
	frontier := []uuid.UUID{rootID}
	for len(frontier) > 0 {
		var kids []uuid.UUID
		if err := dbc.DB(r.db).Model(&types.Goal{}).
			Where("user_id = ? AND parent_id IN ?", ownerID, frontier).
			Pluck("id", &kids).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range kids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			frontier = append(frontier, id)
		}
	}
	return out, nil
}

func (r *goalRepo) DeleteByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, ids).Delete(&types.Goal{}).Error
}
