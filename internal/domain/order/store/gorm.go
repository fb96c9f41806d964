package store

import (
	"context"
	"errors"
	"time"

	"syafa-store/internal/domain/order/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the durable order store backed by Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reff_id"}},
			UpdateAll: true,
		}).
		Create(order).Error
}

func (s *GormStore) Patch(ctx context.Context, reffID string, patch model.Patch) (*model.Order, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.AtlanticTransactionID != nil {
		updates["atlantic_transaction_id"] = *patch.AtlanticTransactionID
	}
	if patch.PanelDomain != nil {
		updates["panel_domain"] = *patch.PanelDomain
	}
	if patch.PanelPassword != nil {
		updates["panel_password"] = *patch.PanelPassword
	}
	if patch.UserID != nil {
		updates["user_id"] = *patch.UserID
	}
	if patch.ServerID != nil {
		updates["server_id"] = *patch.ServerID
	}
	if patch.ErrorMessage != nil {
		updates["error_message"] = *patch.ErrorMessage
	}

	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("reff_id = ?", reffID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return s.Get(ctx, reffID)
}

func (s *GormStore) Get(ctx context.Context, reffID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Where("reff_id = ?", reffID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// TransitionStatus relies on the conditional UPDATE for atomicity: the
// row moves from -> to only if no concurrent writer got there first.
func (s *GormStore) TransitionStatus(ctx context.Context, reffID string, from, to model.Status) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("reff_id = ? AND status = ?", reffID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the order is unknown or the status already moved on.
		if _, err := s.Get(ctx, reffID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

var _ OrderStore = (*GormStore)(nil)
