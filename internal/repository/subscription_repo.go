package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nestbio/linko/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert writes the subscription keyed by its billing provider id.
// Replaying the same event is a no-op in effect: the row converges to
// the same state.
func (r *SubscriptionRepository) Upsert(sub *model.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(sub).Error
}

func (r *SubscriptionRepository) GetByID(id string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetCurrentByUser returns the user's most recent subscription row.
func (r *SubscriptionRepository) GetCurrentByUser(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) UpdateStatus(id string, status string) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *SubscriptionRepository) UpdateCancelAtPeriodEnd(id string, cancel bool) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).
		Update("cancel_at_period_end", cancel).Error
}
