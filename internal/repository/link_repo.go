package repository

import (
	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(link *model.Link) error {
	return r.db.Create(link).Error
}

func (r *LinkRepository) GetByID(id int64) (*model.Link, error) {
	var link model.Link
	err := r.db.Where("id = ?", id).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByUser returns all of a user's links ordered by position.
func (r *LinkRepository) ListByUser(userID int64) ([]*model.Link, error) {
	var links []*model.Link
	err := r.db.Where("user_id = ?", userID).
		Order("position ASC, id ASC").
		Find(&links).Error
	return links, err
}

// ListActiveByUser returns the links shown on the public page.
func (r *LinkRepository) ListActiveByUser(userID int64) ([]*model.Link, error) {
	var links []*model.Link
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("position ASC, id ASC").
		Find(&links).Error
	return links, err
}

func (r *LinkRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Link{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *LinkRepository) MaxPosition(userID int64) (int, error) {
	var max *int
	err := r.db.Model(&model.Link{}).Where("user_id = ?", userID).
		Select("MAX(position)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *LinkRepository) Update(link *model.Link) error {
	return r.db.Save(link).Error
}

func (r *LinkRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Link{}).Where("id = ?", id).Updates(fields).Error
}

func (r *LinkRepository) Delete(id int64) error {
	return r.db.Delete(&model.Link{}, id).Error
}

// Reorder rewrites positions to match the given id order. Runs in a
// transaction so a failed update leaves the old order intact.
func (r *LinkRepository) Reorder(userID int64, orderedIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			res := tx.Model(&model.Link{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("position", pos)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *LinkRepository) IncrementClickCount(id int64) error {
	return r.db.Model(&model.Link{}).Where("id = ?", id).
		Update("click_count", gorm.Expr("click_count + 1")).Error
}

func (r *LinkRepository) IncrementShareCount(id int64) error {
	return r.db.Model(&model.Link{}).Where("id = ?", id).
		Update("share_count", gorm.Expr("share_count + 1")).Error
}
