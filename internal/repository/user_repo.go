package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByVerificationCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("verification_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByPasswordResetCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("password_reset_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByStripeCustomerID(customerID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// SetStripeCustomerIDIfEmpty assigns a billing customer to the user only
// when no customer is recorded yet. Returns false when another request
// won the race and the caller should re-read the user.
func (r *UserRepository) SetStripeCustomerIDIfEmpty(id int64, customerID string) (bool, error) {
	res := r.db.Model(&model.User{}).
		Where("id = ? AND (stripe_customer_id IS NULL OR stripe_customer_id = '')", id).
		Update("stripe_customer_id", customerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateEntitlement projects the subscription state onto the profile.
// subscriptionID is nil when the subscription is gone.
func (r *UserRepository) UpdateEntitlement(id int64, isPremium bool, subscriptionID *string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_premium":      isPremium,
		"subscription_id": subscriptionID,
	}).Error
}

func (r *UserRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// DeleteStaleUnverified removes accounts that were created before the
// cutoff and never verified their email.
func (r *UserRepository) DeleteStaleUnverified(cutoff time.Time) (int64, error) {
	res := r.db.Where("email_verified = ? AND created_at < ?", false, cutoff).
		Delete(&model.User{})
	return res.RowsAffected, res.Error
}
