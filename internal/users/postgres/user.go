package postgres

import (
	"time"

	userDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/user-backoffice/internal/users"
	"gorm.io/gorm"
)

// UserRepository implements users.Repository using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) users.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll() ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Preload("Role").Preload("Major").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Preload("Role").Preload("Major").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Create runs the uniqueness pre-check and the insert in one transaction so
// concurrent requests cannot both pass the check.
func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&userDatamodel.User{}).
			Where("username = ? OR email = ?", u.Username, u.Email).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return users.ErrDuplicate
		}
		return tx.Create(u).Error
	})
}

// Update mirrors the create-time conflict scan but excludes the target row.
// All mutable columns are overwritten.
func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&userDatamodel.User{}).
			Where("(username = ? OR email = ?) AND id <> ?", u.Username, u.Email, u.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return users.ErrDuplicate
		}

		return tx.Model(&userDatamodel.User{}).
			Where("id = ?", u.ID).
			Updates(map[string]interface{}{
				"username":   u.Username,
				"fullname":   u.Fullname,
				"email":      u.Email,
				"role_id":    u.RoleID,
				"major_id":   u.MajorID,
				"is_active":  u.IsActive,
				"updated_at": u.UpdatedAt,
			}).Error
	})
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
}

func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}
