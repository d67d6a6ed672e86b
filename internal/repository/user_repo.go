package repository

import (
	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindAll() ([]model.User, error)
	FindByRoleCode(code string) ([]model.User, error)
	CountByRoleCode(code string, activeOnly bool) (int64, error)
	// Register creates the account. The caller that flips the persisted
	// admin_bootstrapped flag from false to true is given adminRole, every
	// other caller staffRole. Flag flip and insert share one transaction.
	Register(user *model.User, adminRole, staffRole *model.Role) error
	Update(user *model.User) error
	Delete(id uuid.UUID) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	UpdateLastSeen(userID uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role.Privileges").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role.Privileges").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Preload("Role.Privileges").Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) FindByRoleCode(code string) ([]model.User, error) {
	var users []model.User
	err := r.db.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.code = ?", code).
		Find(&users).Error
	return users, err
}

func (r *userRepo) CountByRoleCode(code string, activeOnly bool) (int64, error) {
	var n int64
	query := r.db.Model(&model.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.code = ?", code)
	if activeOnly {
		query = query.Where("users.is_active = ?", true)
	}
	err := query.Count(&n).Error
	return n, err
}

func (r *userRepo) Register(user *model.User, adminRole, staffRole *model.Role) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SystemSetting{}).
			Where("key = ? AND value = ?", model.SettingAdminBootstrapped, model.SettingFalse).
			Update("value", model.SettingTrue)
		if res.Error != nil {
			return res.Error
		}

		role := staffRole
		if res.RowsAffected == 1 {
			role = adminRole
		}
		user.RoleID = &role.ID

		if err := tx.Omit("Role").Create(user).Error; err != nil {
			return err
		}
		user.Role = role
		return nil
	})
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Omit("Role").Save(user).Error
}

// Delete removes the account row permanently
func (r *userRepo) Delete(id uuid.UUID) error {
	res := r.db.Unscoped().Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

func (r *userRepo) UpdateLastSeen(userID uuid.UUID) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_seen_at", gorm.Expr("NOW()")).Error
}
