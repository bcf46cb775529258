package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"org-service/internal/model"
)

// isUniqueViolation reports whether err is a Postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a directory over the organizations table.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *organizationRepository) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	var org model.Organization
	result := r.db.WithContext(ctx).Where("organization_name = ?", name).First(&org)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, name string, updates map[string]interface{}) (*model.Organization, error) {
	now := time.Now().UTC()
	updates["updated_at"] = &now

	result := r.db.WithContext(ctx).Model(&model.Organization{}).
		Where("organization_name = ?", name).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	lookup := name
	if newName, ok := updates["organization_name"].(string); ok {
		lookup = newName
	}
	return r.FindByName(ctx, lookup)
}

func (r *organizationRepository) Delete(ctx context.Context, name string) (bool, error) {
	result := r.db.WithContext(ctx).Where("organization_name = ?", name).Delete(&model.Organization{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a directory over the admin_users table.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &admin, nil
}

func (r *adminRepository) FindByOrganization(ctx context.Context, orgID string) (*model.AdminUser, error) {
	var admin model.AdminUser
	result := r.db.WithContext(ctx).Where("organization_id = ?", orgID).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &admin, nil
}

func (r *adminRepository) Update(ctx context.Context, adminID string, updates map[string]interface{}) (*model.AdminUser, error) {
	now := time.Now().UTC()
	updates["updated_at"] = &now

	result := r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", adminID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var admin model.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", adminID).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) DeleteByOrganization(ctx context.Context, orgID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Delete(&model.AdminUser{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
