package repository

import (
	"context"
	"errors"

	"org-service/internal/model"
)

var (
	// ErrDuplicateKey reports a unique-index violation from the backing
	// store. The store, not the caller, is the arbiter for races on name
	// and email uniqueness.
	ErrDuplicateKey = errors.New("duplicate key violates unique constraint")

	// ErrNotFound reports that no record matched the lookup.
	ErrNotFound = errors.New("record not found")
)

// OrganizationRepository is the directory of organization records.
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByName(ctx context.Context, name string) (*model.Organization, error)
	// Update applies the given column updates to the organization with the
	// current name and returns the updated record. Returns ErrNotFound if no
	// record matched and ErrDuplicateKey if a rename collides with an
	// existing name.
	Update(ctx context.Context, name string, updates map[string]interface{}) (*model.Organization, error)
	// Delete removes the named organization and reports whether a record was
	// actually removed.
	Delete(ctx context.Context, name string) (bool, error)
}

// AdminRepository is the directory of admin credentials.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	FindByOrganization(ctx context.Context, orgID string) (*model.AdminUser, error)
	Update(ctx context.Context, adminID string, updates map[string]interface{}) (*model.AdminUser, error)
	// DeleteByOrganization removes the admin credential owned by the given
	// organization and reports whether a record was actually removed.
	DeleteByOrganization(ctx context.Context, orgID string) (bool, error)
}
