package service

import (
	"context"
	"time"

	"org-service/internal/model"
	"org-service/internal/repository"
)

// memoryOrgRepo is an in-memory OrganizationRepository keyed by normalized
// name, mirroring the unique index of the real directory.
type memoryOrgRepo struct {
	orgs       map[string]*model.Organization
	failCreate error
	failUpdate error
}

func newMemoryOrgRepo() *memoryOrgRepo {
	return &memoryOrgRepo{orgs: make(map[string]*model.Organization)}
}

func (r *memoryOrgRepo) Create(_ context.Context, org *model.Organization) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, exists := r.orgs[org.OrganizationName]; exists {
		return repository.ErrDuplicateKey
	}
	stored := *org
	stored.CreatedAt = time.Now().UTC()
	r.orgs[org.OrganizationName] = &stored
	return nil
}

func (r *memoryOrgRepo) FindByName(_ context.Context, name string) (*model.Organization, error) {
	org, ok := r.orgs[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *org
	return &copied, nil
}

func (r *memoryOrgRepo) Update(_ context.Context, name string, updates map[string]interface{}) (*model.Organization, error) {
	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	org, ok := r.orgs[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if newName, ok := updates["organization_name"].(string); ok && newName != name {
		if other, exists := r.orgs[newName]; exists && other.ID != org.ID {
			return nil, repository.ErrDuplicateKey
		}
		delete(r.orgs, name)
		org.OrganizationName = newName
		r.orgs[newName] = org
	}
	if email, ok := updates["email"].(string); ok {
		org.Email = email
	}
	now := time.Now().UTC()
	org.UpdatedAt = &now
	copied := *org
	return &copied, nil
}

func (r *memoryOrgRepo) Delete(_ context.Context, name string) (bool, error) {
	if _, ok := r.orgs[name]; !ok {
		return false, nil
	}
	delete(r.orgs, name)
	return true, nil
}

// memoryAdminRepo is an in-memory AdminRepository with a unique email index.
type memoryAdminRepo struct {
	admins     map[string]*model.AdminUser // by id
	failCreate error
}

func newMemoryAdminRepo() *memoryAdminRepo {
	return &memoryAdminRepo{admins: make(map[string]*model.AdminUser)}
}

func (r *memoryAdminRepo) Create(_ context.Context, admin *model.AdminUser) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, existing := range r.admins {
		if existing.Email == admin.Email {
			return repository.ErrDuplicateKey
		}
	}
	stored := *admin
	stored.CreatedAt = time.Now().UTC()
	r.admins[admin.ID] = &stored
	return nil
}

func (r *memoryAdminRepo) FindByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	for _, admin := range r.admins {
		if admin.Email == email {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryAdminRepo) FindByOrganization(_ context.Context, orgID string) (*model.AdminUser, error) {
	for _, admin := range r.admins {
		if admin.OrganizationID == orgID {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryAdminRepo) Update(_ context.Context, adminID string, updates map[string]interface{}) (*model.AdminUser, error) {
	admin, ok := r.admins[adminID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if email, ok := updates["email"].(string); ok {
		for id, existing := range r.admins {
			if id != adminID && existing.Email == email {
				return nil, repository.ErrDuplicateKey
			}
		}
		admin.Email = email
	}
	if hash, ok := updates["password"].(string); ok {
		admin.Password = hash
	}
	if orgName, ok := updates["organization_name"].(string); ok {
		admin.OrganizationName = orgName
	}
	now := time.Now().UTC()
	admin.UpdatedAt = &now
	copied := *admin
	return &copied, nil
}

func (r *memoryAdminRepo) DeleteByOrganization(_ context.Context, orgID string) (bool, error) {
	for id, admin := range r.admins {
		if admin.OrganizationID == orgID {
			delete(r.admins, id)
			return true, nil
		}
	}
	return false, nil
}

// memoryPartitionStore keeps per-tenant document slices and can inject
// failures into each transition step.
type memoryPartitionStore struct {
	tables map[string][][]byte

	failMaterialize error
	failCopy        error
	failDrop        error

	copyCalls int
	dropCalls int
}

func newMemoryPartitionStore() *memoryPartitionStore {
	return &memoryPartitionStore{tables: make(map[string][][]byte)}
}

func (s *memoryPartitionStore) Materialize(_ context.Context, tenantName string) error {
	if s.failMaterialize != nil {
		return s.failMaterialize
	}
	if _, ok := s.tables[tenantName]; !ok {
		s.tables[tenantName] = [][]byte{}
	}
	return nil
}

func (s *memoryPartitionStore) CopyAndReplace(ctx context.Context, oldName, newName string) error {
	s.copyCalls++
	if err := s.Materialize(ctx, newName); err != nil {
		return err
	}
	if s.failCopy != nil {
		// Copy aborted: old partition stays intact.
		return s.failCopy
	}
	s.tables[newName] = append(s.tables[newName], s.tables[oldName]...)
	delete(s.tables, oldName)
	return nil
}

func (s *memoryPartitionStore) Drop(_ context.Context, tenantName string) error {
	s.dropCalls++
	if s.failDrop != nil {
		return s.failDrop
	}
	delete(s.tables, tenantName)
	return nil
}

func (s *memoryPartitionStore) Insert(_ context.Context, tenantName string, doc []byte) error {
	s.tables[tenantName] = append(s.tables[tenantName], doc)
	return nil
}

func (s *memoryPartitionStore) Count(_ context.Context, tenantName string) (int64, error) {
	return int64(len(s.tables[tenantName])), nil
}

func (s *memoryPartitionStore) has(tenantName string) bool {
	_, ok := s.tables[tenantName]
	return ok
}
