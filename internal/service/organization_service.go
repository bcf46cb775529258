package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"org-service/internal/dto"
	"org-service/internal/model"
	"org-service/internal/repository"
	"org-service/pkg/password"
	"org-service/prometheus"
)

// OrganizationService orchestrates the tenant lifecycle: creation, lookup,
// rename with partition migration, and deletion with partition teardown.
type OrganizationService interface {
	Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	Get(ctx context.Context, name string) (*dto.OrganizationResponse, error)
	Update(ctx context.Context, currentName string, req *dto.UpdateOrganizationRequest, adminID string) (*dto.OrganizationResponse, error)
	Delete(ctx context.Context, name string, callerOrgID string) error
}

type organizationService struct {
	orgRepo    repository.OrganizationRepository
	adminRepo  repository.AdminRepository
	partitions repository.PartitionStore
	hasher     *password.Hasher
	log        *zap.Logger
}

// NewOrganizationService creates an OrganizationService.
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	adminRepo repository.AdminRepository,
	partitions repository.PartitionStore,
	hasher *password.Hasher,
	log *zap.Logger,
) OrganizationService {
	return &organizationService{
		orgRepo:    orgRepo,
		adminRepo:  adminRepo,
		partitions: partitions,
		hasher:     hasher,
		log:        log,
	}
}

// Create registers an organization, its admin credential, and its data
// partition, in that order. There is no rollback: a failure after the
// organization insert leaves directory records without a partition, which is
// surfaced as an error and left for out-of-band cleanup.
func (s *organizationService) Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	name := strings.ToLower(req.OrganizationName)

	if _, err := s.orgRepo.FindByName(ctx, name); err == nil {
		return nil, ErrOrganizationExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.adminRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	org := &model.Organization{
		ID:               uuid.New().String(),
		OrganizationName: name,
		Email:            req.Email,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost the race; the unique index is the arbiter.
			return nil, ErrOrganizationExists
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.AdminUser{
		ID:               uuid.New().String(),
		Email:            req.Email,
		Password:         hash,
		OrganizationID:   org.ID,
		OrganizationName: name,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailRegistered
		}
		s.log.Error("admin creation failed after organization insert, directory left inconsistent",
			zap.String("organization_name", name),
			zap.String("organization_id", org.ID),
			zap.Error(err))
		return nil, err
	}

	if err := s.partitions.Materialize(ctx, name); err != nil {
		s.log.Error("partition materialization failed, directory records left without partition",
			zap.String("organization_name", name),
			zap.String("organization_id", org.ID),
			zap.Error(err))
		return nil, err
	}
	prometheus.RecordPartitionOperation("materialize")
	prometheus.ActiveOrganizationsGauge.Inc()

	s.log.Info("organization created",
		zap.String("organization_name", name),
		zap.String("organization_id", org.ID))
	return toOrganizationResponse(org), nil
}

// Get looks up an organization by name.
func (s *organizationService) Get(ctx context.Context, name string) (*dto.OrganizationResponse, error) {
	org, err := s.orgRepo.FindByName(ctx, strings.ToLower(name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

// Update applies organization and admin credential changes, then migrates the
// partition if the organization was renamed. The partition migration runs
// after the directory updates commit; a failure between the two leaves the
// directory pointing at the new name while the data is still filed under the
// old derived partition, to be completed by retrying the migration.
func (s *organizationService) Update(ctx context.Context, currentName string, req *dto.UpdateOrganizationRequest, adminID string) (*dto.OrganizationResponse, error) {
	currentName = strings.ToLower(currentName)

	org, err := s.orgRepo.FindByName(ctx, currentName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}

	orgUpdates := map[string]interface{}{}
	renamed := false
	newName := ""
	if req.OrganizationName != nil && *req.OrganizationName != currentName {
		newName = *req.OrganizationName
		existing, err := s.orgRepo.FindByName(ctx, newName)
		if err == nil && existing.ID != org.ID {
			return nil, ErrOrganizationExists
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		orgUpdates["organization_name"] = newName
		renamed = true
	}
	if req.Email != nil {
		orgUpdates["email"] = *req.Email
	}

	updated := org
	if len(orgUpdates) > 0 {
		updated, err = s.orgRepo.Update(ctx, currentName, orgUpdates)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateKey):
				return nil, ErrOrganizationExists
			case errors.Is(err, repository.ErrNotFound):
				return nil, ErrOrganizationNotFound
			}
			return nil, err
		}
	}

	adminUpdates := map[string]interface{}{}
	if req.Email != nil {
		adminUpdates["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		adminUpdates["password"] = hash
	}
	if renamed {
		adminUpdates["organization_name"] = newName
	}
	if len(adminUpdates) > 0 {
		if _, err := s.adminRepo.Update(ctx, adminID, adminUpdates); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return nil, ErrEmailRegistered
			}
			return nil, err
		}
	}

	if renamed {
		if err := s.partitions.CopyAndReplace(ctx, currentName, newName); err != nil {
			s.log.Error("partition migration failed, old partition intact under previous name",
				zap.String("old_name", currentName),
				zap.String("new_name", newName),
				zap.Error(err))
			return nil, err
		}
		prometheus.RecordPartitionOperation("migrate")
		s.log.Info("organization renamed",
			zap.String("old_name", currentName),
			zap.String("new_name", newName))
	}

	return toOrganizationResponse(updated), nil
}

// Delete tears a tenant down: admin credential, then organization record,
// then partition. The directory records go first so that a partition drop
// failure leaves an unreferenced orphan rather than a half-deleted tenant
// that can still authenticate.
func (s *organizationService) Delete(ctx context.Context, name string, callerOrgID string) error {
	name = strings.ToLower(name)

	org, err := s.orgRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return err
	}

	if org.ID != callerOrgID {
		return ErrNotOrganizationAdmin
	}

	if _, err := s.adminRepo.DeleteByOrganization(ctx, org.ID); err != nil {
		return err
	}
	if _, err := s.orgRepo.Delete(ctx, name); err != nil {
		return err
	}
	if err := s.partitions.Drop(ctx, name); err != nil {
		s.log.Error("partition drop failed, orphaned partition left behind",
			zap.String("organization_name", name),
			zap.String("organization_id", org.ID),
			zap.Error(err))
		return err
	}
	prometheus.RecordPartitionOperation("drop")
	prometheus.ActiveOrganizationsGauge.Dec()

	s.log.Info("organization deleted",
		zap.String("organization_name", name),
		zap.String("organization_id", org.ID))
	return nil
}

func toOrganizationResponse(org *model.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:                org.ID,
		OrganizationName:  org.OrganizationName,
		Email:             org.Email,
		ConnectionDetails: repository.TableName(org.OrganizationName),
		CreatedAt:         org.CreatedAt,
		UpdatedAt:         org.UpdatedAt,
	}
}
