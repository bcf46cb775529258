package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"org-service/internal/dto"
	"org-service/internal/repository"
	"org-service/pkg/jwtutil"
	"org-service/pkg/password"
)

// AuthService authenticates admins and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	jwt       *jwtutil.JWTUtil
	hasher    *password.Hasher
	log       *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(adminRepo repository.AdminRepository, jwt *jwtutil.JWTUtil, hasher *password.Hasher, log *zap.Logger) AuthService {
	return &authService{
		adminRepo: adminRepo,
		jwt:       jwt,
		hasher:    hasher,
		log:       log,
	}
}

// Login verifies the presented credential and issues a token bound to the
// admin and its organization. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("login failed: email not found", zap.String("email", req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, admin.Password) {
		s.log.Warn("login failed: invalid password", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(admin.Email, admin.ID, admin.OrganizationID, admin.OrganizationName)
	if err != nil {
		return nil, err
	}

	s.log.Info("admin logged in",
		zap.String("email", admin.Email),
		zap.String("organization_id", admin.OrganizationID))

	return &dto.TokenResponse{
		AccessToken:      token,
		TokenType:        "bearer",
		AdminID:          admin.ID,
		OrganizationID:   admin.OrganizationID,
		OrganizationName: admin.OrganizationName,
	}, nil
}
