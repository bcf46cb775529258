package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"org-service/internal/dto"
	"org-service/internal/middleware"
	"org-service/internal/service"
	"org-service/pkg/jwtutil"
)

var testJWT = jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
	SigningKey:        "handler-test-key",
	ExpirationMinutes: 60,
})

// fakeOrgService scripts service responses per test.
type fakeOrgService struct {
	createFn func(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	getFn    func(ctx context.Context, name string) (*dto.OrganizationResponse, error)
	updateFn func(ctx context.Context, currentName string, req *dto.UpdateOrganizationRequest, adminID string) (*dto.OrganizationResponse, error)
	deleteFn func(ctx context.Context, name string, callerOrgID string) error
}

func (f *fakeOrgService) Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeOrgService) Get(ctx context.Context, name string) (*dto.OrganizationResponse, error) {
	return f.getFn(ctx, name)
}

func (f *fakeOrgService) Update(ctx context.Context, currentName string, req *dto.UpdateOrganizationRequest, adminID string) (*dto.OrganizationResponse, error) {
	return f.updateFn(ctx, currentName, req, adminID)
}

func (f *fakeOrgService) Delete(ctx context.Context, name string, callerOrgID string) error {
	return f.deleteFn(ctx, name, callerOrgID)
}

func setupOrgRoutes(svc service.OrganizationService) *echo.Echo {
	e := echo.New()
	h := NewOrgHandler(svc)
	e.POST("/org/create", h.Create)
	e.GET("/org/get/:organization_name", h.Get)
	authed := e.Group("/org", middleware.Auth(testJWT))
	authed.PUT("/update", h.Update)
	authed.DELETE("/delete", h.Delete)
	return e
}

func TestCreateOrganizationCreated(t *testing.T) {
	svc := &fakeOrgService{
		createFn: func(_ context.Context, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
			require.Equal(t, "demo_corp", req.OrganizationName)
			return &dto.OrganizationResponse{
				ID:                "org-1",
				OrganizationName:  req.OrganizationName,
				Email:             req.Email,
				ConnectionDetails: "org_demo_corp",
			}, nil
		},
	}
	e := setupOrgRoutes(svc)

	body := `{"organization_name":"Demo_Corp","email":"admin@demo.com","password":"StrongPassword123"}`
	req := httptest.NewRequest(http.MethodPost, "/org/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"organization_name":"demo_corp"`)
	require.Contains(t, rec.Body.String(), `"connection_details":"org_demo_corp"`)
}

func TestCreateOrganizationWeakPassword(t *testing.T) {
	svc := &fakeOrgService{
		createFn: func(context.Context, *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
			t.Fatal("service must not be reached on validation failure")
			return nil, nil
		},
	}
	e := setupOrgRoutes(svc)

	body := `{"organization_name":"demo_corp","email":"admin@demo.com","password":"weak"}`
	req := httptest.NewRequest(http.MethodPost, "/org/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOrganizationConflict(t *testing.T) {
	svc := &fakeOrgService{
		createFn: func(context.Context, *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
			return nil, service.ErrOrganizationExists
		},
	}
	e := setupOrgRoutes(svc)

	body := `{"organization_name":"demo_corp","email":"admin@demo.com","password":"StrongPassword123"}`
	req := httptest.NewRequest(http.MethodPost, "/org/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrganizationNotFound(t *testing.T) {
	svc := &fakeOrgService{
		getFn: func(context.Context, string) (*dto.OrganizationResponse, error) {
			return nil, service.ErrOrganizationNotFound
		},
	}
	e := setupOrgRoutes(svc)

	req := httptest.NewRequest(http.MethodGet, "/org/get/ghost_org", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRequiresToken(t *testing.T) {
	svc := &fakeOrgService{}
	e := setupOrgRoutes(svc)

	body := `{"email":"new@demo.com"}`
	req := httptest.NewRequest(http.MethodPut, "/org/update", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestUpdateUsesTokenContext(t *testing.T) {
	svc := &fakeOrgService{
		updateFn: func(_ context.Context, currentName string, req *dto.UpdateOrganizationRequest, adminID string) (*dto.OrganizationResponse, error) {
			require.Equal(t, "demo_corp", currentName)
			require.Equal(t, "admin-1", adminID)
			return &dto.OrganizationResponse{
				ID:               "org-1",
				OrganizationName: *req.OrganizationName,
				Email:            "admin@demo.com",
			}, nil
		},
	}
	e := setupOrgRoutes(svc)

	token, err := testJWT.GenerateToken("admin@demo.com", "admin-1", "org-1", "demo_corp")
	require.NoError(t, err)

	body := `{"organization_name":"demo_global"}`
	req := httptest.NewRequest(http.MethodPut, "/org/update", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"organization_name":"demo_global"`)
}

func TestDeleteForbiddenForOtherTenant(t *testing.T) {
	svc := &fakeOrgService{
		deleteFn: func(_ context.Context, name string, callerOrgID string) error {
			require.Equal(t, "victim_org", name)
			require.Equal(t, "org-1", callerOrgID)
			return service.ErrNotOrganizationAdmin
		},
	}
	e := setupOrgRoutes(svc)

	token, err := testJWT.GenerateToken("admin@demo.com", "admin-1", "org-1", "demo_corp")
	require.NoError(t, err)

	body := `{"organization_name":"victim_org"}`
	req := httptest.NewRequest(http.MethodDelete, "/org/delete", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteOwnOrganizationNoContent(t *testing.T) {
	svc := &fakeOrgService{
		deleteFn: func(_ context.Context, name string, callerOrgID string) error {
			require.Equal(t, "demo_corp", name)
			require.Equal(t, "org-1", callerOrgID)
			return nil
		},
	}
	e := setupOrgRoutes(svc)

	token, err := testJWT.GenerateToken("admin@demo.com", "admin-1", "org-1", "demo_corp")
	require.NoError(t, err)

	// No body: the handler falls back to the caller's own organization.
	req := httptest.NewRequest(http.MethodDelete, "/org/delete", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}
