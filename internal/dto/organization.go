package dto

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	orgNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NormalizeOrganizationName validates the tenant name charset and length and
// returns the lowercase form used for uniqueness checks and storage.
func NormalizeOrganizationName(name string) (string, bool, string) {
	if !orgNamePattern.MatchString(name) {
		return "", false, "organization name must be 3-50 characters of letters, digits, underscores, and hyphens"
	}
	return strings.ToLower(name), true, ""
}

// ValidatePassword enforces the password policy: at least 8 characters with
// one uppercase letter, one lowercase letter, and one digit.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "password must be at least 8 characters long"
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return false, "password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "password must contain at least one digit"
	}
	return true, ""
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CreateOrganizationRequest is the payload for registering a new organization
// together with its admin credential.
type CreateOrganizationRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// Validate checks the request fields and normalizes the organization name.
func (r *CreateOrganizationRequest) Validate() (bool, string) {
	name, ok, msg := NormalizeOrganizationName(r.OrganizationName)
	if !ok {
		return false, msg
	}
	r.OrganizationName = name
	if !validEmail(r.Email) {
		return false, "a valid email address is required"
	}
	if ok, msg := ValidatePassword(r.Password); !ok {
		return false, msg
	}
	return true, ""
}

// UpdateOrganizationRequest carries optional changes to an organization and
// its admin credential. Nil fields are left untouched.
type UpdateOrganizationRequest struct {
	OrganizationName *string `json:"organization_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Password         *string `json:"password,omitempty"`
}

// Validate checks that at least one field is present and that each provided
// field is well-formed. A provided organization name is normalized in place.
func (r *UpdateOrganizationRequest) Validate() (bool, string) {
	if r.OrganizationName == nil && r.Email == nil && r.Password == nil {
		return false, "at least one field must be provided"
	}
	if r.OrganizationName != nil {
		name, ok, msg := NormalizeOrganizationName(*r.OrganizationName)
		if !ok {
			return false, msg
		}
		*r.OrganizationName = name
	}
	if r.Email != nil && !validEmail(*r.Email) {
		return false, "a valid email address is required"
	}
	if r.Password != nil {
		if ok, msg := ValidatePassword(*r.Password); !ok {
			return false, msg
		}
	}
	return true, ""
}

// DeleteOrganizationRequest names the organization to delete. The caller must
// additionally own it (token organization id must match).
type DeleteOrganizationRequest struct {
	OrganizationName string `json:"organization_name"`
}

// Validate normalizes the target name.
func (r *DeleteOrganizationRequest) Validate() (bool, string) {
	name, ok, msg := NormalizeOrganizationName(r.OrganizationName)
	if !ok {
		return false, msg
	}
	r.OrganizationName = name
	return true, ""
}

// OrganizationResponse is the external view of an organization.
// ConnectionDetails names the tenant's data partition.
type OrganizationResponse struct {
	ID                string     `json:"id"`
	OrganizationName  string     `json:"organization_name"`
	Email             string     `json:"email"`
	ConnectionDetails string     `json:"connection_details,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}
