package service

import "errors"

var (
	// ErrOrganizationExists reports a name conflict on create or rename.
	ErrOrganizationExists = errors.New("organization already exists")

	// ErrEmailRegistered reports an email conflict on the admin credential.
	ErrEmailRegistered = errors.New("email is already registered")

	// ErrOrganizationNotFound reports that the referenced tenant is absent.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrInvalidCredentials is returned for every login failure. The message
	// is deliberately identical for an unknown email and a wrong password so
	// callers cannot enumerate registered accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrNotOrganizationAdmin reports that the authenticated caller does not
	// own the target organization.
	ErrNotOrganizationAdmin = errors.New("you are not authorized to manage this organization")
)
