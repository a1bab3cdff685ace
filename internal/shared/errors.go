package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The same error is
	// returned for an unknown identifier and for a wrong secret so the two
	// cases cannot be told apart by the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or invalid token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the principal lacks a required feature.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate indicates a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrPlanMissing indicates the tenant has no plan record at all,
	// distinct from a plan that merely expired.
	ErrPlanMissing = errors.New("tenant plan record missing")
)
