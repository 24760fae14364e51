package cms

import (
	goerrors "github.com/goliatone/go-errors"
)

// Error taxonomy for the whole backend. Every failure surfaced to HTTP
// funnels through one of these (or is normalized to an internal error by
// the server error handler).
var (
	// ErrUnauthenticated covers missing headers, wrong scheme, and any
	// token validation failure.
	ErrUnauthenticated = goerrors.New("authentication required", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("UNAUTHENTICATED")

	// ErrInvalidCredentials is returned on login when the identifier does
	// not resolve to an active user or the password does not match. Both
	// cases share one message so callers cannot probe for accounts.
	ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("INVALID_CREDENTIALS")

	// ErrForbidden is returned when the caller's role does not meet the
	// minimum required by the operation.
	ErrForbidden = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden).
			WithTextCode("FORBIDDEN")

	// ErrNotFound covers records that do not exist and records in a
	// deleted or inactive lifecycle state, which are indistinguishable.
	ErrNotFound = goerrors.New("record not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithTextCode("NOT_FOUND")

	// ErrConflict is returned on duplicate unique fields (email, slug).
	ErrConflict = goerrors.New("record already exists", goerrors.CategoryConflict).
			WithCode(goerrors.CodeConflict).
			WithTextCode("DUPLICATE_RECORD")

	// ErrTokenExpired is a validation failure on an otherwise well formed
	// token whose expiry has passed.
	ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized).
			WithTextCode("TOKEN_EXPIRED")

	// ErrTokenMalformed covers bad signatures and unparseable tokens.
	ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
				WithCode(goerrors.CodeUnauthorized).
				WithTextCode("TOKEN_MALFORMED")
)

// ValidationError builds a 400 error for a malformed or rejected payload.
func ValidationError(msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode("VALIDATION_FAILED")
}

// ReferentialConflictError is returned when a destructive operation would
// break a cross-resource reference. It carries a 400 status, not a 409,
// so clients can tell it apart from unique-field conflicts by text code.
func ReferentialConflictError(msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryConflict).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode("REFERENTIAL_CONFLICT")
}

// IsNotFound reports whether err is our not-found sentinel or any
// repository-level record-not-found error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrNotFound) {
		return true
	}
	return goerrors.IsNotFound(err)
}
