// Package errors provides structured error handling with error codes for simple-user-mgmt.
//
// Services return *Error values carrying a typed code; the HTTP layer turns the
// code into a status with HTTPStatusCode and renders Message and Details.
//
// # Basic Usage
//
//	import "github.com/tendant/simple-user-mgmt/pkg/errors"
//
//	err := errors.NotFound("role", id.String())
//	err := errors.NotFoundWrap(role.ErrRoleNotFound, "role", id.String())
//	err := errors.AlreadyExists("permission", name)
//	err := errors.InvalidInput("filters.scopeType", "unknown field")
//	err := errors.Wrap(dbErr, errors.ErrCodeInternal, "failed to query roles")
//
// # Error Inspection
//
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//		// 404
//	}
//	code := errors.GetCode(err)
//
// Standard errors.Is still works through Unwrap, so a NotFound wrapping a
// package sentinel matches that sentinel.
//
// # HTTP Status Code Mapping
//
//   - ErrCodeInvalidInput, ErrCodeValidationFailed → 400 Bad Request
//   - ErrCodeUnauthorized → 401 Unauthorized
//   - ErrCodeForbidden → 403 Forbidden
//   - ErrCodeNotFound → 404 Not Found
//   - ErrCodeConflict, ErrCodeAlreadyExists → 409 Conflict
//   - ErrCodeRateLimitExceeded → 429 Too Many Requests
//   - ErrCodeInternal → 500 Internal Server Error
package errors
