// api/errors/access_errors.go
package errors

import "errors"

var (
	ErrInvalidRequestData = errors.New("invalid access request data")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEventNotFound      = errors.New("security event not found")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
)
