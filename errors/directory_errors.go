// api/errors/directory_errors.go
package errors

import "errors"

var (
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrInvalidIdentityData = errors.New("invalid identity data")

	ErrDeviceNotFound    = errors.New("device not found")
	ErrInvalidDeviceData = errors.New("invalid device data")

	ErrSegmentNotFound    = errors.New("network segment not found")
	ErrInvalidSegmentData = errors.New("invalid network segment data")

	ErrPolicyNotFound    = errors.New("policy not found")
	ErrInvalidPolicyData = errors.New("invalid policy data")
)
