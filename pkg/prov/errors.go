// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package prov

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// ErrorCode is a coarse classification of an Azure failure.
type ErrorCode string

const (
	ErrorCodeNotFound           ErrorCode = "NotFound"
	ErrorCodeAccessDenied       ErrorCode = "AccessDenied"
	ErrorCodeInvalidCredentials ErrorCode = "InvalidCredentials"
	ErrorCodeConflict           ErrorCode = "Conflict"
	ErrorCodeThrottling         ErrorCode = "Throttling"
	ErrorCodeInternalError      ErrorCode = "InternalError"
	ErrorCodeTimeout            ErrorCode = "Timeout"
	ErrorCodeLimitExceeded      ErrorCode = "LimitExceeded"
	ErrorCodeInvalidRequest     ErrorCode = "InvalidRequest"
	ErrorCodeNetworkFailure     ErrorCode = "NetworkFailure"
	ErrorCodeUnknown            ErrorCode = "Unknown"
)

// Operation names used in OperationError.
const (
	OpCreate = "create"
	OpGet    = "get"
	OpDelete = "delete"
)

// OperationError records which remote call failed and how.
type OperationError struct {
	Op           string
	ResourceType string
	Name         string
	Code         ErrorCode
	Err          error
}

// NewOperationError wraps err and classifies it.
func NewOperationError(op, resourceType, name string, err error) *OperationError {
	return &OperationError{
		Op:           op,
		ResourceType: resourceType,
		Name:         name,
		Code:         Classify(err),
		Err:          err,
	}
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("failed to %s %s %q (%s): %v", e.Op, e.ResourceType, e.Name, e.Code, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err, or anything it wraps, is a NotFound failure.
func IsNotFound(err error) bool {
	return Classify(err) == ErrorCodeNotFound
}

// Classify maps an error to an ErrorCode. An OperationError anywhere in the
// chain keeps its code; an *azcore.ResponseError is classified from its ARM
// error code and HTTP status; anything else falls back to matching the message.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Code != "" {
		return opErr.Code
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		if code := classifyResponse(respErr.ErrorCode, respErr.StatusCode); code != ErrorCodeUnknown {
			return code
		}
	}

	return classifyMessage(err.Error())
}

func classifyResponse(armCode string, status int) ErrorCode {
	switch armCode {
	case "ResourceGroupNotFound", "ResourceNotFound", "NotFound":
		return ErrorCodeNotFound
	case "AuthorizationFailed":
		return ErrorCodeAccessDenied
	case "AuthenticationFailed", "InvalidAuthenticationToken", "ExpiredAuthenticationToken":
		return ErrorCodeInvalidCredentials
	case "QuotaExceeded", "OperationNotAllowed", "SkuNotAvailable":
		return ErrorCodeLimitExceeded
	case "InUseSubnetCannotBeDeleted", "NicInUse", "ResourceExists", "Conflict":
		return ErrorCodeConflict
	}

	switch status {
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusForbidden:
		return ErrorCodeAccessDenied
	case http.StatusUnauthorized:
		return ErrorCodeInvalidCredentials
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusTooManyRequests:
		return ErrorCodeThrottling
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrorCodeInternalError
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrorCodeTimeout
	case http.StatusBadRequest:
		return ErrorCodeInvalidRequest
	}
	return ErrorCodeUnknown
}

// classifyMessage matches well-known fragments of Azure error text. Azure
// surfaces some failures (credential chain, transport) without a ResponseError.
func classifyMessage(errStr string) ErrorCode {
	switch {
	case strings.Contains(errStr, "ResourceGroupNotFound"),
		strings.Contains(errStr, "ResourceNotFound"),
		strings.Contains(errStr, "NotFound"):
		return ErrorCodeNotFound

	case strings.Contains(errStr, "AuthorizationFailed"),
		strings.Contains(errStr, "Forbidden"):
		return ErrorCodeAccessDenied

	case strings.Contains(errStr, "Unauthorized"),
		strings.Contains(errStr, "AuthenticationFailed"),
		strings.Contains(errStr, "InvalidAuthenticationToken"):
		return ErrorCodeInvalidCredentials

	case strings.Contains(errStr, "Conflict"),
		strings.Contains(errStr, "ResourceExists"):
		return ErrorCodeConflict

	case strings.Contains(errStr, "TooManyRequests"),
		strings.Contains(errStr, "Throttling"):
		return ErrorCodeThrottling

	case strings.Contains(errStr, "InternalServerError"):
		return ErrorCodeInternalError

	case strings.Contains(errStr, "Timeout"),
		strings.Contains(errStr, "context deadline exceeded"):
		return ErrorCodeTimeout

	case strings.Contains(errStr, "QuotaExceeded"),
		strings.Contains(errStr, "LimitExceeded"):
		return ErrorCodeLimitExceeded

	case strings.Contains(errStr, "InvalidParameter"),
		strings.Contains(errStr, "InvalidRequest"),
		strings.Contains(errStr, "BadRequest"):
		return ErrorCodeInvalidRequest

	case strings.Contains(errStr, "dial tcp"),
		strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "connection reset by peer"):
		return ErrorCodeNetworkFailure

	default:
		return ErrorCodeUnknown
	}
}
