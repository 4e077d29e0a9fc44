// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package prov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newResponseError builds an ARM error the same way the SDK does for a failed call.
func newResponseError(t *testing.T, status int, armCode string) error {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://management.azure.com/subscriptions/00000000-0000-0000-0000-000000000000", nil)
	require.NoError(t, err)

	body := `{}`
	if armCode != "" {
		body = fmt.Sprintf(`{"error":{"code":%q,"message":"test failure"}}`, armCode)
	}
	resp := &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
	return runtime.NewResponseError(resp)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  func(t *testing.T) error
		want ErrorCode
	}{
		{"nil", func(*testing.T) error { return nil }, ""},
		{"arm not found code", func(t *testing.T) error { return newResponseError(t, http.StatusNotFound, "ResourceGroupNotFound") }, ErrorCodeNotFound},
		{"status only", func(t *testing.T) error { return newResponseError(t, http.StatusTooManyRequests, "") }, ErrorCodeThrottling},
		{"authorization", func(t *testing.T) error { return newResponseError(t, http.StatusForbidden, "AuthorizationFailed") }, ErrorCodeAccessDenied},
		{"quota", func(t *testing.T) error { return newResponseError(t, http.StatusConflict, "QuotaExceeded") }, ErrorCodeLimitExceeded},
		{"nic in use", func(t *testing.T) error { return newResponseError(t, http.StatusBadRequest, "NicInUse") }, ErrorCodeConflict},
		{"wrapped response error", func(t *testing.T) error {
			return fmt.Errorf("outer: %w", newResponseError(t, http.StatusBadRequest, "InvalidParameter"))
		}, ErrorCodeInvalidRequest},
		{"message fallback", func(*testing.T) error {
			return errors.New("DefaultAzureCredential: failed to acquire a token: AuthenticationFailed")
		}, ErrorCodeInvalidCredentials},
		{"deadline", func(*testing.T) error { return context.DeadlineExceeded }, ErrorCodeTimeout},
		{"dial", func(*testing.T) error { return errors.New("dial tcp 10.0.0.1:443: connect: connection refused") }, ErrorCodeNetworkFailure},
		{"dns", func(*testing.T) error {
			return errors.New("Get \"https://management.azure.com/\": dial tcp: lookup management.azure.com: no such host")
		}, ErrorCodeNetworkFailure},
		{"resource path with digits", func(*testing.T) error {
			return errors.New("waiting on /resourceGroups/rg-4040/providers/Microsoft.Network/virtualNetworks/vnet500: poller stopped")
		}, ErrorCodeUnknown},
		{"network in resource type", func(*testing.T) error {
			return errors.New("unexpected provisioning state for Microsoft.Network/networkInterfaces/nic-1")
		}, ErrorCodeUnknown},
		{"status code message", func(*testing.T) error { return errors.New("operation returned 400 BadRequest") }, ErrorCodeInvalidRequest},
		{"unknown", func(*testing.T) error { return errors.New("something odd") }, ErrorCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err(t)))
		})
	}
}

func TestOperationError(t *testing.T) {
	cause := newResponseError(t, http.StatusNotFound, "ResourceNotFound")
	opErr := NewOperationError(OpDelete, ResourceTypeNetworkInterface, "mynic", cause)

	assert.Equal(t, ErrorCodeNotFound, opErr.Code)
	assert.Contains(t, opErr.Error(), `failed to delete Microsoft.Network/networkInterfaces "mynic" (NotFound)`)

	wrapped := fmt.Errorf("teardown: %w", opErr)
	assert.True(t, IsNotFound(wrapped))

	var respErr *azcore.ResponseError
	require.ErrorAs(t, wrapped, &respErr)
	assert.Equal(t, "ResourceNotFound", respErr.ErrorCode)
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
}

func TestOperationError_KeepsCodeThroughWrapping(t *testing.T) {
	opErr := &OperationError{Op: OpCreate, ResourceType: ResourceTypeVirtualMachine, Name: "myvm", Code: ErrorCodeLimitExceeded, Err: errors.New("boom")}

	assert.Equal(t, ErrorCodeLimitExceeded, Classify(fmt.Errorf("stage: %w", opErr)))
	assert.False(t, IsNotFound(opErr))
}
