package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeAlreadyExists, NormalizeErrorCode("ALREADY_EXISTS"))
	assert.Equal(t, ErrCodeInvalidArgument, NormalizeErrorCode("INVALID_ARGUMENT"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM_ERROR", NormalizeErrorCode("CUSTOM_ERROR"))
}

func TestErrorCodeFormat(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, "Resource not found"},
		{"wrapped conflict", fmt.Errorf("create: %w", shared.NewConflictError("Account number already exists")), http.StatusConflict, ErrCodeAlreadyExists, "Account number already exists"},
		{"guard", shared.NewInvalidArgumentError("id is required"), http.StatusBadRequest, ErrCodeInvalidArgument, "id is required"},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeCanceled, "Request was canceled"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, info := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantMsg, info.Message)
			assert.Empty(t, info.Details)
		})
	}

	t.Run("validation carries details", func(t *testing.T) {
		ve := &shared.ValidationError{Violations: []shared.FieldViolation{
			{Field: "name", Message: "name is required"},
			{Field: "email", Message: "email must be a valid email address"},
		}}
		status, info := FromError(fmt.Errorf("wrapped: %w", ve))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, ErrCodeValidation, info.Code)
		require.Len(t, info.Details, 2)
		assert.Equal(t, "email", info.Details[1].Field)
	})
}

func TestErrorResponseJSON(t *testing.T) {
	_, info := FromError(shared.ErrNotFound)
	resp := NewErrorResponseWithRequestID(info, "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, false, raw["success"])
	assert.NotContains(t, raw, "data")
	assert.NotContains(t, raw, "meta")

	errObj := raw["error"].(map[string]any)
	assert.Equal(t, ErrCodeNotFound, errObj["code"])
	assert.Equal(t, "req-test-123", errObj["request_id"])
	assert.NotContains(t, errObj, "details")
}

func TestNewPageResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 12, 2, 5)
	resp := NewPageResponse(&page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	t.Run("nil items encode as an empty list", func(t *testing.T) {
		empty := shared.NewPaginated[string](nil, 0, 1, 20)
		data, err := json.Marshal(NewPageResponse(&empty))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"data":[]`)
	})
}

func TestListRequest_ToFilter(t *testing.T) {
	f := ListRequest{}.ToFilter()
	assert.Equal(t, shared.DefaultFilter(), f)

	f = ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "desc", Search: "acme"}.ToFilter()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.PageSize)
	assert.Equal(t, "name", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, "acme", f.Search)
}

func TestDateRangeRequest_Parse(t *testing.T) {
	from, to, err := DateRangeRequest{From: "2024-01-01", To: "2024-01-31"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), to)

	from, to, err = DateRangeRequest{From: "2024-01-01T10:00:00+02:00", To: "2024-01-02T00:00:00Z"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), to)

	_, _, err = DateRangeRequest{From: "yesterday", To: "2024-01-02"}.Parse()
	assert.Error(t, err)
}
