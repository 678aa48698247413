package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns ASC", "", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns ASC", "INVALID", "ASC"},
		{"sql injection attempt returns ASC", "DESC; DROP TABLE accounts;--", "ASC"},
		{"whitespace around desc returns DESC", "  desc  ", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := SortFields("name", "account_number")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "ordinal_position"},
		{"entity field", "name", "name"},
		{"common field", "modified_date", "modified_date"},
		{"unknown field returns default", "lifecycle", "ordinal_position"},
		{"sql injection attempt returns default", "name; DROP TABLE accounts;--", "ordinal_position"},
		{"case sensitive", "NAME", "ordinal_position"},
		{"whitespace around valid field", "  account_number ", "account_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, allowed, "ordinal_position"))
		})
	}
}

func TestSortFields_IncludesCommonColumns(t *testing.T) {
	allowed := SortFields()
	for _, f := range CommonSortFields {
		assert.True(t, allowed[f], f)
	}
	assert.Len(t, allowed, len(CommonSortFields))
}
