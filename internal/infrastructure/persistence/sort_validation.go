package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields are the columns every CRM table can be ordered by
var CommonSortFields = []string{"ordinal_position", "created_date", "modified_date"}

// SortFields builds a whitelist from CommonSortFields plus the entity's own columns
func SortFields(extra ...string) map[string]bool {
	allowed := make(map[string]bool, len(CommonSortFields)+len(extra))
	for _, f := range CommonSortFields {
		allowed[f] = true
	}
	for _, f := range extra {
		allowed[f] = true
	}
	return allowed
}
