package config

import "strings"

// ParseAdminRoleNames parses a comma-separated list of admin role names
// Returns a slice of trimmed, non-empty role names
// Default roles if empty: ["admin"]
func ParseAdminRoleNames(envValue string) []string {
	parts := strings.Split(envValue, ",")
	roles := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			roles = append(roles, trimmed)
		}
	}

	if len(roles) == 0 {
		return []string{"admin"}
	}
	return roles
}
