package bootstrap

import "log/slog"

// LogBootstrapSummary logs a concise summary of what BootstrapAdmin did.
func LogBootstrapSummary(result *AdminBootstrapResult) {
	if result == nil {
		return
	}

	attrs := []any{
		"roles_total", len(result.Roles),
		"roles_created", countCreated(result.Roles),
		"primary_role", result.PrimaryRole.Name,
	}
	if result.Email != "" {
		attrs = append(attrs,
			"admin_email", result.Email,
			"user_account_id", result.UserAccountID,
			"user_created", result.UserCreated,
			"role_assigned", result.RoleAssigned,
		)
	}
	slog.Info("Admin bootstrap summary", attrs...)
}
