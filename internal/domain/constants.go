package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

const (
	// DefaultShell is used when neither config nor $SHELL name one.
	DefaultShell = "/bin/sh"
	// DefaultAPIKeyEnvVar is read when a model declares no auth_env_var.
	DefaultAPIKeyEnvVar = "OPENAI_API_KEY"
	// DefaultOrgEnvVar is read when a model declares no org_env_var.
	DefaultOrgEnvVar = "OPENAI_ORG_ID"
)

const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
