// Package normalize canonicalizes user-supplied identity fields before they
// reach the database, so lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are compared
// case-insensitively everywhere, including the synthetic line_*@line.local
// addresses minted for LINE-provisioned accounts.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value for comparison against
// models.RoleAdmin / models.RoleMember.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ProviderUID canonicalizes an external provider's user identifier. LINE
// user IDs are matched case-insensitively, mirroring the identity mapping's
// unique index.
func ProviderUID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
