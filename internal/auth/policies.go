package auth

import (
	"fmt"

	"cms-dashboard/internal/logger"

	"github.com/casbin/casbin/v2"
)

// DefaultPolicies is the baseline rule set: anonymous visitors reach the
// sign-in flow and public assets, editors the whole dashboard.
var DefaultPolicies = [][]string{
	{RoleAnonymous, "/sign-in", "GET"},
	{RoleAnonymous, "/sign-in", "POST"},
	{RoleAnonymous, "/auth/login", "GET"},
	{RoleAnonymous, "/auth/callback", "GET"},
	{RoleAnonymous, "/static/*", "GET"},
	{RoleAnonymous, "/media/*", "GET"},
	{RoleAnonymous, "/healthz", "GET"},
	{RoleAnonymous, "/metrics", "GET"},
	{RoleAnonymous, "/robots.txt", "GET"},

	{RoleEditor, "/", "GET"},
	{RoleEditor, "/sign-out", "POST"},
	{RoleEditor, "/gallery", "GET"},
	{RoleEditor, "/gallery/post", "GET"},
	{RoleEditor, "/gallery/post", "POST"},
	{RoleEditor, "/gallery/:id", "GET"},
	{RoleEditor, "/gallery/:id", "POST"},
	{RoleEditor, "/gallery/:id/delete", "POST"},
	{RoleEditor, "/about", "GET"},
	{RoleEditor, "/about", "POST"},
	{RoleEditor, "/contact", "GET"},
	{RoleEditor, "/contact", "POST"},
	{RoleEditor, "/api/editor", "POST"},
	{RoleEditor, "/api/preview", "POST"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Editors inherit everything anonymous visitors may do.
	if has, _ := e.HasRoleForUser(RoleEditor, RoleAnonymous); !has {
		if _, err := e.AddRoleForUser(RoleEditor, RoleAnonymous); err != nil {
			log.Error(err, "Failed to add role 'editor' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}

// GrantEditor gives subject the editor role.
func GrantEditor(e casbin.IEnforcer, subject string) error {
	if _, err := e.AddRoleForUser(subject, RoleEditor); err != nil {
		return fmt.Errorf("failed to grant editor role to %s: %w", subject, err)
	}
	return nil
}
