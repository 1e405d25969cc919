package seeders

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"procurement-system/pkg/config"
	"procurement-system/pkg/constants"
)

// Run seeds the reference data every installation needs: roles, sign
// permissions, the LOW/FULL approval templates, the amount threshold and
// the bootstrap admin account. Every statement is idempotent.
func Run(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	steps := []struct {
		name string
		fn   func(context.Context, *pgxpool.Pool, *config.Config) error
	}{
		{"roles", seedRoles},
		{"permissions", seedPermissions},
		{"role permissions", seedRolePermissions},
		{"approval templates", seedTemplates},
		{"settings", seedSettings},
		{"admin user", seedAdminUser},
	}

	for _, step := range steps {
		if err := step.fn(ctx, pool, cfg); err != nil {
			return fmt.Errorf("seeding %s: %w", step.name, err)
		}
		logger.Info("seeded", zap.String("step", step.name))
	}
	return nil
}

const roleAdmin = "ADMIN"

func seedRoles(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
	roles := []struct{ name, description string }{
		{constants.RoleSolicitante, "Document creators; sign their own documents at the first level"},
		{constants.RoleOficinaTecnica, "Technical office reviewers"},
		{constants.RoleAdministracion, "Administration reviewers"},
		{constants.RoleGerencia, "Management; required for high-amount documents"},
		{roleAdmin, "System administration"},
	}
	for _, role := range roles {
		_, err := pool.Exec(ctx, `
			INSERT INTO roles (name, description, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING`, role.name, role.description)
		if err != nil {
			return err
		}
	}
	return nil
}

// signPermissionNames enumerates every capability token the approval
// engine checks: one per entity type per signing role.
func signPermissionNames() []string {
	names := make([]string, 0, len(constants.EntityTypes)*len(constants.ApprovalRoles))
	for _, entityType := range constants.EntityTypes {
		for _, role := range constants.ApprovalRoles {
			names = append(names, fmt.Sprintf("%s-signed-%s", entityType, strings.ToLower(role)))
		}
	}
	return names
}

func seedPermissions(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
	for _, name := range signPermissionNames() {
		_, err := pool.Exec(ctx, `
			INSERT INTO permissions (name, description, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING`, name, "Approval signature capability")
		if err != nil {
			return err
		}
	}
	return nil
}

func seedRolePermissions(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
	grant := func(roleName string, permissionNames []string) error {
		for _, permission := range permissionNames {
			_, err := pool.Exec(ctx, `
				INSERT INTO role_permissions (role_id, permission_id)
				SELECT r.id, p.id FROM roles r, permissions p
				WHERE r.name = $1 AND p.name = $2
				ON CONFLICT DO NOTHING`, roleName, permission)
			if err != nil {
				return err
			}
		}
		return nil
	}

	// Each signing role gets its own token for every document type. The
	// requester level is creator-gated by the engine, so SOLICITANTE
	// tokens exist mainly for symmetry and reporting.
	for _, role := range constants.ApprovalRoles {
		perms := make([]string, 0, len(constants.EntityTypes))
		for _, entityType := range constants.EntityTypes {
			perms = append(perms, fmt.Sprintf("%s-signed-%s", entityType, strings.ToLower(role)))
		}
		if err := grant(role, perms); err != nil {
			return err
		}
	}
	return grant(roleAdmin, signPermissionNames())
}

func seedTemplates(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
	type row struct {
		level    int
		role     string
		required bool
	}
	templates := map[string][]row{
		constants.TemplateLow: {
			{1, constants.RoleSolicitante, true},
			{2, constants.RoleOficinaTecnica, true},
			{3, constants.RoleAdministracion, true},
		},
		constants.TemplateFull: {
			{1, constants.RoleSolicitante, true},
			{2, constants.RoleOficinaTecnica, true},
			{3, constants.RoleAdministracion, true},
			{4, constants.RoleGerencia, true},
		},
	}

	for _, entityType := range constants.EntityTypes {
		for templateName, rows := range templates {
			for _, r := range rows {
				_, err := pool.Exec(ctx, `
					INSERT INTO approval_templates (template_name, entity_type, signature_level, role_name, is_required, is_active, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
					ON CONFLICT (template_name, entity_type, signature_level) DO NOTHING`,
					templateName, entityType, r.level, r.role, r.required)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedSettings(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error {
	raw := strconv.FormatFloat(cfg.Approval.AmountThresholdDefault, 'f', -1, 64)
	_, err := pool.Exec(ctx, `
		INSERT INTO app_settings (setting_key, setting_value, created_at, updated_at)
		VALUES ('approval_amount_threshold', $1, NOW(), NOW())
		ON CONFLICT (setting_key) DO NOTHING`, raw)
	return err
}

func seedAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (fio, email, password_hash, role_id, is_active, created_at, updated_at)
		SELECT 'Administrator', $1, $2, r.id, TRUE, NOW(), NOW()
		FROM roles r WHERE r.name = $3
		ON CONFLICT (email) DO NOTHING`, cfg.Admin.Email, string(hash), roleAdmin)
	return err
}
