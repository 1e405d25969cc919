package middleware

import (
	"context"
	"strings"

	"procurement-system/pkg/contextkeys"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/service"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PermissionProvider resolves the capability set for a role. Implemented by
// services.AuthPermissionService (DB + redis cache).
type PermissionProvider interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
}

type AuthMiddleware struct {
	jwtService        service.JWTService
	permissionService PermissionProvider
	logger            *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, permissionSvc PermissionProvider, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:        jwtSvc,
		permissionService: permissionSvc,
		logger:            logger,
	}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		permissions, err := m.permissionService.GetRolePermissionsNames(c.Request().Context(), uint64(claims.RoleID))
		if err != nil {
			m.logger.Error("failed to load role permissions", zap.Int("roleID", claims.RoleID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrInternalServer, m.logger)
		}
		permissionsMap := make(map[string]bool, len(permissions))
		for _, p := range permissions {
			permissionsMap[p] = true
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, uint64(claims.UserID))
		ctx = context.WithValue(ctx, contextkeys.UserRoleIDKey, uint64(claims.RoleID))
		ctx = context.WithValue(ctx, contextkeys.UserPermissionsMapKey, permissionsMap)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
