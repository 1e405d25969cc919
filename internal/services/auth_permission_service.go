package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"procurement-system/internal/repositories"
)

const rolePermissionsCacheTTL = 10 * time.Minute

type AuthPermissionServiceInterface interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
	InvalidateRole(ctx context.Context, roleID uint64) error
}

type AuthPermissionService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
}

func NewAuthPermissionService(
	permissionRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *AuthPermissionService {
	return &AuthPermissionService{
		permissionRepo: permissionRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
	}
}

func rolePermissionsCacheKey(roleID uint64) string {
	return fmt.Sprintf("role_permissions:%d", roleID)
}

// GetRolePermissionsNames prefers the redis copy; a cache outage degrades to
// a direct DB read, never to a denied request.
func (s *AuthPermissionService) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	key := rolePermissionsCacheKey(roleID)

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
		var names []string
		if err := json.Unmarshal([]byte(cached), &names); err == nil {
			return names, nil
		}
		s.logger.Warn("corrupt role permissions cache entry", zap.String("key", key))
	}

	names, err := s.permissionRepo.GetPermissionsNamesByRoleID(ctx, int64(roleID))
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(names); err == nil {
		if err := s.cacheRepo.Set(ctx, key, payload, rolePermissionsCacheTTL); err != nil {
			s.logger.Warn("failed to cache role permissions", zap.Uint64("roleID", roleID), zap.Error(err))
		}
	}
	return names, nil
}

func (s *AuthPermissionService) InvalidateRole(ctx context.Context, roleID uint64) error {
	return s.cacheRepo.Del(ctx, rolePermissionsCacheKey(roleID))
}
