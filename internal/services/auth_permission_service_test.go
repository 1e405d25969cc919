package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePermissionRepo struct {
	names map[int64][]string
	calls int
}

func (f *fakePermissionRepo) GetPermissionsNamesByRoleID(_ context.Context, roleID int64) ([]string, error) {
	f.calls++
	return f.names[roleID], nil
}

func TestAuthPermissionService_CachesPerRole(t *testing.T) {
	repo := &fakePermissionRepo{names: map[int64][]string{
		7: {"requirement-signed-gerencia", "quotation-signed-gerencia"},
	}}
	cache := newFakeCache()
	svc := NewAuthPermissionService(repo, cache, zap.NewNop())
	ctx := context.Background()

	names, err := svc.GetRolePermissionsNames(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, 1, repo.calls)

	names, err = svc.GetRolePermissionsNames(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, 1, repo.calls, "second read must come from the cache")

	require.NoError(t, svc.InvalidateRole(ctx, 7))
	_, err = svc.GetRolePermissionsNames(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
