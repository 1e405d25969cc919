package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "procurement-system/pkg/errors"
)

type fakeSettingsRepo struct {
	value *float64
}

func (f *fakeSettingsRepo) GetAmountThreshold(context.Context) (float64, error) {
	if f.value == nil {
		return 0, apperrors.ErrNotFound
	}
	return *f.value, nil
}

func (f *fakeSettingsRepo) SetAmountThreshold(_ context.Context, value float64) error {
	f.value = &value
	return nil
}

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case string:
		f.data[key] = v
	case []byte:
		f.data[key] = string(v)
	}
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestSettingsService_DefaultWhenUnset(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, newFakeCache(), 10000, time.Minute, zap.NewNop())

	value, err := svc.GetAmountThreshold(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(10000), value)
}

func TestSettingsService_StoredValueWinsAndGetsCached(t *testing.T) {
	stored := 25000.0
	cache := newFakeCache()
	svc := NewSettingsService(&fakeSettingsRepo{value: &stored}, cache, 10000, time.Minute, zap.NewNop())
	ctx := context.Background()

	value, err := svc.GetAmountThreshold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, value)
	assert.Equal(t, "25000", cache.data[amountThresholdCacheKey])
}

func TestSettingsService_SetInvalidatesCache(t *testing.T) {
	repo := &fakeSettingsRepo{}
	cache := newFakeCache()
	svc := NewSettingsService(repo, cache, 10000, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetAmountThreshold(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.SetAmountThreshold(ctx, 7500))
	assert.NotContains(t, cache.data, amountThresholdCacheKey)

	value, err := svc.GetAmountThreshold(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7500.0, value)
}

func TestSettingsService_RejectsNegative(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, newFakeCache(), 10000, time.Minute, zap.NewNop())

	err := svc.SetAmountThreshold(context.Background(), -1)
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}
