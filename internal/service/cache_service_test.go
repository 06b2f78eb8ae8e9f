package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/rizkia-dev/study-planner-api/pkg/errors"
)

type stubCacheRepo struct {
	getErr   error
	getCalls []string
	setCalls []string
	patterns []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, _ interface{}) error {
	s.getCalls = append(s.getCalls, key)
	return s.getErr
}

func (s *stubCacheRepo) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	s.setCalls = append(s.setCalls, key)
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return nil
}

func TestCacheServiceInvalidateForwardsPattern(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	err := svc.Invalidate(context.Background(), "analytics:u1:*")
	require.NoError(t, err)

	require.Len(t, repo.patterns, 1)
	assert.Equal(t, "analytics:u1:*", repo.patterns[0])
}

func TestCacheServiceDisabledSkipsBackend(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	hit, err := svc.Get(context.Background(), "analytics:u1:week:2025-03-03", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "k", "v", time.Minute))
	require.NoError(t, svc.Invalidate(context.Background(), "analytics:u1:*"))

	assert.Empty(t, repo.getCalls)
	assert.Empty(t, repo.setCalls)
	assert.Empty(t, repo.patterns)
}

func TestCacheServiceGetMissIsNotAnError(t *testing.T) {
	repo := &stubCacheRepo{getErr: appErrors.ErrCacheMiss}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	hit, err := svc.Get(context.Background(), "analytics:u1:productivity", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
}
