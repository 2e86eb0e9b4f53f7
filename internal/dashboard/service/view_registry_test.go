package service

import (
	"context"
	"testing"
	"time"

	"traderflow/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestViewRegistry(t *testing.T) {
	repo := newFakeMarket()
	created := 0
	registry := NewViewRegistry(time.Minute, func() *CompanyView {
		created++
		return NewCompanyView(context.Background(), repo, logger.NewNop())
	}, logger.NewNop())

	a := registry.Get("a", "ALK")
	assert.Same(t, a, registry.Get("a", "ALK"))
	assert.NotSame(t, a, registry.Get("b", "ALK"))
	assert.NotSame(t, a, registry.Get("a", "KMB"))
	assert.Equal(t, 3, created)
	assert.Equal(t, 3, registry.Len())

	registry.Close()
	assert.Equal(t, 0, registry.Len())
}

func TestViewRegistryEvictionCancelsView(t *testing.T) {
	repo := newFakeMarket()
	repo.gate = func(ctx context.Context, resource, id string) error {
		<-ctx.Done()
		return ctx.Err()
	}
	registry := NewViewRegistry(time.Minute, func() *CompanyView {
		return NewCompanyView(context.Background(), repo, logger.NewNop())
	}, logger.NewNop())

	view := registry.Get("a", "ALK")
	view.Mount("ALK")
	assert.True(t, view.Loading())

	registry.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, view.Wait(ctx))
	assert.True(t, view.Snapshot().Company.Failed())
}
