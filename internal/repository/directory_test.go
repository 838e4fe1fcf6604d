package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/decor-manager/internal/domain"
)

func TestMemoryDirectoryLookups(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory(DemoIdentities())

	admin, err := dir.FindByEmail(ctx, "ADMIN@weddingdecor.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	manager, err := dir.FindByPhone(ctx, "+918765432109")
	require.NoError(t, err)
	assert.Equal(t, "Rajesh Kumar", manager.Name)

	byID, err := dir.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeniorStaff, byID.Role)

	_, err = dir.FindByEmail(ctx, "nobody@weddingdecor.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDirectoryAppendIsolated(t *testing.T) {
	ctx := context.Background()
	seed := DemoIdentities()
	dir := NewMemoryDirectory(seed)

	newcomer := &domain.Identity{ID: "n1", Name: "Anita", Email: "anita@weddingdecor.com", Phone: "+91 99887 76655", Role: domain.RoleStaff, IsActive: true}
	require.NoError(t, dir.Append(ctx, newcomer))

	all, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Len(t, seed, 3)

	found, err := dir.FindByPhone(ctx, "+91 99887 76655")
	require.NoError(t, err)
	found.Name = "mutated"

	again, _ := dir.FindByID(ctx, "n1")
	assert.Equal(t, "Anita", again.Name)
}

func TestChainDirectoryFallsBack(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryDirectory([]domain.Identity{{ID: "p-1", Name: "Profile", Email: "profile@weddingdecor.com", Role: domain.RoleStaff, IsActive: true}})
	demo := NewMemoryDirectory(DemoIdentities())
	dir := NewChainDirectory(primary, demo)

	found, err := dir.FindByEmail(ctx, "profile@weddingdecor.com")
	require.NoError(t, err)
	assert.Equal(t, "p-1", found.ID)

	found, err = dir.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Admin User", found.Name)

	_, err = dir.FindByPhone(ctx, "+91 00000 00000")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, dir.Append(ctx, &domain.Identity{ID: "p-2", Email: "new@weddingdecor.com"}))
	_, err = primary.FindByID(ctx, "p-2")
	assert.NoError(t, err)
	_, err = demo.FindByID(ctx, "p-2")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
