package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
)

func newCoreService(t *testing.T) DreamCoreService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return NewDreamCoreService(gdb, log, repos.NewDreamCoreRepo(gdb, log))
}

func TestDreamCoreLifecycle(t *testing.T) {
	svc := newCoreService(t)
	ctx := context.Background()

	core, err := svc.Create(ctx, CreateDreamCoreInput{
		Name: "Aurora Core", Type: "resonance", OwnerID: "owner-1",
	})
	require.NoError(t, err)
	require.Equal(t, 100, core.Energy)
	require.Equal(t, 50, core.Resonance)
	require.True(t, core.IsActive)

	// Stats clamp to [0, 100] on update.
	energy := 150
	resonance := -10
	updated, err := svc.Update(ctx, core.ID, UpdateDreamCoreInput{
		Energy: &energy, Resonance: &resonance,
	})
	require.NoError(t, err)
	require.Equal(t, 100, updated.Energy)
	require.Equal(t, 0, updated.Resonance)

	inactive := false
	updated, err = svc.Update(ctx, core.ID, UpdateDreamCoreInput{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	cores, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cores, 1)

	require.NoError(t, svc.Delete(ctx, core.ID))
	_, err = svc.Get(ctx, core.ID)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)

	_, err = svc.Update(ctx, uuid.New(), UpdateDreamCoreInput{})
	require.ErrorAs(t, err, &apiErr)
}
