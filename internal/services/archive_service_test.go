package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func backdate(t *testing.T, gdb *gorm.DB, model any, id uuid.UUID, days int) {
	t.Helper()
	stamp := time.Now().UTC().AddDate(0, 0, -days)
	require.NoError(t, gdb.Model(model).
		Where("id = ?", id).
		Update("last_updated", stamp).Error)
}

func TestArchiveInactiveSweep(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	cocoonLogRepo := repos.NewCocoonLogRepo(gdb, log)
	svc := NewArchiveService(gdb, log, dreamRepo, cocoonRepo, cocoonLogRepo, newTestNotifier(t, gdb, log))
	ctx := context.Background()

	staleDream, err := dreamRepo.Create(ctx, nil, &types.Dream{Wallet: "w1", Title: "Stale Pending"})
	require.NoError(t, err)
	backdate(t, gdb, &types.Dream{}, staleDream.ID, 8)

	freshDream, err := dreamRepo.Create(ctx, nil, &types.Dream{Wallet: "w1", Title: "Fresh Pending"})
	require.NoError(t, err)
	backdate(t, gdb, &types.Dream{}, freshDream.ID, 6)

	staleApproved, err := dreamRepo.Create(ctx, nil, &types.Dream{
		Wallet: "w1", Title: "Stale Approved", DreamStatus: types.DreamApproved,
	})
	require.NoError(t, err)
	backdate(t, gdb, &types.Dream{}, staleApproved.ID, 20)

	staleCocoon, err := cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID: uuid.New(), Title: "Stale Seedling", Description: "x", CreatorWallet: "w1",
	})
	require.NoError(t, err)
	backdate(t, gdb, &types.Cocoon{}, staleCocoon.ID, 8)

	activeCocoon, err := cocoonRepo.Create(ctx, nil, &types.Cocoon{
		DreamID: uuid.New(), Title: "Stale Active", Description: "x",
		CreatorWallet: "w1", Stage: types.StageActive,
	})
	require.NoError(t, err)
	backdate(t, gdb, &types.Cocoon{}, activeCocoon.ID, 30)

	result, err := svc.ArchiveInactive(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 1, result.DreamsRejected)
	require.Equal(t, 1, result.CocoonsArchived)

	reloaded, err := dreamRepo.GetByID(ctx, nil, staleDream.ID)
	require.NoError(t, err)
	require.Equal(t, types.DreamRejected, reloaded.DreamStatus)

	untouched, err := dreamRepo.GetByID(ctx, nil, freshDream.ID)
	require.NoError(t, err)
	require.Equal(t, types.DreamPending, untouched.DreamStatus)

	approved, err := dreamRepo.GetByID(ctx, nil, staleApproved.ID)
	require.NoError(t, err)
	require.Equal(t, types.DreamApproved, approved.DreamStatus)

	archived, err := cocoonRepo.GetByID(ctx, nil, staleCocoon.ID)
	require.NoError(t, err)
	require.Equal(t, types.StageArchived, archived.Stage)

	stillActive, err := cocoonRepo.GetByID(ctx, nil, activeCocoon.ID)
	require.NoError(t, err)
	require.Equal(t, types.StageActive, stillActive.Stage)

	logs, err := cocoonLogRepo.GetByCocoonID(ctx, nil, staleCocoon.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "system", logs[0].AdminWallet)
	require.Equal(t, types.StageArchived, logs[0].NewStage)
	require.False(t, logs[0].IsOverride)
}

func TestArchiveInactiveEmptySweep(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	dreamRepo := repos.NewDreamRepo(gdb, log)
	cocoonRepo := repos.NewCocoonRepo(gdb, log)
	cocoonLogRepo := repos.NewCocoonLogRepo(gdb, log)
	svc := NewArchiveService(gdb, log, dreamRepo, cocoonRepo, cocoonLogRepo, newTestNotifier(t, gdb, log))

	result, err := svc.ArchiveInactive(context.Background(), 7)
	require.NoError(t, err)
	require.Zero(t, result.DreamsRejected)
	require.Zero(t, result.CocoonsArchived)
}
