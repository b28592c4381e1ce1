package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dreamnet/dreamnet-backend/internal/db"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func newRepoTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))
	log, err := logger.New("development")
	require.NoError(t, err)
	t.Cleanup(log.Sync)
	return gdb, log
}

func TestMarkMintedWinsExactlyOnce(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewCocoonRepo(gdb, log)
	ctx := context.Background()

	cocoon, err := repo.Create(ctx, nil, &types.Cocoon{
		DreamID: uuid.New(), Title: "Mintable", Description: "x",
		CreatorWallet: "w", Stage: types.StageComplete,
	})
	require.NoError(t, err)

	won, err := repo.MarkMinted(ctx, nil, cocoon.ID)
	require.NoError(t, err)
	require.True(t, won)

	// The guarded update matches zero rows the second time.
	won, err = repo.MarkMinted(ctx, nil, cocoon.ID)
	require.NoError(t, err)
	require.False(t, won)

	reloaded, err := repo.GetByID(ctx, nil, cocoon.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Minted)
}

func TestMarkMintedUnknownID(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewCocoonRepo(gdb, log)

	won, err := repo.MarkMinted(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	require.False(t, won)
}
