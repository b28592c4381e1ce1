package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dreamnet/dreamnet-backend/internal/db"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/realtime"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))
	return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	t.Cleanup(log.Sync)
	return log
}

func newTestNotifier(t *testing.T, gdb *gorm.DB, log *logger.Logger) NotifierService {
	t.Helper()
	notificationRepo := repos.NewNotificationRepo(gdb, log)
	hub := realtime.NewSSEHub(log)
	return NewNotifierService(log, notificationRepo, &HubEmitter{Hub: hub})
}
