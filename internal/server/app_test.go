package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	repomanager.RepositoryManager
	migrateErr error
	migrated   bool
}

func (f *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	f.migrated = true
	return f.migrateErr
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.MailTransport = config.MailTransportLog
	cfg.LogLevel = "error"
	return cfg
}

func stubDeps(t *testing.T, fm *fakeManager) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	origOpen, origManager, origMode := openDB, newRepositoryManager, ginMode
	t.Cleanup(func() {
		openDB, newRepositoryManager, ginMode = origOpen, origManager, origMode
	})

	openDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	newRepositoryManager = func() repomanager.RepositoryManager { return fm }
	ginMode = gin.TestMode
	return mock
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey = ""

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestNewApp_DBOpenError(t *testing.T) {
	fm := &fakeManager{}
	stubDeps(t, fm)
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
	assert.False(t, fm.migrated)
}

func TestNewApp_MigrationErrorClosesDB(t *testing.T) {
	fm := &fakeManager{migrateErr: errors.New("migration error: bad sql")}
	mock := stubDeps(t, fm)
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.True(t, fm.migrated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	fm := &fakeManager{}
	mock := stubDeps(t, fm)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
