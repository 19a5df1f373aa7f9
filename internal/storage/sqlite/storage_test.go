package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage/sqlite/migrations"
	"github.com/mcoot/unogame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	path   string
	sqlite *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "uno.db")

	store, err := Open(s.Ctx, s.path)
	s.Require().NoError(err)
	s.sqlite = store
	s.Storage = store
}

func (s *StorageSuite) TearDownTest() {
	if s.sqlite != nil {
		_ = s.sqlite.Close()
	}
}

func (s *StorageSuite) TestOpenRequiresPath() {
	_, err := Open(s.Ctx, "  ")
	s.Error(err)
}

func (s *StorageSuite) TestDataSurvivesReopen() {
	s.Require().NoError(s.Storage.SaveRoom(s.Ctx, storagetest.SampleRoom("ABC123")))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, storagetest.SampleGame("ABC123")))
	s.Require().NoError(s.sqlite.Close())

	reopened, err := Open(s.Ctx, s.path)
	s.Require().NoError(err)
	s.sqlite = reopened

	room, err := reopened.GetRoom(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal("alice", room.GetHost().Name)

	game, err := reopened.GetGame(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.GameStateActive, game.State)
}

func (s *StorageSuite) TestMigrationsRecordedOnce() {
	s.Require().NoError(applyMigrations(s.Ctx, s.sqlite.sqlDB, migrations.FS))

	var count int
	err := s.sqlite.sqlDB.QueryRowContext(s.Ctx, "SELECT COUNT(*) FROM "+migrationTable).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestExtractUpMigration() {
	content := "-- +migrate Up\nCREATE TABLE t (id INTEGER);\n-- +migrate Down\nDROP TABLE t;\n"
	s.Equal("\nCREATE TABLE t (id INTEGER);\n", extractUpMigration(content))
	s.Equal("SELECT 1;", extractUpMigration("SELECT 1;"))
}
