package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Storage = New()
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestReturnedRoomIsACopy() {
	s.Require().NoError(s.Storage.SaveRoom(s.Ctx, storagetest.SampleRoom("ABC123")))

	first, err := s.Storage.GetRoom(s.Ctx, "ABC123")
	s.Require().NoError(err)
	first.Members = nil

	second, err := s.Storage.GetRoom(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(second.Members, 2)
}
