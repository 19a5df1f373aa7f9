// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage"
)

// Suite exercises a storage.Storage. Backends embed it and set Storage in
// their SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// SampleRoom returns a two-member room
func SampleRoom(code model.RoomCode) *model.Room {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.Room{
		Code: code,
		Name: "Friday cards",
		Members: []model.RoomMember{
			{Name: "alice", IsHost: true, JoinedAt: now},
			{Name: "bot-1", IsBot: true, BotStrategy: model.BotStrategyRandom, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SampleGame returns an active game with a pending color choice
func SampleGame(code model.RoomCode) *model.Game {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	current := model.Card{Color: model.ColorBlack, Rank: model.RankWild}
	return &model.Game{
		RoomCode: code,
		State:    model.GameStateActive,
		Players: []model.GamePlayer{
			{Name: "alice", IsHost: true, Hand: []model.Card{{Color: model.ColorRed, Rank: "5"}}, Score: 50},
			{Name: "bob", Hand: []model.Card{{Color: model.ColorBlue, Rank: model.RankSkip}}},
		},
		Deck:               []model.Card{{Color: model.ColorGreen, Rank: model.RankDraw4}},
		CurrentCard:        &current,
		CurrentPlayerIndex: 0,
		Direction:          model.DirectionBackward,
		Pending:            &model.PendingColor{Player: "alice", NextIndex: 1},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *Suite) TestSaveAndGetRoom() {
	room := SampleRoom("ABC123")
	s.Require().NoError(s.Storage.SaveRoom(s.Ctx, room))

	retrieved, err := s.Storage.GetRoom(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
	s.Equal(room.Name, retrieved.Name)
	s.Equal(room.Members, retrieved.Members)
	s.True(room.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetRoomNotFound() {
	_, err := s.Storage.GetRoom(s.Ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *Suite) TestSaveRoomOverwrites() {
	room := SampleRoom("ABC123")
	s.Require().NoError(s.Storage.SaveRoom(s.Ctx, room))

	room.Members = room.Members[:1]
	s.Require().NoError(s.Storage.SaveRoom(s.Ctx, room))

	retrieved, err := s.Storage.GetRoom(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(retrieved.Members, 1)
}

func (s *Suite) TestDeleteRoom() {
	s.Require().NoError(s.Storage.SaveRoom(s.Ctx, SampleRoom("ABC123")))

	exists, err := s.Storage.RoomExists(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.Storage.DeleteRoom(s.Ctx, "ABC123"))

	exists, err = s.Storage.RoomExists(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)
	_, err = s.Storage.GetRoom(s.Ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *Suite) TestSaveAndGetGame() {
	game := SampleGame("ABC123")
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(game.State, retrieved.State)
	s.Equal(game.Players, retrieved.Players)
	s.Equal(game.Deck, retrieved.Deck)
	s.Equal(*game.CurrentCard, *retrieved.CurrentCard)
	s.Equal(game.Direction, retrieved.Direction)
	s.Equal(*game.Pending, *retrieved.Pending)
	s.Equal(game.CardCount(), retrieved.CardCount())
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "NOPE00")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestSaveFinishedGame() {
	game := SampleGame("ABC123")
	game.State = model.GameStateFinished
	game.Pending = nil
	game.Winner = "alice"
	game.Ranking = []model.Standing{{Name: "alice", Score: 50, CardsLeft: 1}, {Name: "bob", CardsLeft: 1}}
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.True(retrieved.IsFinished())
	s.Nil(retrieved.Pending)
	s.Equal("alice", retrieved.Winner)
	s.Equal(game.Ranking, retrieved.Ranking)
}

func (s *Suite) TestDeleteGame() {
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, SampleGame("ABC123")))
	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, "ABC123"))

	_, err := s.Storage.GetGame(s.Ctx, "ABC123")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestStoredValuesAreIsolated() {
	game := SampleGame("ABC123")
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	game.Players[0].Hand = nil
	game.CurrentCard.Color = model.ColorRed

	retrieved, err := s.Storage.GetGame(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Len(retrieved.Players[0].Hand, 1)
	s.Equal(model.ColorBlack, retrieved.CurrentCard.Color)
}
