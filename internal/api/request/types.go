package request

import "github.com/mcoot/unogame/internal/model"

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name   string `json:"name,omitempty"`
	Player string `json:"player"`
}

// PlayerRequest is the request body for intents that only name the actor
type PlayerRequest struct {
	Player string `json:"player"`
}

// KickRequest is the request body for kicking a member
type KickRequest struct {
	Player string `json:"player"`
	Target string `json:"target"`
}

// AddBotRequest is the request body for adding a bot to a room
type AddBotRequest struct {
	Player   string `json:"player"`
	Strategy string `json:"strategy,omitempty"`
}

// Card is a card as sent by clients
type Card struct {
	Color string `json:"color"`
	Rank  string `json:"rank"`
}

// ToModel parses the card. Ranks accept the "+2" and "+4" aliases.
func (c Card) ToModel() (model.Card, error) {
	color, err := model.ParseColor(c.Color)
	if err != nil {
		return model.Card{}, err
	}
	rank, err := model.ParseRank(c.Rank)
	if err != nil {
		return model.Card{}, err
	}
	return model.Card{Color: color, Rank: rank}, nil
}

// PlayCardRequest is the request body for playing a card
type PlayCardRequest struct {
	Player string `json:"player"`
	Card   Card   `json:"card"`
}

// ChooseColorRequest is the request body for naming a wild color
type ChooseColorRequest struct {
	Player string `json:"player"`
	Color  string `json:"color"`
}
