package model

import "time"

// RoomCode is the human-readable identifier players use to join a room
type RoomCode string

// MaxRoomMembers is the largest table a room can seat
const MaxRoomMembers = 4

// RoomMember is a seat in a room
type RoomMember struct {
	Name        string
	IsHost      bool
	IsBot       bool
	BotStrategy string // Empty for human members
	JoinedAt    time.Time
}

// Room is the pre-game membership aggregate
type Room struct {
	Code      RoomCode
	Name      string
	Members   []RoomMember
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetHost returns the current host member, or nil if none
func (r *Room) GetHost() *RoomMember {
	for i := range r.Members {
		if r.Members[i].IsHost {
			return &r.Members[i]
		}
	}
	return nil
}

// GetMember returns the named member, or nil if not found
func (r *Room) GetMember(name string) *RoomMember {
	for i := range r.Members {
		if r.Members[i].Name == name {
			return &r.Members[i]
		}
	}
	return nil
}

// IsFull returns true when no more members can join
func (r *Room) IsFull() bool {
	return len(r.Members) >= MaxRoomMembers
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	c := *r
	c.Members = append([]RoomMember(nil), r.Members...)
	return &c
}
