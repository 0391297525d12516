package room

import (
	"errors"
	"time"
)

// Domain-level errors for room access and post lifecycle
var (
	ErrRoomExists         = errors.New("room: name already taken")
	ErrInvalidCredentials = errors.New("room: wrong name or password")
	ErrRoomNotFound       = errors.New("room: not found")
	ErrPostNotFound       = errors.New("room: post not found")
	ErrEmptyField         = errors.New("room: name and password are required")
)

// Room is a named, password-protected channel holding an ordered post history.
// The name is the identity; rooms are never renamed.
type Room struct {
	Name     string `db:"name"`
	Password string `db:"password"`
}

// Post is a single persisted message belonging to one room.
type Post struct {
	ID        string    `db:"id"`
	RoomName  string    `db:"room_name"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
