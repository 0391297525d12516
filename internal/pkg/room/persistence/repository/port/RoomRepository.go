package repository

import (
	"context"
	"time"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
)

// RoomRepository defines persistence operations for rooms and their posts.
// Implementations surface domain conditions via the room package sentinels
// (room.ErrRoomExists, room.ErrInvalidCredentials, room.ErrPostNotFound);
// any other error means the backend itself failed.
type RoomRepository interface {
	// CreateRoom inserts a new room; a taken name yields room.ErrRoomExists.
	CreateRoom(ctx context.Context, name string, password string) error

	// Authenticate checks the name/password pair and, on success, returns the
	// room's post history ordered by creation time ascending. An unknown name
	// and a wrong password are indistinguishable: both yield
	// room.ErrInvalidCredentials.
	Authenticate(ctx context.Context, name string, password string) ([]room.Post, error)

	// AppendPost persists a new post and returns it with the generated id and
	// server-side timestamp filled in.
	AppendPost(ctx context.Context, roomName string, content string) (room.Post, error)

	// DeletePost removes one post by id within the room.
	DeletePost(ctx context.Context, roomName string, id string) error

	// ClearRoom removes every post of the room, leaving the room itself.
	ClearRoom(ctx context.Context, roomName string) error

	// PruneBefore removes posts older than cutoff across all rooms and
	// reports how many were deleted.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
