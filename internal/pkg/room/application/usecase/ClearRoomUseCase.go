package usecase

import (
	"context"
	"fmt"

	repository "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/port"
)

// ClearRoomInput names the room whose history is wiped.
type ClearRoomInput struct {
	RoomName string
}

// ClearRoomUseCase deletes every post of a room while keeping the room row.
type ClearRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewClearRoomUseCase(repo repository.RoomRepository) *ClearRoomUseCase {
	return &ClearRoomUseCase{Repo: repo}
}

func (uc *ClearRoomUseCase) Execute(ctx context.Context, in ClearRoomInput) error {
	if in.RoomName == "" {
		return fmt.Errorf("room is required")
	}

	if err := uc.Repo.ClearRoom(ctx, in.RoomName); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
