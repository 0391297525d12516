package usecase

import (
	"context"
	"errors"
	"fmt"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	repository "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/port"
)

// DeletePostInput identifies one post within a room.
type DeletePostInput struct {
	RoomName string
	ID       string
}

// DeletePostUseCase removes a single post by id.
type DeletePostUseCase struct {
	Repo repository.RoomRepository
}

func NewDeletePostUseCase(repo repository.RoomRepository) *DeletePostUseCase {
	return &DeletePostUseCase{Repo: repo}
}

func (uc *DeletePostUseCase) Execute(ctx context.Context, in DeletePostInput) error {
	if in.RoomName == "" || in.ID == "" {
		return fmt.Errorf("room and id are required")
	}

	if err := uc.Repo.DeletePost(ctx, in.RoomName, in.ID); err != nil {
		if errors.Is(err, room.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
