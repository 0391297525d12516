package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	repository "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/port"
)

// CreateRoomInput carries the name/password pair chosen by the creator.
type CreateRoomInput struct {
	Name     string
	Password string
}

// CreateRoomUseCase registers a new room.
// Hexagonal: depends on repository port only
// One class per use case (own file)
type CreateRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewCreateRoomUseCase(repo repository.RoomRepository) *CreateRoomUseCase {
	return &CreateRoomUseCase{Repo: repo}
}

// Execute validates both fields and persists the room. A taken name surfaces
// as room.ErrRoomExists untouched so the boundary can map it to a conflict.
func (uc *CreateRoomUseCase) Execute(ctx context.Context, in CreateRoomInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Password == "" {
		return room.ErrEmptyField
	}

	if err := uc.Repo.CreateRoom(ctx, name, in.Password); err != nil {
		if errors.Is(err, room.ErrRoomExists) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
