package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	repository "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/port"
)

// JoinRoomInput validates a request to attach a connection to a room group.
type JoinRoomInput struct {
	Name     string
	Password string
}

// JoinRoomUseCase checks the credentials before the relay adds the caller to
// the room's membership group. History stays with login; join discards it.
type JoinRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewJoinRoomUseCase(repo repository.RoomRepository) *JoinRoomUseCase {
	return &JoinRoomUseCase{Repo: repo}
}

func (uc *JoinRoomUseCase) Execute(ctx context.Context, in JoinRoomInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return room.ErrInvalidCredentials
	}

	if _, err := uc.Repo.Authenticate(ctx, name, in.Password); err != nil {
		if errors.Is(err, room.ErrInvalidCredentials) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
