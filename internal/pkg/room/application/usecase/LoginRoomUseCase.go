package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	repository "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/port"
)

// LoginRoomInput carries the credentials supplied at login.
type LoginRoomInput struct {
	Name     string
	Password string
}

// LoginRoomUseCase authenticates against a room and returns its history.
// Hexagonal: depends on repository port only
// One class per use case (own file)
type LoginRoomUseCase struct {
	Repo repository.RoomRepository
}

func NewLoginRoomUseCase(repo repository.RoomRepository) *LoginRoomUseCase {
	return &LoginRoomUseCase{Repo: repo}
}

// Execute returns the room's posts ordered by creation time ascending.
// Unknown room and wrong password both surface as room.ErrInvalidCredentials.
func (uc *LoginRoomUseCase) Execute(ctx context.Context, in LoginRoomInput) ([]room.Post, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, room.ErrInvalidCredentials
	}

	posts, err := uc.Repo.Authenticate(ctx, name, in.Password)
	if err != nil {
		if errors.Is(err, room.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return posts, nil
}
