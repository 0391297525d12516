package usecase

import (
	"context"
	"fmt"

	room "github.com/amuarte/NoteChat/internal/pkg/room/application/domain"
	repository "github.com/amuarte/NoteChat/internal/pkg/room/persistence/repository/port"
)

// PostMessageInput carries the room name and the free-text content to persist.
type PostMessageInput struct {
	RoomName string
	Content  string
}

// PostMessageUseCase persists a new post; the relay broadcasts the returned
// post (id, content, timestamp) so every client sees the authoritative echo.
type PostMessageUseCase struct {
	Repo repository.RoomRepository
}

func NewPostMessageUseCase(repo repository.RoomRepository) *PostMessageUseCase {
	return &PostMessageUseCase{Repo: repo}
}

func (uc *PostMessageUseCase) Execute(ctx context.Context, in PostMessageInput) (*room.Post, error) {
	if in.RoomName == "" {
		return nil, fmt.Errorf("room is required")
	}

	p, err := uc.Repo.AppendPost(ctx, in.RoomName, in.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &p, nil
}
